package gbnf

import (
	"fmt"
	"strings"
)

// translator maps schema nodes to grammar rules. One translator serves one
// compilation: it owns the rule set being built and the identity-keyed
// visited set that deduplicates model references and breaks cycles.
type translator struct {
	rules   *ruleSet
	visited map[Node]string // *Object / *Enum pointer -> rule name
	model   string          // enclosing model name, for error context
	field   string          // enclosing field name, for error context
}

func newTranslator() *translator {
	return &translator{
		rules:   newRuleSet(),
		visited: make(map[Node]string),
	}
}

// translate returns the name of a rule generating exactly the JSON-text
// alternatives legal for node, inserting any new rules required. hint names
// synthesized rules; it is derived from the model/field path and is unique
// per schema position.
func (t *translator) translate(node Node, hint string) (string, error) {
	switch n := node.(type) {
	case *Primitive:
		return t.primitiveRule(n)
	case *Enum:
		return t.enumRule(n, hint)
	case *List:
		return t.listRule(n, hint)
	case *Optional:
		return t.optionalRule(n, hint)
	case *Union:
		return t.unionRule(n, hint)
	case *Object:
		return t.objectRule(n)
	case nil:
		return "", t.schemaErr("", "missing type node")
	default:
		return "", t.schemaErr(node.kindName(), "unsupported node kind")
	}
}

func (t *translator) primitiveRule(n *Primitive) (string, error) {
	switch n.Kind {
	case PrimString:
		return "string", nil
	case PrimInteger:
		return "integer", nil
	case PrimFloat:
		return "float", nil
	case PrimBoolean:
		return "boolean", nil
	case PrimNull:
		return "null", nil
	default:
		return "", t.schemaErr("primitive", fmt.Sprintf("unrecognized primitive kind %d", n.Kind))
	}
}

func (t *translator) enumRule(n *Enum, hint string) (string, error) {
	// A named enum declared once and referenced from several fields keeps
	// a single rule; anonymous enums are fresh per occurrence.
	if name, ok := t.visited[n]; ok {
		return name, nil
	}
	if len(n.Values) == 0 {
		return "", t.schemaErr("enum", "enum with zero values")
	}
	name := hint
	if n.Name != "" {
		name = sanitizeName(n.Name)
	}
	alts := make([]string, len(n.Values))
	for i, v := range n.Values {
		alts[i] = jsonStringLiteral(v)
	}
	if err := t.addRule("enum", name, strings.Join(alts, " | ")); err != nil {
		return "", err
	}
	t.visited[n] = name
	return name, nil
}

func (t *translator) listRule(n *List, hint string) (string, error) {
	elem, err := t.translate(n.Elem, hint+"-item")
	if err != nil {
		return "", err
	}
	body := fmt.Sprintf(`"[" (ws %s ws ",")* ws %s ws "]" | "[" ws "]"`, elem, elem)
	if err := t.addRule("list", hint, body); err != nil {
		return "", err
	}
	return hint, nil
}

func (t *translator) optionalRule(n *Optional, hint string) (string, error) {
	elem, err := t.translate(n.Elem, hint+"-value")
	if err != nil {
		return "", err
	}
	if err := t.addRule("optional", hint, elem+" | null"); err != nil {
		return "", err
	}
	return hint, nil
}

func (t *translator) unionRule(n *Union, hint string) (string, error) {
	if len(n.Members) == 0 {
		return "", t.schemaErr("union", "union with zero members")
	}
	alts := make([]string, len(n.Members))
	for i, m := range n.Members {
		name, err := t.translate(m, fmt.Sprintf("%s-%d", hint, i))
		if err != nil {
			return "", err
		}
		alts[i] = name
	}
	if err := t.addRule("union", hint, strings.Join(alts, " | ")); err != nil {
		return "", err
	}
	return hint, nil
}

func (t *translator) objectRule(n *Object) (string, error) {
	if name, ok := t.visited[n]; ok {
		return name, nil
	}
	if n.Name == "" {
		return "", t.schemaErr("object", "object model without a name")
	}
	name := sanitizeName(n.Name)

	// Mark visited and reserve the rule slot before recursing so
	// self-referential and mutually-referential models terminate, and so
	// the model's rule precedes its field rules in the output. A failed
	// claim means a distinct model or synthesized rule already took the
	// name; merging them would silently drop this model's shape.
	if !t.rules.reserve(name) {
		return "", &SchemaError{
			Model:  n.Name,
			Kind:   "object",
			Reason: fmt.Sprintf("rule name %q already in use by another rule", name),
		}
	}
	t.visited[n] = name

	prevModel, prevField := t.model, t.field
	t.model = n.Name

	var sb strings.Builder
	sb.WriteString(`"{"`)
	for i, f := range n.Fields {
		t.field = f.Name
		if f.Name == "" {
			return "", t.schemaErr("object", "field without a name")
		}
		fieldNode := f.Type
		if fieldNode == nil {
			return "", t.schemaErr("object", "field without a type")
		}
		if !f.Required {
			fieldNode = &Optional{Elem: fieldNode}
		}
		fieldRule, err := t.translate(fieldNode, name+"-"+sanitizeName(f.Name))
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(` ws ","`)
		}
		fmt.Fprintf(&sb, ` ws %s ws ":" ws %s`, jsonStringLiteral(f.Name), fieldRule)
	}
	sb.WriteString(` ws "}"`)

	t.model, t.field = prevModel, prevField
	t.rules.fill(name, sb.String())
	return name, nil
}

// addRule registers a synthesized rule, turning a name collision into a
// schema error with the current model/field context.
func (t *translator) addRule(kind, name, body string) error {
	if !t.rules.add(name, body) {
		return t.schemaErr(kind, fmt.Sprintf("rule name %q already in use by another rule", name))
	}
	return nil
}

func (t *translator) schemaErr(kind, reason string) *SchemaError {
	return &SchemaError{Model: t.model, Field: t.field, Kind: kind, Reason: reason}
}
