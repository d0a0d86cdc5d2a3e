// Package schema builds gbnf schema models from Go types and from JSON
// Schema documents. It is the Go-side adapter in front of the grammar
// compiler: reflection happens here, never in the compiler itself.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/rhohndorf/gbnfgen/gbnf"
)

// Reflector is configured for grammar-oriented schemas. References are kept
// so recursive Go types resolve through $defs instead of looping.
var Reflector = &jsonschema.Reflector{}

// FromType builds a gbnf model from a Go struct type using json and
// jsonschema tags.
//
// Example:
//
//	type Book struct {
//	    Title string `json:"title" jsonschema:"required,description=Title of the book."`
//	    Year  int    `json:"year,omitempty" jsonschema:"description=Publishing year."`
//	}
//
//	model, err := schema.FromType[Book]()
func FromType[T any]() (*gbnf.Object, error) {
	var zero T
	return FromValue(&zero)
}

// FromValue builds a gbnf model from a struct value. Useful when the type is
// not known at compile time.
func FromValue(v any) (*gbnf.Object, error) {
	s := Reflector.Reflect(v)

	name := typeName(v)
	obj, err := newConverter(s.Definitions).object(deref(s, s.Definitions), name)
	if err != nil {
		return nil, fmt.Errorf("converting schema for %s: %w", name, err)
	}
	return obj, nil
}

// MustFromType is like FromType but panics on error. Useful for
// package-level model definitions.
func MustFromType[T any]() *gbnf.Object {
	obj, err := FromType[T]()
	if err != nil {
		panic(err)
	}
	return obj
}

// FromJSONSchema builds a gbnf model named name from a JSON Schema document.
// The document's root must describe an object.
func FromJSONSchema(data json.RawMessage, name string) (*gbnf.Object, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing JSON schema: %w", err)
	}

	obj, err := newConverter(s.Definitions).object(deref(&s, s.Definitions), name)
	if err != nil {
		return nil, fmt.Errorf("converting schema %s: %w", name, err)
	}
	return obj, nil
}

// converter walks a reflected JSON Schema and its $defs, memoizing converted
// objects by definition name so shared and recursive references keep pointer
// identity (one grammar rule per model).
type converter struct {
	defs jsonschema.Definitions
	memo map[string]*gbnf.Object
}

func newConverter(defs jsonschema.Definitions) *converter {
	return &converter{
		defs: defs,
		memo: make(map[string]*gbnf.Object),
	}
}

func (c *converter) object(s *jsonschema.Schema, name string) (*gbnf.Object, error) {
	if s == nil {
		return nil, fmt.Errorf("model %s: missing schema", name)
	}
	if s.Type != "object" {
		return nil, fmt.Errorf("model %s: root schema is %q, want object", name, s.Type)
	}

	obj := &gbnf.Object{
		Name:        name,
		Description: s.Description,
	}
	// Memoize before walking fields so self-references resolve to obj.
	c.memo[name] = obj

	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			node, err := c.node(pair.Value, name+"."+pair.Key)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", pair.Key, err)
			}
			obj.Fields = append(obj.Fields, gbnf.Field{
				Name:        pair.Key,
				Type:        node,
				Required:    required[pair.Key],
				Description: pair.Value.Description,
			})
		}
	}

	return obj, nil
}

// node converts one schema position into a gbnf node. path locates the
// position in error messages and names anonymous nested objects.
func (c *converter) node(s *jsonschema.Schema, path string) (gbnf.Node, error) {
	if s == nil {
		return nil, fmt.Errorf("%s: missing schema", path)
	}

	if s.Ref != "" {
		return c.resolveRef(s.Ref, path)
	}

	if len(s.Enum) > 0 {
		return enumNode(s, "")
	}

	if members := unionMembers(s); len(members) > 0 {
		return c.unionNode(members, path)
	}

	switch s.Type {
	case "string":
		return gbnf.String(), nil
	case "integer":
		return gbnf.Integer(), nil
	case "number":
		return gbnf.Float(), nil
	case "boolean":
		return gbnf.Boolean(), nil
	case "null":
		return gbnf.Null(), nil
	case "array":
		elem, err := c.node(s.Items, path+"[]")
		if err != nil {
			return nil, err
		}
		return &gbnf.List{Elem: elem}, nil
	case "object":
		// Anonymous inline object; named after its schema path.
		return c.object(s, path)
	default:
		return nil, fmt.Errorf("%s: unsupported schema type %q", path, s.Type)
	}
}

// resolveRef follows a local "#/$defs/Name" reference, converting the
// definition once and reusing it thereafter.
func (c *converter) resolveRef(ref, path string) (gbnf.Node, error) {
	name, ok := strings.CutPrefix(ref, "#/$defs/")
	if !ok {
		return nil, fmt.Errorf("%s: unsupported reference %q", path, ref)
	}
	if obj, ok := c.memo[name]; ok {
		return obj, nil
	}
	def, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("%s: unresolved reference %q", path, ref)
	}
	if def.Type == "object" {
		return c.object(def, name)
	}
	if len(def.Enum) > 0 {
		return enumNode(def, name)
	}
	return c.node(def, path)
}

// unionNode converts anyOf/oneOf members. A union with a null branch
// collapses into an optional.
func (c *converter) unionNode(members []*jsonschema.Schema, path string) (gbnf.Node, error) {
	nodes := make([]gbnf.Node, 0, len(members))
	nullSeen := false
	for i, m := range members {
		if m.Type == "null" {
			nullSeen = true
			continue
		}
		node, err := c.node(m, fmt.Sprintf("%s|%d", path, i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	switch {
	case nullSeen && len(nodes) == 1:
		return &gbnf.Optional{Elem: nodes[0]}, nil
	case nullSeen:
		return &gbnf.Optional{Elem: &gbnf.Union{Members: nodes}}, nil
	case len(nodes) == 1:
		return nodes[0], nil
	default:
		return &gbnf.Union{Members: nodes}, nil
	}
}

func unionMembers(s *jsonschema.Schema) []*jsonschema.Schema {
	if len(s.AnyOf) > 0 {
		return s.AnyOf
	}
	return s.OneOf
}

// enumNode converts a string-valued enum schema. Grammar enums are string
// literals, so any other value type is rejected here.
func enumNode(s *jsonschema.Schema, name string) (gbnf.Node, error) {
	values := make([]string, len(s.Enum))
	for i, v := range s.Enum {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("enum %s: non-string value %v", name, v)
		}
		values[i] = str
	}
	return &gbnf.Enum{
		Name:        name,
		Description: s.Description,
		Values:      values,
	}, nil
}

// deref resolves a reflected root schema, which invopop emits as a bare
// reference into $defs.
func deref(s *jsonschema.Schema, defs jsonschema.Definitions) *jsonschema.Schema {
	if s.Ref == "" {
		return s
	}
	if name, ok := strings.CutPrefix(s.Ref, "#/$defs/"); ok {
		if def, ok := defs[name]; ok {
			return def
		}
	}
	return s
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "Model"
	}
	return t.Name()
}
