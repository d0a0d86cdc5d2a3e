package gbnf

import (
	"fmt"
	"strings"
)

// renderDocumentation produces the prompt-facing description of the models:
// a heading and field list per model, with nested models documented once
// each in first-use order after the model that reaches them first.
func renderDocumentation(models []*Object, cfg *config) string {
	w := &docWriter{
		cfg:  cfg,
		seen: make(map[*Object]bool),
	}
	for _, m := range models {
		w.writeModel(m)
	}
	return w.sb.String()
}

type docWriter struct {
	cfg     *config
	sb      strings.Builder
	seen    map[*Object]bool
	pending []*Object // nested models discovered while rendering fields
}

func (w *docWriter) writeModel(m *Object) {
	if w.seen[m] {
		return
	}
	w.seen[m] = true

	if w.sb.Len() > 0 {
		w.sb.WriteByte('\n')
	}
	fmt.Fprintf(&w.sb, "%s: %s\n", w.cfg.modelPrefix, m.Name)
	if m.Description != "" {
		fmt.Fprintf(&w.sb, "  Description: %s\n", m.Description)
	}
	if len(m.Fields) > 0 {
		fmt.Fprintf(&w.sb, "  %s:\n", w.cfg.fieldsPrefix)
		for _, f := range m.Fields {
			typeName := w.typeName(f.Type)
			if !f.Required {
				typeName = "optional of " + typeName
			}
			if f.Description != "" {
				fmt.Fprintf(&w.sb, "    %s (%s): %s\n", f.Name, typeName, f.Description)
			} else {
				fmt.Fprintf(&w.sb, "    %s (%s)\n", f.Name, typeName)
			}
		}
	}

	// Document nested models reached from this one, in first-use order.
	for len(w.pending) > 0 {
		next := w.pending[0]
		w.pending = w.pending[1:]
		w.writeModel(next)
	}
}

// typeName renders a node as a readable type expression, queueing any nested
// models it references for their own documentation section.
func (w *docWriter) typeName(node Node) string {
	switch n := node.(type) {
	case *Primitive:
		switch n.Kind {
		case PrimString:
			return "string"
		case PrimInteger:
			return "integer"
		case PrimFloat:
			return "float"
		case PrimBoolean:
			return "boolean"
		case PrimNull:
			return "null"
		}
		return "unknown"
	case *Enum:
		if n.Name != "" {
			return n.Name
		}
		return "enum of " + strings.Join(n.Values, ", ")
	case *List:
		return "list of " + w.typeName(n.Elem)
	case *Optional:
		return "optional of " + w.typeName(n.Elem)
	case *Union:
		parts := make([]string, len(n.Members))
		for i, m := range n.Members {
			parts[i] = w.typeName(m)
		}
		return "union of " + strings.Join(parts, ", ")
	case *Object:
		if !w.seen[n] {
			w.pending = append(w.pending, n)
		}
		return n.Name
	default:
		return "unknown"
	}
}
