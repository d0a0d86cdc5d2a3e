// Package schemafile loads gbnf schema models from declarative YAML
// definitions. It is an alternative to reflection for callers that describe
// their models in files rather than Go types.
//
// A definition file holds enums and models; field types are written as type
// expressions:
//
//	enums:
//	  - name: Category
//	    description: The category of the book.
//	    values: [Fiction, Non-Fiction]
//	models:
//	  - name: Book
//	    description: Represents an entry about a book.
//	    fields:
//	      - name: title
//	        type: string
//	        required: true
//	        description: Title of the book.
//	      - name: keywords
//	        type: list[string]
//	      - name: category
//	        type: Category
//	        required: true
//
// Supported expressions: string, integer, float, boolean, null,
// list[T], optional[T], union[T1, T2, ...], and references to enums or
// models declared in the same file (forward and cyclic references included).
package schemafile

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/rhohndorf/gbnfgen/gbnf"
)

type schemaFile struct {
	Enums  []enumDef  `yaml:"enums"`
	Models []modelDef `yaml:"models"`
}

type enumDef struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Values      []string `yaml:"values"`
}

type modelDef struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Fields      []fieldDef `yaml:"fields"`
}

type fieldDef struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description"`
}

// Parse reads one YAML definition document and returns its models in
// declaration order.
func Parse(data []byte) ([]*gbnf.Object, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, fmt.Errorf("schema file defines no models")
	}

	r := &resolver{
		enums:  make(map[string]*gbnf.Enum),
		models: make(map[string]*gbnf.Object),
	}

	// Register every declared name first so field types may reference
	// models and enums declared later in the file, or cyclically.
	for _, e := range file.Enums {
		if e.Name == "" {
			return nil, fmt.Errorf("enum without a name")
		}
		if _, ok := r.enums[e.Name]; ok {
			return nil, fmt.Errorf("duplicate enum %q", e.Name)
		}
		r.enums[e.Name] = &gbnf.Enum{
			Name:        e.Name,
			Description: e.Description,
			Values:      e.Values,
		}
	}

	models := make([]*gbnf.Object, 0, len(file.Models))
	for _, m := range file.Models {
		if m.Name == "" {
			return nil, fmt.Errorf("model without a name")
		}
		if _, ok := r.models[m.Name]; ok {
			return nil, fmt.Errorf("duplicate model %q", m.Name)
		}
		obj := &gbnf.Object{Name: m.Name, Description: m.Description}
		r.models[m.Name] = obj
		models = append(models, obj)
	}

	for i, m := range file.Models {
		for _, f := range m.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("model %q: field without a name", m.Name)
			}
			node, err := r.resolve(f.Type)
			if err != nil {
				return nil, fmt.Errorf("model %q, field %q: %w", m.Name, f.Name, err)
			}
			models[i].Fields = append(models[i].Fields, gbnf.Field{
				Name:        f.Name,
				Type:        node,
				Required:    f.Required,
				Description: f.Description,
			})
		}
	}

	return models, nil
}

// Load parses the definition file at path.
func Load(path string) ([]*gbnf.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	models, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return models, nil
}

// LoadGlob parses every definition file under root matched by the doublestar
// pattern (e.g. "**/*.yaml"), in lexical path order, and returns the
// concatenated models.
func LoadGlob(root, pattern string) ([]*gbnf.Object, error) {
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("matching pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no schema files match %q under %s", pattern, root)
	}
	sort.Strings(matches)

	var models []*gbnf.Object
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("reading schema file %s: %w", m, err)
		}
		parsed, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		models = append(models, parsed...)
	}
	return models, nil
}

// resolver maps type expressions to nodes within one definition file.
type resolver struct {
	enums  map[string]*gbnf.Enum
	models map[string]*gbnf.Object
}

func (r *resolver) resolve(expr string) (gbnf.Node, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("missing type")
	}

	switch expr {
	case "string":
		return gbnf.String(), nil
	case "integer", "int":
		return gbnf.Integer(), nil
	case "float", "number":
		return gbnf.Float(), nil
	case "boolean", "bool":
		return gbnf.Boolean(), nil
	case "null":
		return gbnf.Null(), nil
	}

	if inner, ok := bracketArg(expr, "list"); ok {
		elem, err := r.resolve(inner)
		if err != nil {
			return nil, err
		}
		return &gbnf.List{Elem: elem}, nil
	}
	if inner, ok := bracketArg(expr, "optional"); ok {
		elem, err := r.resolve(inner)
		if err != nil {
			return nil, err
		}
		return &gbnf.Optional{Elem: elem}, nil
	}
	if inner, ok := bracketArg(expr, "union"); ok {
		parts := splitTopLevel(inner)
		members := make([]gbnf.Node, 0, len(parts))
		for _, p := range parts {
			m, err := r.resolve(p)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return &gbnf.Union{Members: members}, nil
	}

	if e, ok := r.enums[expr]; ok {
		return e, nil
	}
	if m, ok := r.models[expr]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("unknown type %q", expr)
}

// bracketArg returns the bracketed argument of expressions like
// "list[string]" for the given keyword.
func bracketArg(expr, keyword string) (string, bool) {
	if !strings.HasPrefix(expr, keyword+"[") || !strings.HasSuffix(expr, "]") {
		return "", false
	}
	return expr[len(keyword)+1 : len(expr)-1], true
}

// splitTopLevel splits on commas outside brackets, so nested expressions
// like union[list[string], integer] keep their arguments intact.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
