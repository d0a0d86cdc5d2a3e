package gbnf

import (
	"fmt"
	"strings"
)

// Defaults for the documentation section headings.
const (
	DefaultModelPrefix  = "Output Model"
	DefaultFieldsPrefix = "Output Fields"
)

// Output holds the two artifacts of one compilation.
type Output struct {
	// Grammar is the GBNF grammar text, one "name ::= body" rule per line.
	Grammar string

	// Documentation is a plain-text description of the models, formatted
	// for inclusion in a prompt.
	Documentation string
}

// Option configures a Generate call.
type Option func(*config)

type config struct {
	outerName    string
	outerContent string
	modelPrefix  string
	fieldsPrefix string
}

func newConfig() *config {
	return &config{
		modelPrefix:  DefaultModelPrefix,
		fieldsPrefix: DefaultFieldsPrefix,
	}
}

func (c *config) apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

func (c *config) validate() error {
	if c.outerName != "" && c.outerContent == "" {
		return &ConfigurationError{
			Option: "outer object content",
			Reason: "required when an outer object name is set",
		}
	}
	if c.outerContent != "" && c.outerName == "" {
		return &ConfigurationError{
			Option: "outer object name",
			Reason: "required when an outer object content key is set",
		}
	}
	return nil
}

// WithOuterObjectName wraps each top-level model in an object carrying the
// model's name under the given key. Requires WithOuterObjectContent.
func WithOuterObjectName(name string) Option {
	return func(c *config) {
		c.outerName = name
	}
}

// WithOuterObjectContent names the key holding the wrapped model body.
// Requires WithOuterObjectName.
func WithOuterObjectContent(key string) Option {
	return func(c *config) {
		c.outerContent = key
	}
}

// WithModelPrefix sets the heading text preceding each model name in the
// documentation.
func WithModelPrefix(prefix string) Option {
	return func(c *config) {
		c.modelPrefix = prefix
	}
}

// WithFieldsPrefix sets the heading text preceding each model's field list
// in the documentation.
func WithFieldsPrefix(prefix string) Option {
	return func(c *config) {
		c.fieldsPrefix = prefix
	}
}

// Generate compiles the given models into a GBNF grammar and a textual
// description. Compilation is pure and deterministic: identical inputs
// produce byte-identical output.
//
// Example:
//
//	book := &gbnf.Object{
//	    Name: "Book",
//	    Fields: []gbnf.Field{
//	        {Name: "title", Type: gbnf.String(), Required: true},
//	        {Name: "year", Type: gbnf.Integer()},
//	    },
//	}
//
//	out, err := gbnf.Generate([]*gbnf.Object{book})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(out.Grammar)
func Generate(models []*Object, opts ...Option) (*Output, error) {
	cfg := newConfig()
	cfg.apply(opts...)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, &SchemaError{Kind: "object", Reason: "empty model list"}
	}

	tr := newTranslator()
	rootAlts := make([]string, 0, len(models))

	for _, m := range models {
		if m == nil {
			return nil, &SchemaError{Kind: "object", Reason: "nil model"}
		}
		name, err := tr.translate(m, "")
		if err != nil {
			return nil, err
		}
		if cfg.outerName != "" {
			name, err = wrapModel(tr.rules, cfg, name, m.Name)
			if err != nil {
				return nil, err
			}
		}
		rootAlts = append(rootAlts, name)
	}

	return &Output{
		Grammar:       serializeGrammar(tr.rules, rootAlts),
		Documentation: renderDocumentation(models, cfg),
	}, nil
}

// wrapModel synthesizes the per-model outer wrapper rule
// { "<outer-key>": "<ModelName>", "<content-key>": <model-rule> } and
// returns its name. A model whose own rules already claimed the wrapper
// name (a field literally named "wrapper", say) is rejected rather than
// letting the root alternation point at the wrong rule.
func wrapModel(rules *ruleSet, cfg *config, modelRule, modelName string) (string, error) {
	name := modelRule + "-wrapper"
	body := fmt.Sprintf(`"{" ws %s ws ":" ws %s ws "," ws %s ws ":" ws %s ws "}"`,
		jsonStringLiteral(cfg.outerName),
		jsonStringLiteral(modelName),
		jsonStringLiteral(cfg.outerContent),
		modelRule,
	)
	if !rules.add(name, body) {
		return "", &SchemaError{
			Model:  modelName,
			Kind:   "object",
			Reason: fmt.Sprintf("rule name %q already in use by another rule", name),
		}
	}
	return name, nil
}

// serializeGrammar lists base primitives first, synthesized rules in
// first-use order, and the root rule last.
func serializeGrammar(rules *ruleSet, rootAlts []string) string {
	var sb strings.Builder
	for _, r := range basePrimitives {
		fmt.Fprintf(&sb, "%s ::= %s\n", r.name, r.body)
	}
	for _, name := range rules.names {
		fmt.Fprintf(&sb, "%s ::= %s\n", name, rules.bodies[name])
	}
	fmt.Fprintf(&sb, "%s ::= %s\n", rootRuleName, strings.Join(rootAlts, " | "))
	return sb.String()
}
