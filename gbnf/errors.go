package gbnf

import (
	"fmt"
	"strings"
)

// SchemaError reports an unsupported or malformed schema node. Model, Field
// and Kind identify the offending node where known.
type SchemaError struct {
	Model  string
	Field  string
	Kind   string
	Reason string
}

func (e *SchemaError) Error() string {
	var loc []string
	if e.Model != "" {
		loc = append(loc, "model "+e.Model)
	}
	if e.Field != "" {
		loc = append(loc, "field "+e.Field)
	}
	if e.Kind != "" {
		loc = append(loc, e.Kind+" node")
	}
	if len(loc) == 0 {
		return fmt.Sprintf("schema error: %s", e.Reason)
	}
	return fmt.Sprintf("schema error: %s: %s", strings.Join(loc, ", "), e.Reason)
}

// ConfigurationError reports inconsistent generation options.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Option, e.Reason)
}
