package llm

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrProviderRequired is returned when WithProvider is not specified.
	ErrProviderRequired = errors.New("provider is required: use WithProvider option")

	// ErrNotParsed is returned when Parsed() is called on a response that
	// was not produced by CallStructured.
	ErrNotParsed = errors.New("response was not parsed: use CallStructured to get structured output")
)

// ParseError represents a failure to parse the constrained output.
type ParseError struct {
	Content string
	Target  string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response as %s: %v", e.Target, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
