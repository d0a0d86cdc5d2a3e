package llm

import (
	"github.com/rhohndorf/gbnfgen/gbnf"
	"github.com/rhohndorf/gbnfgen/provider"
)

// Response wraps the provider response with type-safe parsed content.
// T is the structured output type, or string for unconstrained calls.
type Response[T any] struct {
	raw       *provider.Response
	parsed    T
	hasParsed bool
	parseErr  error
	output    *gbnf.Output // grammar and documentation used, if any
}

// Text returns the raw text content of the response.
func (r Response[T]) Text() string {
	if r.raw == nil {
		return ""
	}
	return r.raw.Content
}

// Parsed returns the structured output with compile-time type safety.
// Returns ErrNotParsed if the response was not created via CallStructured.
func (r Response[T]) Parsed() (T, error) {
	if r.parseErr != nil {
		return r.parsed, r.parseErr
	}
	if !r.hasParsed {
		return r.parsed, ErrNotParsed
	}
	return r.parsed, nil
}

// MustParse returns the parsed value or panics.
// Useful in tests or when you're certain parsing succeeded.
func (r Response[T]) MustParse() T {
	v, err := r.Parsed()
	if err != nil {
		panic(err)
	}
	return v
}

// Grammar returns the GBNF grammar text the call was constrained by, or ""
// for unconstrained calls.
func (r Response[T]) Grammar() string {
	if r.output == nil {
		return ""
	}
	return r.output.Grammar
}

// Documentation returns the model documentation included in the prompt, or
// "" for unconstrained calls.
func (r Response[T]) Documentation() string {
	if r.output == nil {
		return ""
	}
	return r.output.Documentation
}

// StopReason returns why the backend stopped generating.
func (r Response[T]) StopReason() provider.StopReason {
	if r.raw == nil {
		return ""
	}
	return r.raw.StopReason
}

// Raw returns the underlying provider response.
// This can be useful for debugging or accessing backend-specific data.
func (r Response[T]) Raw() *provider.Response {
	return r.raw
}
