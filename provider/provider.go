// Package provider defines the interface for text-generation backends that
// accept a GBNF grammar as a decoding constraint.
package provider

import "context"

// Provider is the abstraction over grammar-constrained completion backends.
type Provider interface {
	// Name returns the provider identifier (e.g., "llamacpp").
	Name() string

	// Complete executes one completion request. The returned content is
	// constrained by the request grammar, if any.
	Complete(ctx context.Context, req *Request) (*Response, error)
}
