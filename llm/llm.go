// Package llm provides the main API for grammar-constrained LLM calls: it
// turns a Go type or a prepared model list into a GBNF grammar plus prompt
// documentation, sends both to a completion backend, and parses the result.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rhohndorf/gbnfgen/gbnf"
	"github.com/rhohndorf/gbnfgen/provider"
	"github.com/rhohndorf/gbnfgen/schema"
)

// Call makes an unconstrained completion call and returns the text response.
//
// Example:
//
//	resp, err := llm.Call(ctx, "Tell me about Dune",
//	    llm.WithProvider("llamacpp"),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Text())
func Call(ctx context.Context, prompt string, opts ...Option) (Response[string], error) {
	cfg := newCallConfig()
	cfg.apply(opts...)

	raw, err := complete(ctx, cfg, cfg.buildRequest(prompt, "", ""))
	if err != nil {
		return Response[string]{}, err
	}

	return Response[string]{raw: raw}, nil
}

// CallStructured makes a grammar-constrained call whose output must be a
// JSON instance of T. The grammar and the prompt documentation are generated
// from T's json and jsonschema tags.
//
// Example:
//
//	type Book struct {
//	    Title  string `json:"title" jsonschema:"required,description=Title of the book."`
//	    Author string `json:"author" jsonschema:"required"`
//	}
//
//	resp, err := llm.CallStructured[Book](ctx, text,
//	    llm.WithProvider("llamacpp"),
//	    llm.WithSystemMessage("Create a dataset entry for a book."),
//	)
//	if err != nil {
//	    return err
//	}
//	book := resp.MustParse()
func CallStructured[T any](ctx context.Context, prompt string, opts ...Option) (Response[T], error) {
	cfg := newCallConfig()
	cfg.apply(opts...)

	model, err := schema.FromType[T]()
	if err != nil {
		return Response[T]{}, fmt.Errorf("building schema: %w", err)
	}

	out, err := gbnf.Generate([]*gbnf.Object{model}, cfg.gbnfOptions...)
	if err != nil {
		return Response[T]{}, fmt.Errorf("generating grammar: %w", err)
	}

	raw, err := complete(ctx, cfg, cfg.buildRequest(prompt, out.Grammar, out.Documentation))
	if err != nil {
		return Response[T]{}, err
	}

	var parsed T
	parseErr := json.Unmarshal([]byte(raw.Content), &parsed)
	if parseErr != nil {
		parseErr = &ParseError{
			Content: raw.Content,
			Target:  model.Name,
			Cause:   parseErr,
		}
	}

	return Response[T]{
		raw:       raw,
		parsed:    parsed,
		hasParsed: parseErr == nil,
		parseErr:  parseErr,
		output:    out,
	}, nil
}

// CallWithModels makes a grammar-constrained call against prepared models,
// for schemas built by hand or loaded from definition files. The raw
// constrained text is returned; with several models (or outer-object
// wrapping) the caller decides how to decode it.
func CallWithModels(ctx context.Context, prompt string, models []*gbnf.Object, opts ...Option) (Response[string], error) {
	cfg := newCallConfig()
	cfg.apply(opts...)

	out, err := gbnf.Generate(models, cfg.gbnfOptions...)
	if err != nil {
		return Response[string]{}, fmt.Errorf("generating grammar: %w", err)
	}

	raw, err := complete(ctx, cfg, cfg.buildRequest(prompt, out.Grammar, out.Documentation))
	if err != nil {
		return Response[string]{}, err
	}

	return Response[string]{raw: raw, output: out}, nil
}

// complete resolves the backend and executes the request.
func complete(ctx context.Context, cfg *callConfig, req *provider.Request) (*provider.Response, error) {
	if cfg.providerName == "" {
		return nil, ErrProviderRequired
	}

	p, err := provider.Get(cfg.providerName)
	if err != nil {
		return nil, fmt.Errorf("getting provider: %w", err)
	}

	resp, err := p.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("calling provider: %w", err)
	}
	return resp, nil
}
