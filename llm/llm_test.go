package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhohndorf/gbnfgen/gbnf"
	"github.com/rhohndorf/gbnfgen/provider"
)

// stubProvider records the last request and replies with canned content.
type stubProvider struct {
	content string
	lastReq *provider.Request
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	s.lastReq = req
	return &provider.Response{
		Content:    s.content,
		StopReason: provider.StopReasonEOS,
	}, nil
}

func registerStub(t *testing.T, content string) *stubProvider {
	t.Helper()
	stub := &stubProvider{content: content}
	provider.Register(t.Name(), func() (provider.Provider, error) {
		return stub, nil
	})
	return stub
}

type book struct {
	Title  string `json:"title" jsonschema:"required,description=Title of the book."`
	Author string `json:"author" jsonschema:"required"`
	Year   *int   `json:"year,omitempty"`
}

func TestCall(t *testing.T) {
	stub := registerStub(t, "plain text answer")

	resp, err := Call(context.Background(), "Tell me about Dune",
		WithProvider(t.Name()),
		WithSystemMessage("You are terse."),
	)
	require.NoError(t, err)

	assert.Equal(t, "plain text answer", resp.Text())
	assert.Empty(t, resp.Grammar())
	assert.Equal(t, "You are terse.\n\nTell me about Dune", stub.lastReq.Prompt)
	assert.Empty(t, stub.lastReq.Grammar)

	_, err = resp.Parsed()
	assert.ErrorIs(t, err, ErrNotParsed)
}

func TestCall_ProviderRequired(t *testing.T) {
	_, err := Call(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestCallStructured(t *testing.T) {
	stub := registerStub(t, `{"title":"Dune","author":"Frank Herbert","year":1965}`)

	resp, err := CallStructured[book](context.Background(), "Describe Dune.",
		WithProvider(t.Name()),
		WithSystemMessage("Create a dataset entry."),
	)
	require.NoError(t, err)

	parsed := resp.MustParse()
	assert.Equal(t, "Dune", parsed.Title)
	assert.Equal(t, "Frank Herbert", parsed.Author)
	require.NotNil(t, parsed.Year)
	assert.Equal(t, 1965, *parsed.Year)

	// The grammar constrained the request and the documentation went
	// into the prompt.
	assert.Contains(t, stub.lastReq.Grammar, "root ::= book")
	assert.Contains(t, stub.lastReq.Grammar, `"\"title\""`)
	assert.Contains(t, stub.lastReq.Prompt, "Output Model: book")
	assert.Contains(t, stub.lastReq.Prompt, "Describe Dune.")
	assert.Equal(t, stub.lastReq.Grammar, resp.Grammar())
}

func TestCallStructured_ParseError(t *testing.T) {
	registerStub(t, "not json at all")

	resp, err := CallStructured[book](context.Background(), "Describe Dune.",
		WithProvider(t.Name()),
	)
	require.NoError(t, err)

	_, parseErr := resp.Parsed()
	var pe *ParseError
	require.ErrorAs(t, parseErr, &pe)
	assert.Equal(t, "not json at all", pe.Content)

	// The raw text is still available.
	assert.Equal(t, "not json at all", resp.Text())
}

func TestCallWithModels(t *testing.T) {
	stub := registerStub(t, `{"function":"Search","params":{"query":"dune"}}`)

	search := &gbnf.Object{
		Name: "Search",
		Fields: []gbnf.Field{
			{Name: "query", Type: gbnf.String(), Required: true},
		},
	}

	resp, err := CallWithModels(context.Background(), "Find the book.",
		[]*gbnf.Object{search},
		WithProvider(t.Name()),
		WithGrammarOptions(
			gbnf.WithOuterObjectName("function"),
			gbnf.WithOuterObjectContent("params"),
		),
	)
	require.NoError(t, err)

	assert.Contains(t, stub.lastReq.Grammar, "search-wrapper")
	assert.Contains(t, resp.Text(), `"function":"Search"`)
}

func TestCallWithModels_GrammarError(t *testing.T) {
	registerStub(t, "")

	_, err := CallWithModels(context.Background(), "prompt", nil,
		WithProvider(t.Name()),
	)

	var schemaErr *gbnf.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}
