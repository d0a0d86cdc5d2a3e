package llm

import (
	"strings"

	"github.com/rhohndorf/gbnfgen/gbnf"
	"github.com/rhohndorf/gbnfgen/provider"
)

// Option configures a call.
type Option func(*callConfig)

// callConfig holds all configuration for a call.
type callConfig struct {
	providerName  string
	temperature   *float64
	maxTokens     *int
	seed          *int
	stopSequences []string
	systemMessage string
	gbnfOptions   []gbnf.Option
}

func newCallConfig() *callConfig {
	return &callConfig{}
}

func (c *callConfig) apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithProvider sets the completion backend (e.g., "llamacpp").
func WithProvider(name string) Option {
	return func(c *callConfig) {
		c.providerName = name
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *callConfig) {
		c.temperature = &t
	}
}

// WithMaxTokens sets the maximum tokens in the response.
func WithMaxTokens(n int) Option {
	return func(c *callConfig) {
		c.maxTokens = &n
	}
}

// WithSeed sets a random seed for reproducibility.
func WithSeed(seed int) Option {
	return func(c *callConfig) {
		c.seed = &seed
	}
}

// WithStopSequences sets stop sequences to end generation.
func WithStopSequences(seqs ...string) Option {
	return func(c *callConfig) {
		c.stopSequences = seqs
	}
}

// WithSystemMessage sets instruction text placed before the model
// documentation and the user prompt.
func WithSystemMessage(msg string) Option {
	return func(c *callConfig) {
		c.systemMessage = msg
	}
}

// WithGrammarOptions forwards options to the grammar compiler, e.g.
// gbnf.WithOuterObjectName for function-call wrapping.
func WithGrammarOptions(opts ...gbnf.Option) Option {
	return func(c *callConfig) {
		c.gbnfOptions = append(c.gbnfOptions, opts...)
	}
}

// buildRequest assembles the provider request. The prompt is the system
// message, the model documentation, and the user prompt, separated by blank
// lines; empty sections are dropped.
func (c *callConfig) buildRequest(prompt, grammar, docs string) *provider.Request {
	sections := make([]string, 0, 3)
	if c.systemMessage != "" {
		sections = append(sections, c.systemMessage)
	}
	if docs != "" {
		sections = append(sections, docs)
	}
	if prompt != "" {
		sections = append(sections, prompt)
	}

	return &provider.Request{
		Prompt:      strings.Join(sections, "\n\n"),
		Grammar:     grammar,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Seed:        c.seed,
		Stop:        c.stopSequences,
	}
}
