// Package llamacpp provides a llama.cpp server backend. The server's
// /completion endpoint accepts GBNF grammar text directly, which makes it
// the natural consumer for generated grammars.
package llamacpp

import (
	"context"
	"net/http"
	"os"

	"github.com/rhohndorf/gbnfgen/provider"
)

func init() {
	provider.Register("llamacpp", func() (provider.Provider, error) {
		return New()
	})
}

// Provider implements the llama.cpp server completion API.
type Provider struct {
	client *client
}

// Option configures the llama.cpp provider.
type Option func(*providerConfig)

type providerConfig struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL sets the server address (default http://127.0.0.1:8080).
func WithBaseURL(url string) Option {
	return func(c *providerConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *providerConfig) {
		c.httpClient = client
	}
}

// New creates a new llama.cpp provider. The server address falls back to the
// LLAMACPP_SERVER environment variable, then the default local address.
func New(opts ...Option) (*Provider, error) {
	cfg := &providerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL == "" {
		cfg.baseURL = os.Getenv("LLAMACPP_SERVER")
	}

	return &Provider{
		client: newClient(cfg.baseURL, cfg.httpClient),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "llamacpp"
}

// Complete implements provider.Provider.
func (p *Provider) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	apiResp, err := p.client.completion(ctx, &completionRequest{
		Prompt:      req.Prompt,
		Grammar:     req.Grammar,
		Temperature: req.Temperature,
		NPredict:    req.MaxTokens,
		Seed:        req.Seed,
		Stop:        req.Stop,
	})
	if err != nil {
		return nil, err
	}

	return &provider.Response{
		Content:         apiResp.Content,
		TokensEvaluated: apiResp.TokensEvaluated,
		TokensPredicted: apiResp.TokensPredicted,
		StopReason:      stopReason(apiResp),
	}, nil
}

func stopReason(resp *completionResponse) provider.StopReason {
	switch {
	case resp.StoppedWord:
		return provider.StopReasonWord
	case resp.StoppedLimit:
		return provider.StopReasonLimit
	default:
		return provider.StopReasonEOS
	}
}
