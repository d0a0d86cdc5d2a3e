// Package mcp builds gbnf models from Model Context Protocol (MCP) tool
// definitions. Constraining an LLM with the resulting grammar guarantees its
// tool-call output names a real tool and matches that tool's parameter
// schema.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhohndorf/gbnfgen/gbnf"
	"github.com/rhohndorf/gbnfgen/schema"
)

// Outer-object keys used for function-call grammars: the generated document
// is { "function": "<ToolName>", "params": { ... } }.
const (
	FunctionKey = "function"
	ParamsKey   = "params"
)

// FromToolSchema builds a gbnf model from a tool's name, description and
// JSON Schema parameter document.
func FromToolSchema(name, description string, inputSchema json.RawMessage) (*gbnf.Object, error) {
	obj, err := schema.FromJSONSchema(inputSchema, name)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	if obj.Description == "" {
		obj.Description = description
	}
	return obj, nil
}

// FunctionCallGrammar compiles tool models into a grammar whose documents
// name one tool and embed that tool's parameters, plus matching prompt
// documentation.
func FunctionCallGrammar(models []*gbnf.Object, opts ...gbnf.Option) (*gbnf.Output, error) {
	all := append([]gbnf.Option{
		gbnf.WithOuterObjectName(FunctionKey),
		gbnf.WithOuterObjectContent(ParamsKey),
		gbnf.WithModelPrefix("Function"),
		gbnf.WithFieldsPrefix("Parameters"),
	}, opts...)
	return gbnf.Generate(models, all...)
}

// Client wraps an MCP client session for grammar generation.
type Client struct {
	mcpClient *sdk.Client
	session   *sdk.ClientSession
}

// NewStdioClient connects to an MCP server running as a subprocess.
//
// Example:
//
//	client, err := mcp.NewStdioClient(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	models, err := client.Models(ctx)
func NewStdioClient(ctx context.Context, command string, args []string) (*Client, error) {
	mcpClient := sdk.NewClient(&sdk.Implementation{
		Name:    "gbnfgen",
		Version: "0.1.0",
	}, nil)

	cmd := exec.Command(command, args...)
	transport := &sdk.CommandTransport{
		Command: cmd,
	}

	session, err := mcpClient.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to MCP server: %w", err)
	}

	return &Client{
		mcpClient: mcpClient,
		session:   session,
	}, nil
}

// Models returns one gbnf model per tool exposed by the server.
func (c *Client) Models(ctx context.Context) ([]*gbnf.Object, error) {
	result, err := c.session.ListTools(ctx, &sdk.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("listing MCP tools: %w", err)
	}

	models := make([]*gbnf.Object, 0, len(result.Tools))
	for _, tool := range result.Tools {
		raw, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %q: marshaling input schema: %w", tool.Name, err)
		}
		model, err := FromToolSchema(tool.Name, tool.Description, raw)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}

	return models, nil
}

// Grammar lists the server's tools and compiles them into a function-call
// grammar in one step.
func (c *Client) Grammar(ctx context.Context, opts ...gbnf.Option) (*gbnf.Output, error) {
	models, err := c.Models(ctx)
	if err != nil {
		return nil, err
	}
	return FunctionCallGrammar(models, opts...)
}

// Close closes the MCP session.
func (c *Client) Close() error {
	return c.session.Close()
}
