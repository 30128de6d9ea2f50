// Package server serves the codecompare tools over the Model Context
// Protocol. It only converts between MCP requests and backend tool calls.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonwraymond/codecompare/backend"
	"github.com/jonwraymond/codecompare/logging"
	"github.com/jonwraymond/toolfoundation/model"
)

// Name is the MCP server implementation name.
const Name = "codecompare"

// Options configures the MCP server.
type Options struct {
	// Version is reported to clients. Default: "dev"
	Version string

	// Logger receives one event per tool call. Default: logging.Nop()
	Logger logging.Logger
}

// New builds an MCP server exposing every tool of the aggregator's enabled
// backends. Tools are exposed by bare name; two backends exporting the same
// name is an error.
func New(ctx context.Context, agg *backend.Aggregator, opts Options) (*server.MCPServer, error) {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	tools, err := Tools(ctx, agg, opts.Logger)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(Name, opts.Version, server.WithToolCapabilities(false))
	s.AddTools(tools...)
	return s, nil
}

// Serve runs the server on stdin and stdout until the input closes.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// Tools converts the aggregator's tools into MCP tools with handlers.
func Tools(ctx context.Context, agg *backend.Aggregator, log logging.Logger) ([]server.ServerTool, error) {
	list, err := agg.ListAllTools(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(list))
	out := make([]server.ServerTool, 0, len(list))
	for _, t := range list {
		id := backend.FormatToolID(t.Namespace, t.Name)
		if prev, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("tool name %q exported by both %s and %s", t.Name, prev, id)
		}
		seen[t.Name] = id

		out = append(out, server.ServerTool{
			Tool:    Convert(t),
			Handler: Handler(agg, id, log),
		})
	}
	return out, nil
}

// Convert builds the MCP definition of a tool from its JSON input schema.
func Convert(t model.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	if t.Title != "" {
		opts = append(opts, mcp.WithTitleAnnotation(t.Title))
	}
	if t.Annotations != nil && t.Annotations.ReadOnlyHint {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	}

	schema, _ := t.InputSchema.(map[string]any)
	props, _ := schema["properties"].(map[string]any)
	required := requiredSet(schema["required"])

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, _ := props[name].(map[string]any)
		var popts []mcp.PropertyOption
		if required[name] {
			popts = append(popts, mcp.Required())
		}
		if desc, ok := prop["description"].(string); ok && desc != "" {
			popts = append(popts, mcp.Description(desc))
		}
		if enum, ok := prop["enum"].([]string); ok && len(enum) > 0 {
			popts = append(popts, mcp.Enum(enum...))
		}

		switch prop["type"] {
		case "boolean":
			opts = append(opts, mcp.WithBoolean(name, popts...))
		case "number", "integer":
			opts = append(opts, mcp.WithNumber(name, popts...))
		default:
			opts = append(opts, mcp.WithString(name, popts...))
		}
	}
	return mcp.NewTool(t.Name, opts...)
}

func requiredSet(v any) map[string]bool {
	out := make(map[string]bool)
	switch req := v.(type) {
	case []string:
		for _, name := range req {
			out[name] = true
		}
	case []any:
		for _, name := range req {
			if s, ok := name.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}

// Handler returns the MCP handler forwarding calls to the tool with the
// given ID. Tool failures are reported as error results, not protocol
// errors; successful results are returned as indented JSON text.
func Handler(agg *backend.Aggregator, toolID string, log logging.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := agg.Execute(ctx, toolID, req.GetArguments())
		if err != nil {
			log.Warn("tool call failed", "tool", toolID, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			log.Error("encode tool result", "tool", toolID, "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		log.Info("tool call", "tool", toolID)
		return mcp.NewToolResultText(string(data)), nil
	}
}
