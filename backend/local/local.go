// Package local provides an in-process backend whose tools are plain Go
// handlers.
package local

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/codecompare/backend"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandlerFunc is the function signature for tool handlers.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// ParamType is the JSON type of a tool parameter.
type ParamType string

// Supported parameter types.
const (
	ParamString  ParamType = "string"
	ParamBoolean ParamType = "boolean"
	ParamNumber  ParamType = "number"
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// ToolDef defines a local tool with its handler.
type ToolDef struct {
	Name        string
	Title       string
	Description string
	Params      []Param
	ReadOnly    bool
	Tags        []string
	Handler     HandlerFunc
}

// InputSchema returns the JSON schema object built from Params.
func (d ToolDef) InputSchema() map[string]any {
	props := make(map[string]any, len(d.Params))
	required := make([]string, 0)
	for _, p := range d.Params {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Backend implements backend.Backend for local tool handlers.
type Backend struct {
	name     string
	enabled  bool
	handlers map[string]ToolDef
	mu       sync.RWMutex
}

var _ backend.Backend = (*Backend)(nil)

// New creates a new local backend.
func New(name string) *Backend {
	return &Backend{
		name:     name,
		enabled:  true,
		handlers: make(map[string]ToolDef),
	}
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "local"
}

// Name returns the backend instance name.
func (b *Backend) Name() string {
	return b.name
}

// Enabled returns whether the backend is enabled.
func (b *Backend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the backend.
func (b *Backend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Register adds a tool. An existing tool with the same name is replaced.
func (b *Backend) Register(def ToolDef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[def.Name] = def
}

// Unregister removes a tool.
func (b *Backend) Unregister(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, name)
}

// Def returns the definition of a registered tool.
func (b *Backend) Def(name string) (ToolDef, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	def, ok := b.handlers[name]
	return def, ok
}

// ListTools returns the registered tools ordered by name.
func (b *Backend) ListTools(_ context.Context) ([]model.Tool, error) {
	b.mu.RLock()
	defs := make([]ToolDef, 0, len(b.handlers))
	for _, def := range b.handlers {
		defs = append(defs, def)
	}
	b.mu.RUnlock()

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	out := make([]model.Tool, 0, len(defs))
	for _, def := range defs {
		tool := model.Tool{
			Tool: mcp.Tool{
				Name:        def.Name,
				Title:       def.Title,
				Description: def.Description,
				InputSchema: def.InputSchema(),
				Annotations: &mcp.ToolAnnotations{ReadOnlyHint: def.ReadOnly},
			},
			Namespace: b.name,
			Tags:      model.NormalizeTags(def.Tags),
		}
		out = append(out, tool)
	}
	return out, nil
}

// Execute checks the required arguments and invokes a tool handler.
func (b *Backend) Execute(ctx context.Context, tool string, args map[string]any) (any, error) {
	b.mu.RLock()
	enabled := b.enabled
	def, ok := b.handlers[tool]
	b.mu.RUnlock()

	if !enabled {
		return nil, fmt.Errorf("%w: %s", backend.ErrBackendDisabled, b.name)
	}
	if !ok || def.Handler == nil {
		return nil, fmt.Errorf("%w: %s", backend.ErrToolNotFound, tool)
	}
	for _, p := range def.Params {
		if p.Required {
			if _, present := args[p.Name]; !present {
				return nil, fmt.Errorf("%w: %s requires %q", backend.ErrInvalidArgument, tool, p.Name)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return def.Handler(ctx, args)
}

// Start is a no-op for local backends.
func (b *Backend) Start(_ context.Context) error {
	return nil
}

// Stop is a no-op for local backends.
func (b *Backend) Stop() error {
	return nil
}
