package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/toolfoundation/model"
)

// ErrInvalidToolID is returned for an ID that is not "namespace:tool".
var ErrInvalidToolID = errors.New("invalid tool ID format")

// Aggregator is the single entry point the MCP server and the tools command
// use: it lists the tools of every enabled backend and routes calls by ID.
type Aggregator struct {
	registry *Registry
}

// NewAggregator routes calls to the backends of registry.
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// ListAllTools concatenates the tools of the enabled backends. A tool that
// does not name its namespace is placed in its backend's.
func (a *Aggregator) ListAllTools(ctx context.Context) ([]model.Tool, error) {
	var all []model.Tool
	for _, b := range a.registry.ListEnabled() {
		tools, err := b.ListTools(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", b.Name(), err)
		}
		for _, t := range tools {
			if t.Namespace == "" {
				t.Namespace = b.Name()
			}
			all = append(all, t)
		}
	}
	if all == nil {
		all = []model.Tool{}
	}
	return all, nil
}

// Execute calls the tool named by toolID, for example
// "codecompare:compare_code". The namespace is required.
func (a *Aggregator) Execute(ctx context.Context, toolID string, args map[string]any) (any, error) {
	namespace, tool, err := ParseToolID(toolID)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		return nil, fmt.Errorf("%w: %q has no namespace", ErrInvalidToolID, toolID)
	}

	b, ok := a.registry.Get(namespace)
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %s", ErrBackendNotFound, namespace)
	case !b.Enabled():
		return nil, fmt.Errorf("%w: %s", ErrBackendDisabled, namespace)
	}
	return b.Execute(ctx, tool, args)
}

// ParseToolID splits "namespace:tool". A bare name yields an empty
// namespace.
func ParseToolID(id string) (namespace, tool string, err error) {
	namespace, tool, err = model.ParseToolID(id)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidToolID, id)
	}
	return namespace, tool, nil
}

// FormatToolID joins a namespace and a tool name; an empty namespace gives
// the bare name.
func FormatToolID(namespace, tool string) string {
	if namespace == "" {
		return tool
	}
	return namespace + ":" + tool
}
