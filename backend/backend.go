package backend

import (
	"context"
	"errors"

	"github.com/jonwraymond/toolfoundation/model"
)

// Errors a tool call can fail with before or inside its handler.
var (
	ErrBackendNotFound = errors.New("backend not found")
	ErrBackendDisabled = errors.New("backend disabled")
	ErrToolNotFound    = errors.New("tool not found in backend")
	ErrInvalidArgument = errors.New("invalid tool argument")
)

// Backend serves a set of tools under one namespace. The codecompare
// toolset is a local backend; tests substitute their own.
//
// Contract:
// - Concurrency: ListTools and Execute may be called from several MCP
//   requests at once.
// - Context: Execute stops a run when ctx ends.
// - Errors: unknown tools wrap ErrToolNotFound, bad arguments wrap
//   ErrInvalidArgument and a switched-off backend wraps ErrBackendDisabled.
type Backend interface {
	// Kind names the implementation, such as "local".
	Kind() string

	// Name is the namespace of the backend's tools.
	Name() string

	// Enabled reports whether the tools are currently offered.
	Enabled() bool

	// ListTools describes every tool with its input schema.
	ListTools(ctx context.Context) ([]model.Tool, error)

	// Execute calls tool with decoded JSON arguments and returns a value
	// the caller serializes as JSON.
	Execute(ctx context.Context, tool string, args map[string]any) (any, error)

	// Start prepares the backend before it serves calls.
	Start(ctx context.Context) error

	// Stop releases what Start acquired.
	Stop() error
}
