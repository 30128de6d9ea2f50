package code

import (
	"context"

	"github.com/jonwraymond/codecompare/runtime"
)

// Engine is the pluggable execution engine that turns a request into a
// process. runtime.DefaultRuntime satisfies it.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and stop the process when ctx is done.
// - Errors: a program that runs and exits non-zero is a result, not an error;
//   errors mean the program could not be run or was cut short.
// - Ownership: req is read-only; the returned result is caller-owned.
type Engine interface {
	// Execute runs one request and returns its captured output.
	Execute(ctx context.Context, req runtime.ExecuteRequest) (runtime.ExecuteResult, error)
}

var _ Engine = (*runtime.DefaultRuntime)(nil)
