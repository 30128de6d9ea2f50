package code

import (
	"time"
)

// Status classifies a Result.
type Status string

// Result statuses.
const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// ExecuteParams specifies the parameters for executing a code string.
type ExecuteParams struct {
	// Language names a configured language.
	// If empty, the executor's default language is used.
	Language string `json:"language,omitempty"`

	// Code is the source code to execute.
	Code string `json:"code"`

	// Timeout specifies the maximum duration for execution.
	// If zero, the executor's default timeout is used.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Result is the outcome of one run.
type Result struct {
	// Status is Success when the program exited with status zero.
	Status Status `json:"status"`

	// Output is the captured stdout. On failure it holds whatever was
	// printed before the program failed.
	Output string `json:"output"`

	// Trace is the formatted error of a failed run.
	Trace string `json:"trace,omitempty"`

	// Stderr is the captured stderr.
	Stderr string `json:"stderr,omitempty"`

	// ExitCode is the process exit status, -1 if it never exited normally.
	ExitCode int `json:"exitCode"`

	// Truncated is set when stdout or stderr hit the output cap.
	Truncated bool `json:"truncated,omitempty"`

	// RunID identifies the run in logs.
	RunID string `json:"runId,omitempty"`

	// Backend is the runtime backend kind that ran the code.
	Backend string `json:"backend,omitempty"`

	// DurationMs is the total execution time in milliseconds.
	DurationMs int64 `json:"durationMs"`

	// Err classifies a failure: a *CodeError, or an error wrapping
	// ErrLimitExceeded, ErrConfiguration or a backend error.
	Err error `json:"-"`
}

// Success returns a successful result with the given output.
func Success(output string) Result {
	return Result{Status: StatusSuccess, Output: output}
}

// Failure returns a failed result with the given trace.
func Failure(trace string, err error) Result {
	return Result{Status: StatusFailure, Trace: trace, ExitCode: -1, Err: err}
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Text returns the output of a successful run or the trace of a failed one.
func (r Result) Text() string {
	if r.OK() {
		return r.Output
	}
	return r.Trace
}
