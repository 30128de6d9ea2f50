package runtime

import "time"

// Readiness describes how production-ready a backend is.
type Readiness string

// Readiness levels.
const (
	ReadinessStable Readiness = "stable"
	ReadinessBeta   Readiness = "beta"
)

// BackendInfo describes the backend that served a run.
type BackendInfo struct {
	Kind      BackendKind
	Readiness Readiness
	Details   map[string]any
}

// ExecuteResult is what a process printed and how it ended.
type ExecuteResult struct {
	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// ExitCode is the process exit status; -1 when the process did not exit
	// on its own.
	ExitCode int

	// Truncated is set when stdout or stderr exceeded Limits.MaxOutputBytes.
	Truncated bool

	// Duration is the wall time of the run.
	Duration time.Duration

	// Backend describes the backend that served the run.
	Backend BackendInfo
}

// Succeeded reports whether the process exited with status zero.
func (r ExecuteResult) Succeeded() bool {
	return r.ExitCode == 0
}
