package runtime

import (
	"context"
	"fmt"
)

// BackendKind identifies a backend implementation.
type BackendKind string

// Known backend kinds.
const (
	// BackendUnsafeHost runs the interpreter directly on the host.
	BackendUnsafeHost BackendKind = "unsafe_host"

	// BackendDocker runs the interpreter in a docker container.
	BackendDocker BackendKind = "docker"
)

// SecurityProfile selects how strongly a run is isolated.
type SecurityProfile string

// Security profiles, weakest first.
const (
	ProfileDev      SecurityProfile = "dev"
	ProfileStandard SecurityProfile = "standard"
	ProfileHardened SecurityProfile = "hardened"
)

// IsValid reports whether p is a known profile.
func (p SecurityProfile) IsValid() bool {
	switch p {
	case ProfileDev, ProfileStandard, ProfileHardened:
		return true
	default:
		return false
	}
}

// ParseProfile validates a profile name. Empty selects ProfileDev.
func ParseProfile(name string) (SecurityProfile, error) {
	if name == "" {
		return ProfileDev, nil
	}
	p := SecurityProfile(name)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfile, name)
	}
	return p, nil
}

// Backend runs code in one kind of process environment.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and kill the process when done.
// - Errors: a non-zero exit is reported in ExecuteResult, not as an error;
//   timeouts wrap ErrTimeout.
// - Ownership: req is read-only; returned ExecuteResult is caller-owned.
type Backend interface {
	// Kind returns the backend kind identifier.
	Kind() BackendKind

	// Execute runs req.Code and captures its output.
	Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error)
}

// Runtime dispatches requests to the backend registered for their profile.
type Runtime interface {
	Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error)
}

// RuntimeConfig configures a DefaultRuntime.
type RuntimeConfig struct {
	// Backends maps each supported profile to its backend.
	Backends map[SecurityProfile]Backend

	// DefaultProfile is used when a request leaves Profile empty.
	// Default: ProfileDev
	DefaultProfile SecurityProfile

	// Logger is an optional logger for dispatch events.
	Logger Logger
}

// DefaultRuntime is the standard Runtime implementation.
type DefaultRuntime struct {
	backends       map[SecurityProfile]Backend
	defaultProfile SecurityProfile
	logger         Logger
}

// NewDefaultRuntime creates a runtime from cfg.
func NewDefaultRuntime(cfg RuntimeConfig) *DefaultRuntime {
	profile := cfg.DefaultProfile
	if profile == "" {
		profile = ProfileDev
	}
	backends := make(map[SecurityProfile]Backend, len(cfg.Backends))
	for p, b := range cfg.Backends {
		backends[p] = b
	}
	return &DefaultRuntime{
		backends:       backends,
		defaultProfile: profile,
		logger:         cfg.Logger,
	}
}

// Execute validates req, fills in the default profile and hands the request
// to the matching backend.
func (r *DefaultRuntime) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error) {
	if req.Profile == "" {
		req.Profile = r.defaultProfile
	}
	if err := req.Validate(); err != nil {
		return ExecuteResult{}, err
	}

	backend, ok := r.backends[req.Profile]
	if !ok || backend == nil {
		return ExecuteResult{}, fmt.Errorf("%w: no backend for profile %q", ErrRuntimeUnavailable, req.Profile)
	}

	if r.logger != nil {
		r.logger.Info("dispatching run",
			"runID", req.RunID,
			"profile", req.Profile,
			"backend", backend.Kind(),
			"language", req.Language.Name)
	}
	return backend.Execute(ctx, req)
}

// Logger is the interface for logging.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var _ Runtime = (*DefaultRuntime)(nil)
