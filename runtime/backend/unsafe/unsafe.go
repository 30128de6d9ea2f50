// Package unsafe provides a backend that runs the interpreter directly on the
// host. Each run gets a fresh process and a fresh temporary working
// directory, but the process has the caller's privileges: it can read and
// write files anywhere the user can and reach the network. Use it only for
// code you trust, or pair it with the docker backend for anything else.
package unsafe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/jonwraymond/codecompare/runtime"
	"github.com/jonwraymond/codecompare/runtime/backend/shared"
)

// DefaultWaitDelay bounds how long Execute waits for output pipes to close
// after the interpreter has been killed. Grandchildren that inherited the
// pipes would otherwise keep Execute blocked.
const DefaultWaitDelay = 500 * time.Millisecond

// Config configures an unsafe host backend.
type Config struct {
	// TempDir is the parent directory of per-run workspaces.
	// Default: os.TempDir()
	TempDir string

	// InheritEnv passes the host environment to the interpreter. When false
	// the interpreter only sees PATH, HOME, LANG and the language's Env.
	InheritEnv bool

	// WaitDelay overrides DefaultWaitDelay.
	WaitDelay time.Duration

	// Logger is an optional logger for backend events.
	Logger runtime.Logger
}

// Backend runs code as a host subprocess.
type Backend struct {
	tempDir    string
	inheritEnv bool
	waitDelay  time.Duration
	logger     runtime.Logger
}

// New creates an unsafe host backend.
func New(cfg Config) *Backend {
	waitDelay := cfg.WaitDelay
	if waitDelay <= 0 {
		waitDelay = DefaultWaitDelay
	}
	return &Backend{
		tempDir:    cfg.TempDir,
		inheritEnv: cfg.InheritEnv,
		waitDelay:  waitDelay,
		logger:     cfg.Logger,
	}
}

// Kind returns the backend kind identifier.
func (b *Backend) Kind() runtime.BackendKind {
	return runtime.BackendUnsafeHost
}

// Execute writes req.Code to a fresh workspace and runs the interpreter on it.
// Only ProfileDev (or an empty profile) is accepted.
func (b *Backend) Execute(ctx context.Context, req runtime.ExecuteRequest) (runtime.ExecuteResult, error) {
	if err := req.Validate(); err != nil {
		return runtime.ExecuteResult{}, err
	}
	if req.Profile != "" && req.Profile != runtime.ProfileDev {
		return runtime.ExecuteResult{}, fmt.Errorf("%w: unsafe host backend cannot satisfy profile %q", runtime.ErrBackendDenied, req.Profile)
	}
	if err := ctx.Err(); err != nil {
		return runtime.ExecuteResult{}, err
	}

	if b.logger != nil {
		b.logger.Warn("UNSAFE: running code on the host without isolation",
			"runID", req.RunID,
			"language", req.Language.Name)
	}

	ws, err := shared.NewWorkspace(b.tempDir, req)
	if err != nil {
		return runtime.ExecuteResult{}, err
	}
	defer func() {
		if err := ws.Close(); err != nil && b.logger != nil {
			b.logger.Warn("workspace cleanup failed", "runID", req.RunID, "dir", ws.Dir, "error", err)
		}
	}()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	argv := req.Language.Argv(ws.File)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = ws.Dir
	cmd.Env = b.environ(req.Language.Env, ws.Dir)
	cmd.WaitDelay = b.waitDelay

	stdout := shared.NewOutputBuffer(req.Limits.MaxOutputBytes)
	stderr := shared.NewOutputBuffer(req.Limits.MaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()
	result := runtime.ExecuteResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  -1,
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Duration:  time.Since(start),
		Backend:   b.backendInfo(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, fmt.Errorf("%w after %v", runtime.ErrTimeout, req.Timeout)
		}
		return result, ctxErr
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		// The interpreter ran and failed; its stderr tells the story.
	case errors.Is(runErr, exec.ErrWaitDelay):
		// Output pipes were held open by a descendant after a clean exit.
	default:
		return result, fmt.Errorf("%w: %s: %v", runtime.ErrStartFailed, argv[0], runErr)
	}

	if b.logger != nil {
		b.logger.Info("run finished",
			"runID", req.RunID,
			"exitCode", result.ExitCode,
			"duration", result.Duration,
			"truncated", result.Truncated)
	}
	return result, nil
}

var _ runtime.Backend = (*Backend)(nil)

func (b *Backend) backendInfo() runtime.BackendInfo {
	return runtime.BackendInfo{
		Kind:      runtime.BackendUnsafeHost,
		Readiness: runtime.ReadinessStable,
		Details: map[string]any{
			"isolation": "process",
			"profile":   string(runtime.ProfileDev),
		},
	}
}

func (b *Backend) environ(extra map[string]string, dir string) []string {
	var env []string
	if b.inheritEnv {
		env = os.Environ()
	} else {
		for _, key := range []string{"PATH", "HOME", "LANG", "SYSTEMROOT", "GOCACHE", "GOPATH"} {
			if v, ok := os.LookupEnv(key); ok {
				env = append(env, key+"="+v)
			}
		}
	}
	env = append(env, "TMPDIR="+dir)
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
