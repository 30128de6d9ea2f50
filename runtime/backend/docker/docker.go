// Package docker provides a backend that executes code inside a docker
// container. It bounds filesystem and network side effects of the executed
// program and is the backend behind the standard and hardened profiles.
package docker

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/jonwraymond/codecompare/runtime"
	"github.com/jonwraymond/codecompare/runtime/backend/shared"
)

// Errors for docker backend operations.
var (
	// ErrClientNotConfigured is returned when no ContainerRunner is configured.
	ErrClientNotConfigured = errors.New("docker client not configured")

	// ErrDaemonUnavailable is returned when the docker daemon is not reachable.
	ErrDaemonUnavailable = errors.New("docker daemon unavailable")
)

// DefaultImage is used when neither the language nor the config names one.
const DefaultImage = "python:3.12-slim"

// sourceDir is where the workspace is mounted inside the container.
const sourceDir = "/workspace"

// Config configures a docker backend.
type Config struct {
	// ImageName is the fallback image when the language sets none.
	// Default: DefaultImage
	ImageName string

	// SeccompPath is an optional seccomp profile applied under ProfileHardened.
	SeccompPath string

	// HardenedRuntime is the OCI runtime used under ProfileHardened, e.g.
	// "runsc" to run the container under gVisor.
	HardenedRuntime string

	// TempDir is the parent of per-run host workspaces. It must be
	// shareable with the docker daemon.
	// Default: os.TempDir()
	TempDir string

	// Client runs container specs.
	// If nil, Execute() returns ErrClientNotConfigured.
	Client ContainerRunner

	// ImageResolver optionally resolves/pulls images before execution.
	ImageResolver ImageResolver

	// HealthChecker optionally verifies daemon availability.
	HealthChecker HealthChecker

	// Logger is an optional logger for backend events.
	Logger runtime.Logger
}

// Backend executes code in docker containers.
type Backend struct {
	image       string
	seccompPath string
	hardenedRT  string
	tempDir     string
	client      ContainerRunner
	resolver    ImageResolver
	health      HealthChecker
	logger      runtime.Logger
}

// New creates a new docker backend with the given configuration.
func New(cfg Config) *Backend {
	image := cfg.ImageName
	if image == "" {
		image = DefaultImage
	}
	return &Backend{
		image:       image,
		seccompPath: cfg.SeccompPath,
		hardenedRT:  cfg.HardenedRuntime,
		tempDir:     cfg.TempDir,
		client:      cfg.Client,
		resolver:    cfg.ImageResolver,
		health:      cfg.HealthChecker,
		logger:      cfg.Logger,
	}
}

// Kind returns the backend kind identifier.
func (b *Backend) Kind() runtime.BackendKind {
	return runtime.BackendDocker
}

// Execute runs code in a fresh container.
func (b *Backend) Execute(ctx context.Context, req runtime.ExecuteRequest) (runtime.ExecuteResult, error) {
	if err := req.Validate(); err != nil {
		return runtime.ExecuteResult{}, err
	}
	if b.client == nil {
		return runtime.ExecuteResult{}, ErrClientNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return runtime.ExecuteResult{}, err
	}

	if b.health != nil {
		if err := b.health.Ping(ctx); err != nil {
			return runtime.ExecuteResult{}, fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
		}
	}

	image := req.Language.Image
	if image == "" {
		image = b.image
	}
	if b.resolver != nil {
		resolved, err := b.resolver.Resolve(ctx, image)
		if err != nil {
			return runtime.ExecuteResult{}, err
		}
		image = resolved
	}

	profile := req.Profile
	if profile == "" || profile == runtime.ProfileDev {
		profile = runtime.ProfileStandard
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

	if b.containerOptions(profile, req.Limits).User != "" {
		// The container user is not the workspace owner.
		if err := ws.Share(); err != nil {
			return runtime.ExecuteResult{}, err
		}
	}

	spec, err := b.buildSpec(image, req, profile)
	if err != nil {
		return runtime.ExecuteResult{}, err
	}
	spec.Mounts = []Mount{{Source: ws.Dir, Target: sourceDir, ReadOnly: true}}

	if b.logger != nil {
		b.logger.Info("executing in docker",
			"runID", req.RunID,
			"profile", profile,
			"image", image,
			"networkMode", spec.Security.NetworkMode)
	}

	// Only the container run counts against the timeout.
	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	runResult, err := b.client.Run(runCtx, spec)
	result := runtime.ExecuteResult{
		Stdout:    shared.NormalizeNewlines(runResult.Stdout),
		Stderr:    shared.NormalizeNewlines(runResult.Stderr),
		ExitCode:  runResult.ExitCode,
		Truncated: runResult.Truncated,
		Duration:  time.Since(start),
		Backend:   b.backendInfo(profile),
	}
	if ctxErr := runCtx.Err(); ctxErr != nil {
		result.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, fmt.Errorf("%w after %v", runtime.ErrTimeout, req.Timeout)
		}
		return result, ctxErr
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

var _ runtime.Backend = (*Backend)(nil)

func (b *Backend) backendInfo(profile runtime.SecurityProfile) runtime.BackendInfo {
	return runtime.BackendInfo{
		Kind:      runtime.BackendDocker,
		Readiness: runtime.ReadinessBeta,
		Details: map[string]any{
			"isolation": "container",
			"profile":   string(profile),
		},
	}
}

func (b *Backend) buildSpec(image string, req runtime.ExecuteRequest, profile runtime.SecurityProfile) (ContainerSpec, error) {
	if len(req.Language.Command) == 0 {
		return ContainerSpec{}, fmt.Errorf("%w: language %q", ErrMissingCommand, req.Language.Name)
	}
	opts := b.containerOptions(profile, req.Limits)

	env := make([]string, 0, len(req.Language.Env))
	for k, v := range req.Language.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	name := ""
	if req.RunID != "" {
		name = "codecompare-" + req.RunID
	}

	spec := ContainerSpec{
		Name:       name,
		Image:      image,
		Command:    req.Language.Argv(path.Join(sourceDir, req.Language.SourceFile())),
		WorkingDir: "/tmp",
		Env:        env,
		Resources:  ResourceSpec{MemoryBytes: opts.MemoryLimit, CPUQuota: opts.CPUQuota, PidsLimit: opts.PidsLimit},
		Security: SecuritySpec{
			User:           opts.User,
			ReadOnlyRootfs: opts.ReadOnlyRootfs,
			NetworkMode:    opts.NetworkMode,
			SeccompProfile: opts.SeccompProfile,
			DropAllCaps:    opts.DropAllCaps,
			NoNewPrivs:     opts.NoNewPrivs,
			Runtime:        opts.Runtime,
		},
		Timeout:        req.Timeout,
		MaxOutputBytes: req.Limits.MaxOutputBytes,
		Labels:         map[string]string{"runtime.profile": string(profile), "runtime.backend": string(runtime.BackendDocker)},
	}

	if err := spec.Validate(); err != nil {
		return ContainerSpec{}, err
	}
	return spec, nil
}

type containerOptions struct {
	NetworkDisabled bool
	NetworkMode     string
	ReadOnlyRootfs  bool
	MemoryLimit     int64
	CPUQuota        int64
	PidsLimit       int64
	User            string
	SeccompProfile  string
	DropAllCaps     bool
	NoNewPrivs      bool
	Runtime         string
}

func (b *Backend) containerOptions(profile runtime.SecurityProfile, limits runtime.Limits) containerOptions {
	opts := containerOptions{
		NetworkDisabled: true,
		NetworkMode:     "none",
		ReadOnlyRootfs:  true,
	}

	if profile == runtime.ProfileHardened {
		opts.User = "65534:65534"
		opts.SeccompProfile = b.seccompPath
		opts.DropAllCaps = true
		opts.NoNewPrivs = true
		opts.Runtime = b.hardenedRT
	}

	if limits.MemoryBytes > 0 {
		opts.MemoryLimit = limits.MemoryBytes
	}
	if limits.CPUQuotaMillis > 0 {
		opts.CPUQuota = limits.CPUQuotaMillis * 1000
	}
	if limits.PidsMax > 0 {
		opts.PidsLimit = limits.PidsMax
	}

	return opts
}
