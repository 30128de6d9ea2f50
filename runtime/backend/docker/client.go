package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/jonwraymond/codecompare/runtime/backend/shared"
)

// engineFailureCode is the exit status docker itself uses when it cannot
// create or start the container.
const engineFailureCode = 125

// CLIRunner drives the docker command line client. It implements
// ContainerRunner, ImageResolver and HealthChecker.
type CLIRunner struct {
	// Binary is the docker executable.
	// Default: "docker"
	Binary string

	// Pull pulls images that are missing locally during Resolve.
	Pull bool
}

// NewCLIRunner returns a runner using the docker binary on PATH.
func NewCLIRunner() *CLIRunner {
	return &CLIRunner{Binary: "docker", Pull: true}
}

func (c *CLIRunner) binary() string {
	if c.Binary == "" {
		return "docker"
	}
	return c.Binary
}

// Run starts the container and waits for it. When ctx ends first the
// container is force-removed.
func (c *CLIRunner) Run(ctx context.Context, spec ContainerSpec) (ContainerResult, error) {
	if err := spec.Validate(); err != nil {
		return ContainerResult{}, err
	}

	stdout := shared.NewOutputBuffer(spec.MaxOutputBytes)
	stderr := shared.NewOutputBuffer(spec.MaxOutputBytes)

	cmd := exec.CommandContext(ctx, c.binary(), spec.Args()...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err := cmd.Run()
	result := ContainerResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Duration:  time.Since(start),
		ExitCode:  -1,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctx.Err() != nil {
		c.remove(spec.Name)
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr) && result.ExitCode == engineFailureCode:
		return result, &ClientError{Op: "run", Image: spec.Image, ContainerID: spec.Name, Err: errors.New(strings.TrimSpace(result.Stderr))}
	case errors.As(err, &exitErr):
		return result, nil
	case errors.Is(err, exec.ErrWaitDelay):
		return result, nil
	default:
		return result, &ClientError{Op: "run", Image: spec.Image, ContainerID: spec.Name, Err: err}
	}
}

// remove force-removes a container that outlived its context.
func (c *CLIRunner) remove(name string) {
	if name == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = exec.CommandContext(ctx, c.binary(), "rm", "-f", name).Run()
}

// Resolve checks that the image exists locally and pulls it when Pull is set.
func (c *CLIRunner) Resolve(ctx context.Context, image string) (string, error) {
	if err := c.run(ctx, "image", "inspect", "--format", "{{.Id}}", image); err == nil {
		return image, nil
	} else if !c.Pull {
		return "", &ClientError{Op: "inspect", Image: image, Err: err}
	}
	if err := c.run(ctx, "pull", "--quiet", image); err != nil {
		return "", &ClientError{Op: "pull", Image: image, Err: err}
	}
	return image, nil
}

// Ping checks that the daemon answers.
func (c *CLIRunner) Ping(ctx context.Context) error {
	if err := c.run(ctx, "version", "--format", "{{.Server.Version}}"); err != nil {
		return &ClientError{Op: "ping", Err: err}
	}
	return nil
}

func (c *CLIRunner) run(ctx context.Context, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary(), args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

var (
	_ ContainerRunner = (*CLIRunner)(nil)
	_ ImageResolver   = (*CLIRunner)(nil)
	_ HealthChecker   = (*CLIRunner)(nil)
)

// MockContainerRunner is a ContainerRunner for tests.
type MockContainerRunner struct {
	RunFunc func(ctx context.Context, spec ContainerSpec) (ContainerResult, error)
}

// Run calls RunFunc, or returns an empty successful result.
func (m *MockContainerRunner) Run(ctx context.Context, spec ContainerSpec) (ContainerResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, spec)
	}
	return ContainerResult{}, nil
}

// MockHealthChecker is a HealthChecker for tests.
type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

// Ping calls PingFunc, or returns nil.
func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// MockImageResolver is an ImageResolver for tests.
type MockImageResolver struct {
	ResolveFunc func(ctx context.Context, image string) (string, error)
}

// Resolve calls ResolveFunc, or returns image unchanged.
func (m *MockImageResolver) Resolve(ctx context.Context, image string) (string, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, image)
	}
	return image, nil
}
