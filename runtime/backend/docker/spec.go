package docker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ResourceSpec defines container resource limits.
type ResourceSpec struct {
	MemoryBytes int64
	// CPUQuota is CPU microseconds allowed per second of wall time.
	CPUQuota  int64
	PidsLimit int64
}

// SecuritySpec defines container security settings.
type SecuritySpec struct {
	User           string
	ReadOnlyRootfs bool
	NetworkMode    string
	SeccompProfile string
	DropAllCaps    bool
	NoNewPrivs     bool

	// Runtime is the OCI runtime, e.g. "runsc" for gVisor. Empty uses the
	// daemon default.
	Runtime string
}

// Mount binds a host path into the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// ContainerSpec defines one container run.
type ContainerSpec struct {
	Name       string
	Image      string
	Command    []string
	WorkingDir string
	Env        []string
	Mounts     []Mount
	Resources  ResourceSpec
	Security   SecuritySpec
	Timeout    time.Duration
	Labels     map[string]string

	// MaxOutputBytes caps each captured stream; zero selects the default.
	MaxOutputBytes int64
}

// Errors returned by ContainerSpec.Validate.
var (
	ErrMissingImage   = errors.New("container image is required")
	ErrMissingCommand = errors.New("container command is required")
)

// Validate checks that the container spec can be run.
func (s ContainerSpec) Validate() error {
	if s.Image == "" {
		return ErrMissingImage
	}
	if len(s.Command) == 0 {
		return ErrMissingCommand
	}
	return nil
}

// Args returns the `docker` CLI arguments for the container spec.
func (s ContainerSpec) Args() []string {
	args := []string{"run", "--rm", "-i"}
	if s.Name != "" {
		args = append(args, "--name", s.Name)
	}
	if s.Security.NetworkMode != "" {
		args = append(args, "--network", s.Security.NetworkMode)
	}
	if s.Security.ReadOnlyRootfs {
		args = append(args, "--read-only", "--tmpfs", "/tmp:rw,exec,size=64m")
	}
	if s.Security.Runtime != "" {
		args = append(args, "--runtime", s.Security.Runtime)
	}
	if s.Security.User != "" {
		args = append(args, "--user", s.Security.User)
	}
	if s.Security.DropAllCaps {
		args = append(args, "--cap-drop", "ALL")
	}
	if s.Security.NoNewPrivs {
		args = append(args, "--security-opt", "no-new-privileges")
	}
	if s.Security.SeccompProfile != "" {
		args = append(args, "--security-opt", "seccomp="+s.Security.SeccompProfile)
	}
	if s.Resources.MemoryBytes > 0 {
		args = append(args, "--memory", strconv.FormatInt(s.Resources.MemoryBytes, 10))
	}
	if s.Resources.CPUQuota > 0 {
		args = append(args, "--cpu-period", "1000000", "--cpu-quota", strconv.FormatInt(s.Resources.CPUQuota, 10))
	}
	if s.Resources.PidsLimit > 0 {
		args = append(args, "--pids-limit", strconv.FormatInt(s.Resources.PidsLimit, 10))
	}
	for _, m := range s.Mounts {
		v := m.Source + ":" + m.Target
		if m.ReadOnly {
			v += ":ro"
		}
		args = append(args, "-v", v)
	}
	if s.WorkingDir != "" {
		args = append(args, "-w", s.WorkingDir)
	}
	for _, e := range s.Env {
		args = append(args, "-e", e)
	}
	keys := make([]string, 0, len(s.Labels))
	for k := range s.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--label", k+"="+s.Labels[k])
	}
	args = append(args, s.Image)
	return append(args, s.Command...)
}

// ContainerResult captures the output of a container run.
type ContainerResult struct {
	ExitCode  int
	Stdout    string
	Stderr    string
	Truncated bool
	Duration  time.Duration
}

// ContainerRunner runs container specs.
//
// Contract:
// - Context: must stop the container when ctx is done.
// - Errors: a non-zero exit of the program is a result, not an error;
//   engine failures return *ClientError.
type ContainerRunner interface {
	Run(ctx context.Context, spec ContainerSpec) (ContainerResult, error)
}

// ImageResolver resolves (and may pull) an image reference before a run.
type ImageResolver interface {
	Resolve(ctx context.Context, image string) (string, error)
}

// HealthChecker verifies that the container engine is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ClientError describes a failed container engine operation.
type ClientError struct {
	Op          string
	Image       string
	ContainerID string
	Err         error
}

// Error returns the error message.
func (e *ClientError) Error() string {
	if e.ContainerID != "" {
		return fmt.Sprintf("docker %s %s (%s): %v", e.Op, e.Image, e.ContainerID, e.Err)
	}
	return fmt.Sprintf("docker %s %s: %v", e.Op, e.Image, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ClientError) Unwrap() error {
	return e.Err
}
