package runtime

import (
	"fmt"
	"strings"
	"time"
)

// FilePlaceholder is replaced by the path of the source file in a
// Language command. When absent, the path is appended as the last argument.
const FilePlaceholder = "{file}"

// Language describes how to run source code of one language.
type Language struct {
	// Name is the language identifier (e.g. "python").
	Name string `yaml:"name" json:"name"`

	// Command is the interpreter argv. FilePlaceholder marks where the
	// source file path goes.
	Command []string `yaml:"command" json:"command"`

	// Extension is the source file extension, including the dot.
	Extension string `yaml:"extension" json:"extension"`

	// CommentPrefix marks whole-line comments, which code comparison ignores.
	CommentPrefix string `yaml:"comment_prefix" json:"commentPrefix"`

	// Image is the container image used by isolating backends.
	Image string `yaml:"image" json:"image,omitempty"`

	// Env holds extra environment variables for the interpreter.
	Env map[string]string `yaml:"env" json:"env,omitempty"`
}

// Argv returns the interpreter argv for the source file at path.
func (l Language) Argv(path string) []string {
	argv := make([]string, 0, len(l.Command)+1)
	substituted := false
	for _, arg := range l.Command {
		if strings.Contains(arg, FilePlaceholder) {
			arg = strings.ReplaceAll(arg, FilePlaceholder, path)
			substituted = true
		}
		argv = append(argv, arg)
	}
	if !substituted {
		argv = append(argv, path)
	}
	return argv
}

// SourceFile returns the file name the code is written to.
func (l Language) SourceFile() string {
	ext := l.Extension
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return "main" + ext
}

// Limits bounds the resources of a run. Zero values mean "no limit" and
// are only enforced by backends able to do so.
type Limits struct {
	// MaxOutputBytes caps captured stdout and stderr each.
	MaxOutputBytes int64

	// MemoryBytes caps resident memory.
	MemoryBytes int64

	// CPUQuotaMillis caps CPU time per second of wall time, in milliseconds.
	CPUQuotaMillis int64

	// PidsMax caps the number of processes.
	PidsMax int64
}

// ExecuteRequest is one run of one code string.
type ExecuteRequest struct {
	// RunID identifies the run in logs and temporary paths.
	RunID string

	// Code is the source to execute.
	Code string

	// Language describes the interpreter.
	Language Language

	// Profile selects the isolation level.
	Profile SecurityProfile

	// Timeout bounds the run. Zero means no deadline beyond ctx.
	Timeout time.Duration

	// Limits bounds resources.
	Limits Limits
}

// Validate checks that the request can be run.
func (r ExecuteRequest) Validate() error {
	if r.Code == "" {
		return ErrMissingCode
	}
	if len(r.Language.Command) == 0 || r.Language.Command[0] == "" {
		return fmt.Errorf("%w: language %q", ErrMissingCommand, r.Language.Name)
	}
	if r.Profile != "" && !r.Profile.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidProfile, r.Profile)
	}
	return nil
}
