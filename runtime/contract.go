package runtime

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

// BackendContract configures RunBackendContractTests.
type BackendContract struct {
	// NewBackend creates the backend under test.
	NewBackend func() Backend

	// ExpectedKind is the kind the backend must report.
	ExpectedKind BackendKind

	// Profile is the profile used for execution requests.
	// Default: ProfileDev
	Profile SecurityProfile

	// SkipExecutionTests skips tests that start a real process, for
	// backends whose engine may be absent from the test machine.
	SkipExecutionTests bool
}

// shellLanguage runs POSIX shell snippets; the contract uses it because sh
// is the interpreter most likely to exist wherever the tests run.
var shellLanguage = Language{Name: "sh", Command: []string{"sh", FilePlaceholder}, Extension: ".sh", CommentPrefix: "#"}

// RunBackendContractTests checks the behavior every Backend must share.
func RunBackendContractTests(t *testing.T, c BackendContract) {
	t.Helper()
	profile := c.Profile
	if profile == "" {
		profile = ProfileDev
	}

	t.Run("Kind", func(t *testing.T) {
		if got := c.NewBackend().Kind(); got != c.ExpectedKind {
			t.Errorf("Kind() = %v, want %v", got, c.ExpectedKind)
		}
	})

	t.Run("RejectsMissingCode", func(t *testing.T) {
		_, err := c.NewBackend().Execute(context.Background(), ExecuteRequest{Language: shellLanguage, Profile: profile})
		if !errors.Is(err, ErrMissingCode) {
			t.Errorf("Execute() error = %v, want %v", err, ErrMissingCode)
		}
	})

	t.Run("RejectsMissingCommand", func(t *testing.T) {
		_, err := c.NewBackend().Execute(context.Background(), ExecuteRequest{Code: "echo hi", Profile: profile})
		if !errors.Is(err, ErrMissingCommand) {
			t.Errorf("Execute() error = %v, want %v", err, ErrMissingCommand)
		}
	})

	if c.SkipExecutionTests {
		return
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Log("sh not found; skipping execution contract tests")
		return
	}

	t.Run("CapturesStdout", func(t *testing.T) {
		res, err := c.NewBackend().Execute(context.Background(), ExecuteRequest{
			Code:     "echo hello\necho world",
			Language: shellLanguage,
			Profile:  profile,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if res.Stdout != "hello\nworld\n" {
			t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\nworld\n")
		}
		if !res.Succeeded() {
			t.Errorf("ExitCode = %d, want 0", res.ExitCode)
		}
	})

	t.Run("ReportsExitCode", func(t *testing.T) {
		res, err := c.NewBackend().Execute(context.Background(), ExecuteRequest{
			Code:     "echo broken >&2\nexit 3",
			Language: shellLanguage,
			Profile:  profile,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if res.ExitCode != 3 {
			t.Errorf("ExitCode = %d, want 3", res.ExitCode)
		}
		if res.Stderr != "broken\n" {
			t.Errorf("Stderr = %q, want %q", res.Stderr, "broken\n")
		}
	})

	t.Run("EnforcesTimeout", func(t *testing.T) {
		start := time.Now()
		_, err := c.NewBackend().Execute(context.Background(), ExecuteRequest{
			Code:     "sleep 5",
			Language: shellLanguage,
			Profile:  profile,
			Timeout:  200 * time.Millisecond,
		})
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("Execute() error = %v, want %v", err, ErrTimeout)
		}
		if elapsed := time.Since(start); elapsed > 4*time.Second {
			t.Errorf("Execute() took %v, timeout not enforced", elapsed)
		}
	})

	t.Run("HonorsCanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.NewBackend().Execute(ctx, ExecuteRequest{
			Code:     "echo never",
			Language: shellLanguage,
			Profile:  profile,
		})
		if err == nil {
			t.Error("Execute() with canceled context should fail")
		}
	})
}
