package unsafe

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/codecompare/runtime"
)

// mockLogger captures log messages for testing
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *mockLogger) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *mockLogger) Info(msg string, _ ...any)  { l.add("INFO: " + msg) }
func (l *mockLogger) Warn(msg string, _ ...any)  { l.add("WARN: " + msg) }
func (l *mockLogger) Error(msg string, _ ...any) { l.add("ERROR: " + msg) }

func (l *mockLogger) hasWarning(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if strings.Contains(m, "WARN") && strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

var shell = runtime.Language{Name: "sh", Command: []string{"sh"}, Extension: ".sh"}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

// TestBackendImplementsInterface verifies Backend satisfies runtime.Backend
func TestBackendImplementsInterface(t *testing.T) {
	t.Helper()
	var _ runtime.Backend = (*Backend)(nil)
}

func TestBackendKind(t *testing.T) {
	b := New(Config{})
	if b.Kind() != runtime.BackendUnsafeHost {
		t.Errorf("Kind() = %v, want %v", b.Kind(), runtime.BackendUnsafeHost)
	}
}

func TestBackendDefaults(t *testing.T) {
	b := New(Config{})
	if b.waitDelay != DefaultWaitDelay {
		t.Errorf("waitDelay = %v, want %v", b.waitDelay, DefaultWaitDelay)
	}
}

func TestBackendDeniesIsolatedProfiles(t *testing.T) {
	b := New(Config{})
	for _, p := range []runtime.SecurityProfile{runtime.ProfileStandard, runtime.ProfileHardened} {
		_, err := b.Execute(context.Background(), runtime.ExecuteRequest{Code: "echo hi", Language: shell, Profile: p})
		if !errors.Is(err, runtime.ErrBackendDenied) {
			t.Errorf("profile %s: error = %v, want %v", p, err, runtime.ErrBackendDenied)
		}
	}
}

func TestBackendLogsWarning(t *testing.T) {
	requireShell(t)
	logger := &mockLogger{}
	b := New(Config{Logger: logger})

	_, _ = b.Execute(context.Background(), runtime.ExecuteRequest{Code: "true", Language: shell})

	if !logger.hasWarning("UNSAFE") {
		t.Error("Execute() should log UNSAFE warning")
	}
}

func TestBackendMissingInterpreter(t *testing.T) {
	b := New(Config{})
	lang := runtime.Language{Name: "ghost", Command: []string{"definitely-not-an-interpreter-7f3a"}, Extension: ".x"}

	_, err := b.Execute(context.Background(), runtime.ExecuteRequest{Code: "anything", Language: lang})
	if !errors.Is(err, runtime.ErrStartFailed) {
		t.Errorf("Execute() error = %v, want %v", err, runtime.ErrStartFailed)
	}
}

func TestBackendRunsInFreshWorkspace(t *testing.T) {
	requireShell(t)
	root := t.TempDir()
	b := New(Config{TempDir: root})

	res, err := b.Execute(context.Background(), runtime.ExecuteRequest{
		RunID:    "ws",
		Code:     "pwd\necho leftover > side_effect.txt",
		Language: shell,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	dir := strings.TrimSpace(res.Stdout)
	if !strings.HasPrefix(filepath.Base(dir), "codecompare-ws-") {
		t.Errorf("working dir = %q, want a codecompare-ws- workspace", dir)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("workspace not cleaned up: %v", entries)
	}
}

func TestBackendCapsOutput(t *testing.T) {
	requireShell(t)
	b := New(Config{})

	res, err := b.Execute(context.Background(), runtime.ExecuteRequest{
		Code:     "i=0\nwhile [ $i -lt 100 ]; do echo 0123456789; i=$((i+1)); done",
		Language: shell,
		Limits:   runtime.Limits{MaxOutputBytes: 64},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(res.Stdout) != 64 {
		t.Errorf("len(Stdout) = %d, want 64", len(res.Stdout))
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
}

func TestBackendRespectsTimeout(t *testing.T) {
	requireShell(t)
	b := New(Config{})

	start := time.Now()
	res, err := b.Execute(context.Background(), runtime.ExecuteRequest{
		Code:     "while :; do :; done",
		Language: shell,
		Timeout:  100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if !errors.Is(err, runtime.ErrTimeout) {
		t.Errorf("Execute() error = %v, want %v", err, runtime.ErrTimeout)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Execute() took %v, should time out faster", elapsed)
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1 for a killed process", res.ExitCode)
	}
}

func TestBackendReturnsBackendInfo(t *testing.T) {
	requireShell(t)
	b := New(Config{})

	res, err := b.Execute(context.Background(), runtime.ExecuteRequest{Code: "echo hi", Language: shell})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Backend.Kind != runtime.BackendUnsafeHost {
		t.Errorf("Backend.Kind = %v, want %v", res.Backend.Kind, runtime.BackendUnsafeHost)
	}
}

func TestBackendPassesLanguageEnv(t *testing.T) {
	requireShell(t)
	b := New(Config{})
	lang := shell
	lang.Env = map[string]string{"GREETING": "bonjour"}

	res, err := b.Execute(context.Background(), runtime.ExecuteRequest{Code: `echo "$GREETING"`, Language: lang})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Stdout != "bonjour\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "bonjour\n")
	}
}

func TestBackendContractCompliance(t *testing.T) {
	runtime.RunBackendContractTests(t, runtime.BackendContract{
		NewBackend: func() runtime.Backend {
			return New(Config{})
		},
		ExpectedKind: runtime.BackendUnsafeHost,
	})
}
