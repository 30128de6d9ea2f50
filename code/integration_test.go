package code_test

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/runtime"
	"github.com/jonwraymond/codecompare/runtime/backend/unsafe"
)

func newHostExecutor(t *testing.T, timeout time.Duration) *code.DefaultExecutor {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	rt := runtime.NewDefaultRuntime(runtime.RuntimeConfig{
		Backends: map[runtime.SecurityProfile]runtime.Backend{
			runtime.ProfileDev: unsafe.New(unsafe.Config{}),
		},
		DefaultProfile: runtime.ProfileDev,
	})
	e, err := code.NewDefaultExecutor(code.Config{Engine: rt, DefaultTimeout: timeout, Profile: runtime.ProfileDev})
	if err != nil {
		t.Fatalf("NewDefaultExecutor() error = %v", err)
	}
	return e
}

func TestIntegration_PrintSucceeds(t *testing.T) {
	e := newHostExecutor(t, 10*time.Second)

	res := e.Execute(context.Background(), "print('x')")
	if !res.OK() || res.Output != "x\n" {
		t.Errorf("Execute(print('x')) = %+v, want Success(\"x\\n\")", res)
	}
}

func TestIntegration_DivisionByZeroFails(t *testing.T) {
	e := newHostExecutor(t, 10*time.Second)

	res := e.Execute(context.Background(), "1/0")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Trace, "division by zero") {
		t.Errorf("Trace = %q, want division by zero", res.Trace)
	}
	var ce *code.CodeError
	if !errors.As(res.Err, &ce) || ce.Line != 1 {
		t.Errorf("Err = %v, want CodeError at line 1", res.Err)
	}
}

func TestIntegration_RunsDoNotShareState(t *testing.T) {
	e := newHostExecutor(t, 10*time.Second)

	first := e.Execute(context.Background(), "x = 41\nopen('state.txt', 'w').write('x')\nprint(x + 1)")
	if !first.OK() || first.Output != "42\n" {
		t.Fatalf("first run = %+v", first)
	}

	second := e.Execute(context.Background(), "import os\nprint('x' in globals(), os.path.exists('state.txt'))")
	if !second.OK() || second.Output != "False False\n" {
		t.Errorf("second run = %+v, want a fresh namespace and directory", second)
	}
}

func TestIntegration_TimeoutIsLimitExceeded(t *testing.T) {
	e := newHostExecutor(t, 300*time.Millisecond)

	start := time.Now()
	res := e.Execute(context.Background(), "while True:\n    pass")
	if !errors.Is(res.Err, code.ErrLimitExceeded) {
		t.Errorf("Err = %v, want ErrLimitExceeded", res.Err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestIntegration_MissingInterpreterFails(t *testing.T) {
	rt := runtime.NewDefaultRuntime(runtime.RuntimeConfig{
		Backends:       map[runtime.SecurityProfile]runtime.Backend{runtime.ProfileDev: unsafe.New(unsafe.Config{})},
		DefaultProfile: runtime.ProfileDev,
	})
	e, err := code.NewDefaultExecutor(code.Config{
		Engine: rt,
		Languages: map[string]runtime.Language{
			"ghost": {Command: []string{"codecompare-no-such-interpreter"}, Extension: ".txt"},
		},
	})
	if err != nil {
		t.Fatalf("NewDefaultExecutor() error = %v", err)
	}

	res := e.Execute(context.Background(), "anything")
	if res.OK() {
		t.Fatal("expected failure for a missing interpreter")
	}
	if !errors.Is(res.Err, runtime.ErrStartFailed) {
		t.Errorf("Err = %v, want ErrStartFailed", res.Err)
	}
}
