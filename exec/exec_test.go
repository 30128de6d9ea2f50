package exec

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/compare"
	"github.com/jonwraymond/codecompare/diff"
	"github.com/jonwraymond/codecompare/runtime"
	"github.com/jonwraymond/codecompare/source"
)

// scriptBackend answers requests from a table keyed by code.
type scriptBackend struct {
	mu      sync.Mutex
	outputs map[string]runtime.ExecuteResult
	seen    []runtime.ExecuteRequest
}

func (b *scriptBackend) Kind() runtime.BackendKind { return runtime.BackendUnsafeHost }

func (b *scriptBackend) Execute(_ context.Context, req runtime.ExecuteRequest) (runtime.ExecuteResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = append(b.seen, req)
	if res, ok := b.outputs[req.Code]; ok {
		return res, nil
	}
	return runtime.ExecuteResult{}, nil
}

func newTestExec(t *testing.T, outputs map[string]runtime.ExecuteResult) (*Exec, *scriptBackend) {
	t.Helper()
	b := &scriptBackend{outputs: outputs}
	x, err := New(Options{
		Backends: map[runtime.SecurityProfile]runtime.Backend{runtime.ProfileDev: b},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return x, b
}

func buffers(standard, candidate string) (*source.Buffer, *source.Buffer) {
	s, c := source.NewBuffer("standard"), source.NewBuffer("candidate")
	s.SetText(standard)
	c.SetText(candidate)
	return s, c
}

func TestNew_Defaults(t *testing.T) {
	x, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if x.Profile() != runtime.ProfileDev {
		t.Errorf("Profile() = %v, want dev", x.Profile())
	}
	if got := strings.Join(x.Languages(), ","); got != "go,node,python" {
		t.Errorf("Languages() = %q", got)
	}
}

func TestNew_InvalidProfile(t *testing.T) {
	_, err := New(Options{SecurityProfile: "paranoid"})
	if !errors.Is(err, runtime.ErrInvalidProfile) {
		t.Errorf("New() error = %v, want ErrInvalidProfile", err)
	}
}

func TestNew_MissingBackendForProfile(t *testing.T) {
	_, err := New(Options{
		SecurityProfile: runtime.ProfileHardened,
		Backends:        map[runtime.SecurityProfile]runtime.Backend{runtime.ProfileDev: &scriptBackend{}},
	})
	if !errors.Is(err, code.ErrConfiguration) {
		t.Errorf("New() error = %v, want ErrConfiguration", err)
	}
}

func TestNew_UnknownDefaultLanguage(t *testing.T) {
	_, err := New(Options{DefaultLanguage: "cobol"})
	if !errors.Is(err, code.ErrConfiguration) {
		t.Errorf("New() error = %v, want ErrConfiguration", err)
	}
}

func TestCompare_IgnoresComments(t *testing.T) {
	x, _ := newTestExec(t, nil)
	std, cand := buffers("# reference\nprint(1)\nprint(2)\n", "print(1)\n  # note\nprint(3)\n")

	entries := x.Compare(std, cand)

	want := []diff.Entry{
		{Kind: diff.Unchanged, Left: 1, Right: 1, Text: "print(1)"},
		{Kind: diff.RemovedOnly, Left: 2, Text: "print(2)"},
		{Kind: diff.AddedOnly, Right: 2, Text: "print(3)"},
	}
	if len(entries) != len(want) {
		t.Fatalf("Compare() = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestCompareAs_UsesLanguageCommentPrefix(t *testing.T) {
	x, _ := newTestExec(t, nil)
	std, cand := buffers("// header\nfmt.Println(1)", "fmt.Println(1)")

	entries, err := x.CompareAs(std, cand, "go")
	if err != nil {
		t.Fatalf("CompareAs() error = %v", err)
	}
	if diff.Changed(entries) {
		t.Errorf("CompareAs() = %v, want no changes", entries)
	}

	if _, err := x.CompareAs(std, cand, "cobol"); !errors.Is(err, code.ErrConfiguration) {
		t.Errorf("CompareAs(cobol) error = %v, want ErrConfiguration", err)
	}
}

func TestCompare_EmptyBuffers(t *testing.T) {
	x, _ := newTestExec(t, nil)
	std, cand := buffers("", "")

	if entries := x.Compare(std, cand); len(entries) != 0 {
		t.Errorf("Compare() = %v, want empty", entries)
	}
}

func TestRun_Mismatch(t *testing.T) {
	x, b := newTestExec(t, map[string]runtime.ExecuteResult{
		"print(1)\nprint(2)": {Stdout: "1\n2\n"},
		"print(1)\nprint(3)": {Stdout: "1\n3\n"},
	})
	std, cand := buffers("print(1)\nprint(2)", "print(1)\nprint(3)")

	rep := x.Run(context.Background(), std, cand)

	if rep.Report.Verdict != compare.VerdictMismatch {
		t.Fatalf("Verdict = %v, want mismatch", rep.Report.Verdict)
	}
	if rep.Language != "python" {
		t.Errorf("Language = %q, want python", rep.Language)
	}
	if got := diff.Standard(rep.Report.Diff); strings.Join(got, ",") != "1,2" {
		t.Errorf("standard projection = %v", got)
	}
	if len(b.seen) != 2 || b.seen[0].Code != std.Text() {
		t.Errorf("runs = %+v, want standard first", b.seen)
	}
	if b.seen[0].RunID == b.seen[1].RunID {
		t.Error("each run should get its own run ID")
	}
}

func TestRun_Match(t *testing.T) {
	x, _ := newTestExec(t, map[string]runtime.ExecuteResult{
		"print('x')":   {Stdout: "x\n"},
		"print(\"x\")": {Stdout: "x\n"},
	})
	std, cand := buffers("print('x')", "print(\"x\")")

	if rep := x.Run(context.Background(), std, cand); !rep.OK() {
		t.Errorf("Run() = %+v, want match", rep.Report)
	}
}

func TestRun_CandidateFails(t *testing.T) {
	x, _ := newTestExec(t, map[string]runtime.ExecuteResult{
		"print(1)": {Stdout: "1\n"},
		"1/0":      {ExitCode: 1, Stderr: "ZeroDivisionError: division by zero\n"},
	})
	std, cand := buffers("print(1)", "1/0")

	rep := x.Run(context.Background(), std, cand)
	if rep.Report.Verdict != compare.VerdictCandidateFailed {
		t.Fatalf("Verdict = %v, want candidate_failed", rep.Report.Verdict)
	}
	if !strings.Contains(rep.Report.CandidateTrace, "division by zero") {
		t.Errorf("CandidateTrace = %q", rep.Report.CandidateTrace)
	}
}

func TestRunAs_UnknownLanguageFailsBothSides(t *testing.T) {
	x, b := newTestExec(t, nil)
	std, cand := buffers("a", "b")

	rep := x.RunAs(context.Background(), std, cand, "cobol")
	if rep.Report.Verdict != compare.VerdictBothFailed {
		t.Errorf("Verdict = %v, want both_failed", rep.Report.Verdict)
	}
	if len(b.seen) != 0 {
		t.Errorf("backend ran %d times, want 0", len(b.seen))
	}
}

func TestExecute(t *testing.T) {
	x, _ := newTestExec(t, map[string]runtime.ExecuteResult{"print('x')": {Stdout: "x\n"}})

	res := x.Execute(context.Background(), "print('x')")
	if !res.OK() || res.Output != "x\n" {
		t.Errorf("Execute() = %+v", res)
	}

	empty := x.Execute(context.Background(), "")
	if !empty.OK() || empty.Output != "" {
		t.Errorf("Execute(\"\") = %+v", empty)
	}
}
