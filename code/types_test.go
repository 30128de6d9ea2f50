package code

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestResult_Constructors(t *testing.T) {
	ok := Success("x\n")
	if !ok.OK() || ok.Text() != "x\n" {
		t.Errorf("Success() = %+v", ok)
	}

	failed := Failure("ZeroDivisionError: division by zero", ErrCodeExecution)
	if failed.OK() {
		t.Error("Failure().OK() = true")
	}
	if failed.Text() != "ZeroDivisionError: division by zero" {
		t.Errorf("Failure().Text() = %q", failed.Text())
	}
	if failed.ExitCode != -1 {
		t.Errorf("Failure().ExitCode = %d, want -1", failed.ExitCode)
	}
}

func TestResult_JSONOmitsErr(t *testing.T) {
	data, err := json.Marshal(Failure("boom", ErrCodeExecution))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"status":"failure"`) || !strings.Contains(s, `"trace":"boom"`) {
		t.Errorf("unexpected JSON %s", s)
	}
	if strings.Contains(s, "code execution error") {
		t.Errorf("Err leaked into JSON: %s", s)
	}
}
