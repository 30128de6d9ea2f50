package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonwraymond/codecompare/runtime"
)

func TestOutputBuffer_UnderLimit(t *testing.T) {
	b := NewOutputBuffer(16)
	n, err := b.Write([]byte("hello\n"))
	if err != nil || n != 6 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if b.String() != "hello\n" {
		t.Errorf("String() = %q", b.String())
	}
	if b.Truncated() {
		t.Error("Truncated() = true, want false")
	}
}

func TestOutputBuffer_Truncates(t *testing.T) {
	tests := []struct {
		name   string
		writes []string
		want   string
	}{
		{"single oversized write", []string{"0123456789"}, "01234"},
		{"write crossing the cap", []string{"012", "3456"}, "01234"},
		{"writes after the cap", []string{"01234", "5", "6"}, "01234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewOutputBuffer(5)
			for _, w := range tt.writes {
				n, err := b.Write([]byte(w))
				if err != nil || n != len(w) {
					t.Fatalf("Write(%q) = %d, %v; writes must always report full length", w, n, err)
				}
			}
			if b.String() != tt.want {
				t.Errorf("String() = %q, want %q", b.String(), tt.want)
			}
			if !b.Truncated() {
				t.Error("Truncated() = false, want true")
			}
		})
	}
}

func TestOutputBuffer_ExactLimitNotTruncated(t *testing.T) {
	b := NewOutputBuffer(3)
	_, _ = b.Write([]byte("abc"))
	if b.Truncated() {
		t.Error("Truncated() = true for output exactly at the cap")
	}
}

func TestOutputBuffer_DefaultLimit(t *testing.T) {
	b := NewOutputBuffer(0)
	if b.max != DefaultMaxOutputBytes {
		t.Errorf("max = %d, want %d", b.max, DefaultMaxOutputBytes)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"a\nb\n":       "a\nb\n",
		"a\r\nb\r\n":   "a\nb\n",
		"mixed\r\nx\n": "mixed\nx\n",
	}
	for in, want := range tests {
		if got := NormalizeNewlines(in); got != want {
			t.Errorf("NormalizeNewlines(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWorkspace(t *testing.T) {
	root := t.TempDir()
	req := runtime.ExecuteRequest{
		RunID:    "abc",
		Code:     "print(1)\n",
		Language: runtime.Language{Name: "python", Command: []string{"python3"}, Extension: ".py"},
	}

	ws, err := NewWorkspace(root, req)
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	if !strings.HasPrefix(filepath.Base(ws.Dir), "codecompare-abc-") {
		t.Errorf("Dir = %q, want codecompare-abc- prefix", ws.Dir)
	}
	if filepath.Base(ws.File) != "main.py" {
		t.Errorf("File = %q, want main.py", ws.File)
	}
	data, err := os.ReadFile(ws.File)
	if err != nil || string(data) != "print(1)\n" {
		t.Fatalf("source file = %q, %v", data, err)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Errorf("workspace not removed: %v", err)
	}
}

func TestWorkspace_Share(t *testing.T) {
	req := runtime.ExecuteRequest{RunID: "r1", Code: "print(1)", Language: runtime.Language{Name: "python", Extension: ".py"}}
	ws, err := NewWorkspace(t.TempDir(), req)
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	defer ws.Close()

	info, err := os.Stat(ws.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o700 {
		t.Errorf("new workspace mode = %v, want %v", got, os.FileMode(0o700))
	}

	if err := ws.Share(); err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	for path, want := range map[string]os.FileMode{ws.Dir: 0o755, ws.File: 0o644} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := info.Mode().Perm(); got != want {
			t.Errorf("%s mode = %v, want %v", filepath.Base(path), got, want)
		}
	}
}
