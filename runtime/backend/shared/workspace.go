package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonwraymond/codecompare/runtime"
)

// Workspace is a fresh temporary directory holding the source file of one run.
type Workspace struct {
	// Dir is the working directory of the run.
	Dir string

	// File is the absolute path of the source file.
	File string
}

// NewWorkspace creates a temporary directory under root (os.TempDir when
// empty) and writes req.Code into it using the language's file name.
func NewWorkspace(root string, req runtime.ExecuteRequest) (*Workspace, error) {
	pattern := "codecompare-"
	if req.RunID != "" {
		pattern += req.RunID + "-"
	}
	dir, err := os.MkdirTemp(root, pattern)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	file := filepath.Join(dir, req.Language.SourceFile())
	if err := os.WriteFile(file, []byte(req.Code), 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("write source: %w", err)
	}
	return &Workspace{Dir: dir, File: file}, nil
}

// Share opens the workspace to other users: the directory becomes 0755 and
// the source file 0644. Container backends call it when the process runs as
// a different uid than the one that created the workspace.
func (w *Workspace) Share() error {
	if err := os.Chmod(w.Dir, 0o755); err != nil {
		return fmt.Errorf("share workspace: %w", err)
	}
	if err := os.Chmod(w.File, 0o644); err != nil {
		return fmt.Errorf("share source: %w", err)
	}
	return nil
}

// Close removes the workspace and everything the run left in it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.Dir)
}
