package main

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Exit codes.
const (
	exitOK        = 0
	exitDifferent = 1
	exitUsage     = 2
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// usageError marks err as a usage or configuration problem.
func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

// errDiffer reports a completed comparison that found a difference. It prints
// nothing.
var errDiffer = &exitError{code: exitDifferent}

// execute runs the command line and maps the outcome to an exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, "Error:", ee.err)
		}
		return ee.code
	}
	// Cobra reports flag and argument errors without marking them.
	fmt.Fprintln(stderr, "Error:", err)
	if isUsage(err) {
		return exitUsage
	}
	return exitDifferent
}
