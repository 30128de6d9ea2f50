package code

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel errors for error classification.
var (
	// ErrCodeExecution indicates that the executed code failed, such as a
	// syntax error, an uncaught exception or a non-zero exit.
	ErrCodeExecution = errors.New("code execution error")

	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrLimitExceeded indicates that an execution limit was reached,
	// such as the run timeout.
	ErrLimitExceeded = errors.New("limit exceeded")
)

// CodeError represents a failure of the executed code.
// It includes optional source location information parsed from the trace.
type CodeError struct {
	// Message is the last line of the trace, usually the exception.
	Message string

	// Line is the 1-based line number where the error occurred.
	// Zero indicates the line is unknown.
	Line int

	// Column is the 1-based column number where the error occurred.
	// Zero indicates the column is unknown.
	Column int

	// Err is the underlying error, if any.
	Err error
}

// Error returns the error message, including line and column if available.
func (e *CodeError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s (line %d, col %d)", e.Message, e.Line, e.Column)
	case e.Line > 0:
		return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
	default:
		return e.Message
	}
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *CodeError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// CodeError matches ErrCodeExecution to allow sentinel-style error checking.
func (e *CodeError) Is(target error) bool {
	return target == ErrCodeExecution
}

// locationPatterns match the source location a trace points at, for the
// default languages. The last match in a trace is the innermost frame.
var locationPatterns = []*regexp.Regexp{
	// Python: File "/tmp/.../main.py", line 3, in <module>
	regexp.MustCompile(`File "[^"]*main\.py", line (\d+)`),
	// Go compiler and panics: ./main.go:3:5: or /tmp/.../main.go:3 +0x1d
	regexp.MustCompile(`main\.go:(\d+)(?::(\d+))?`),
	// Node: /tmp/.../main.js:3 or at Object.<anonymous> (/tmp/.../main.js:3:9)
	regexp.MustCompile(`main\.js:(\d+)(?::(\d+))?`),
}

// ParseTrace extracts a CodeError from an interpreter trace. It returns nil
// for an empty trace.
func ParseTrace(trace string) *CodeError {
	trace = strings.TrimRight(trace, "\n")
	if strings.TrimSpace(trace) == "" {
		return nil
	}

	lines := strings.Split(trace, "\n")
	msg := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			msg = s
			break
		}
	}

	ce := &CodeError{Message: msg}
	for _, re := range locationPatterns {
		matches := re.FindAllStringSubmatch(trace, -1)
		if len(matches) == 0 {
			continue
		}
		m := matches[len(matches)-1]
		ce.Line, _ = strconv.Atoi(m[1])
		if len(m) > 2 && m[2] != "" {
			ce.Column, _ = strconv.Atoi(m[2])
		}
		break
	}
	return ce
}
