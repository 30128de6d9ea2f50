// Package shared provides common utilities for backend implementations.
package shared

import (
	"bytes"
	"strings"
	"sync"
)

// DefaultMaxOutputBytes caps captured output when a request sets no limit.
const DefaultMaxOutputBytes = 1 << 20

// OutputBuffer is an io.Writer that keeps at most max bytes and records
// whether anything was discarded. Writes never fail, so a chatty process is
// not killed by a broken pipe once the cap is reached.
type OutputBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	max       int64
	truncated bool
}

// NewOutputBuffer returns a buffer capped at max bytes. A max of zero or
// less selects DefaultMaxOutputBytes.
func NewOutputBuffer(max int64) *OutputBuffer {
	if max <= 0 {
		max = DefaultMaxOutputBytes
	}
	return &OutputBuffer{max: max}
}

// Write implements io.Writer.
func (b *OutputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.max - int64(b.buf.Len())
	switch {
	case room <= 0:
		b.truncated = b.truncated || len(p) > 0
	case int64(len(p)) > room:
		b.buf.Write(p[:room])
		b.truncated = true
	default:
		b.buf.Write(p)
	}
	return len(p), nil
}

// String returns the captured output with line endings normalized.
func (b *OutputBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return NormalizeNewlines(b.buf.String())
}

// Truncated reports whether output beyond the cap was discarded.
func (b *OutputBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}

// NormalizeNewlines converts "\r\n" line endings to "\n" so that output from
// interpreters on different platforms compares equal.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r\n") {
		return s
	}
	return strings.ReplaceAll(s, "\r\n", "\n")
}
