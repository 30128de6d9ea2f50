// Package source holds the text owned by an editor pane.
//
// A [Buffer] is the only mutable state of a comparison session. Each pane
// owns exactly one buffer; comparison and execution read buffers but never
// write them.
package source

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/codecompare/diff"
)

// Buffer is the text of one editor pane.
//
// Contract:
// - Concurrency: not safe for concurrent mutation; a buffer belongs to one pane.
// - Ownership: Lines returns a fresh slice the caller may keep.
type Buffer struct {
	name string
	text string
	path string
}

// NewBuffer returns an empty buffer labelled name.
func NewBuffer(name string) *Buffer {
	return &Buffer{name: name}
}

// Name returns the buffer label ("standard", "candidate").
func (b *Buffer) Name() string {
	return b.name
}

// Text returns the full content.
func (b *Buffer) Text() string {
	return b.text
}

// SetText replaces the content. The load path is kept, since editing a
// loaded file does not detach it from its origin.
func (b *Buffer) SetText(text string) {
	b.text = text
}

// Path returns the file the content was last loaded from, if any.
func (b *Buffer) Path() string {
	return b.path
}

// Clear empties the buffer and forgets its load path.
func (b *Buffer) Clear() {
	b.text = ""
	b.path = ""
}

// Lines splits the content into lines.
func (b *Buffer) Lines() []string {
	return diff.SplitLines(b.text)
}

// LineCount returns the number of lines shown in the pane gutter. An empty
// buffer and a buffer ending with a newline still count the line the cursor
// can sit on.
func (b *Buffer) LineCount() int {
	return strings.Count(b.text, "\n") + 1
}

// LoadOption configures LoadWith.
type LoadOption func(*loadOptions)

type loadOptions struct {
	maxLines int
}

// WithMaxLines refuses files with more than n lines (as counted by
// LineCount). Zero or less means no limit.
func WithMaxLines(n int) LoadOption {
	return func(o *loadOptions) {
		o.maxLines = n
	}
}

// Load reads path into the buffer using the default encoding. See LoadWith.
func (b *Buffer) Load(path string) error {
	return b.LoadWith(path, EncodingUTF8)
}

// LoadWith reads and decodes the whole file at path and replaces the buffer
// content with it. On any failure the buffer is left untouched and a
// *LoadError is returned.
func (b *Buffer) LoadWith(path string, enc Encoding, opts ...LoadOption) error {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	text, err := ReadFile(path, enc)
	if err != nil {
		return err
	}
	if n := strings.Count(text, "\n") + 1; o.maxLines > 0 && n > o.maxLines {
		return &LoadError{Path: path, Op: "lines", Err: fmt.Errorf("%w: %d lines, limit %d", ErrTooManyLines, n, o.maxLines)}
	}
	b.text = text
	b.path = path
	return nil
}
