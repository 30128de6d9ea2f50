// Package render turns diff entries and run reports into display lines.
//
// Rendering is pure presentation: [Diff] and [Run] produce a []Line, and a
// sink ([WriteText], [Theme.Render], [WriteJSON]) decides how to show it.
package render

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/compare"
	"github.com/jonwraymond/codecompare/diff"
)

// Style is the presentation class of a line.
type Style int

// Styles.
const (
	Plain Style = iota
	Removal
	Addition
	Info
)

// String returns the lowercase style name.
func (s Style) String() string {
	switch s {
	case Removal:
		return "removal"
	case Addition:
		return "addition"
	case Info:
		return "info"
	default:
		return "plain"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Line is one display line.
type Line struct {
	Style Style `json:"style"`

	// Prefix is the gutter or marker in front of the text.
	Prefix string `json:"prefix,omitempty"`

	// Text is the line content.
	Text string `json:"text"`

	// Spans optionally split Text into highlighted segments.
	Spans []diff.Span `json:"-"`
}

// String returns the line as plain text.
func (l Line) String() string {
	return l.Prefix + l.Text
}

// Separator is the rule drawn between the two run sections.
var Separator = strings.Repeat("-", 40)

// Banners used by Run.
const (
	StandardBanner  = "Standard code output:"
	CandidateBanner = "Candidate code output:"
	ErrorBanner     = "Error:"
	MatchBanner     = "✅ Outputs are identical!"
	MismatchBanner  = "❌ Outputs differ!"
	OutputDiffTitle = "Output diff:"
	TruncatedNotice = "[output truncated]"
)

// Option configures Diff.
type Option func(*options)

type options struct {
	inline bool
}

// WithInline attaches character-level spans to paired removed/added lines.
func WithInline() Option {
	return func(o *options) { o.inline = true }
}

// Diff renders aligned code lines with both line numbers:
//
//	  1|  1| unchanged
//	  2|   | removed
//	   |  2| added
func Diff(entries []diff.Entry, opts ...Option) []Line {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var pairs []int
	if o.inline {
		pairs = diff.Pairs(entries)
	}

	lines := make([]Line, 0, len(entries))
	for i, e := range entries {
		var l Line
		switch e.Kind {
		case diff.Unchanged:
			l = Line{Style: Plain, Prefix: fmt.Sprintf("%3d|%3d| ", e.Left, e.Right), Text: e.Text}
		case diff.RemovedOnly:
			l = Line{Style: Removal, Prefix: fmt.Sprintf("%3d|   | ", e.Left), Text: e.Text}
		case diff.AddedOnly:
			l = Line{Style: Addition, Prefix: fmt.Sprintf("   |%3d| ", e.Right), Text: e.Text}
		}
		if pairs != nil && pairs[i] >= 0 {
			l.Spans = sideSpans(e, entries[pairs[i]])
		}
		lines = append(lines, l)
	}
	return lines
}

// sideSpans keeps the spans of the inline diff that belong to e's side.
func sideSpans(e, other diff.Entry) []diff.Span {
	removed, added := e.Text, other.Text
	drop := diff.SpanInsert
	if e.Kind == diff.AddedOnly {
		removed, added = other.Text, e.Text
		drop = diff.SpanDelete
	}
	all := diff.Inline(removed, added)
	out := make([]diff.Span, 0, len(all))
	for _, s := range all {
		if s.Op != drop {
			out = append(out, s)
		}
	}
	return out
}

// OutputDiff renders a diff of two program outputs with marker prefixes:
// "- " removed, "+ " added, "  " unchanged.
func OutputDiff(entries []diff.Entry) []Line {
	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case diff.RemovedOnly:
			lines = append(lines, Line{Style: Removal, Prefix: "- ", Text: e.Text})
		case diff.AddedOnly:
			lines = append(lines, Line{Style: Addition, Prefix: "+ ", Text: e.Text})
		default:
			lines = append(lines, Line{Style: Plain, Prefix: "  ", Text: e.Text})
		}
	}
	return lines
}

// Run renders both run sections and the comparator's verdict.
func Run(report compare.Report, standard, candidate code.Result) []Line {
	var lines []Line
	info := func(text string) { lines = append(lines, Line{Style: Info, Text: text}) }

	info(StandardBanner)
	lines = append(lines, section(standard)...)
	info("")
	info(Separator)
	info("")

	info(CandidateBanner)
	lines = append(lines, section(candidate)...)

	if report.Failed() {
		return lines
	}

	info("")
	info(Separator)
	info("")
	if report.Matched() {
		info(MatchBanner)
		return lines
	}
	lines = append(lines, Line{Style: Removal, Text: MismatchBanner})
	info("")
	info(OutputDiffTitle)
	return append(lines, OutputDiff(report.Diff)...)
}

// section renders one run: its output as additions, or its trace as
// removals under an error banner.
func section(r code.Result) []Line {
	var lines []Line
	if r.OK() {
		for _, s := range diff.SplitLines(r.Output) {
			lines = append(lines, Line{Style: Addition, Text: s})
		}
	} else {
		lines = append(lines, Line{Style: Removal, Text: ErrorBanner})
		for _, s := range diff.SplitLines(r.Trace) {
			lines = append(lines, Line{Style: Removal, Text: s})
		}
	}
	if r.Truncated {
		lines = append(lines, Line{Style: Info, Text: TruncatedNotice})
	}
	return lines
}
