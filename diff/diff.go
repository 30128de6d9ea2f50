package diff

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Kind classifies a line after alignment.
type Kind int

const (
	// Unchanged lines appear on both sides.
	Unchanged Kind = iota
	// RemovedOnly lines appear only in the standard sequence.
	RemovedOnly
	// AddedOnly lines appear only in the candidate sequence.
	AddedOnly
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case RemovedOnly:
		return "removed"
	case AddedOnly:
		return "added"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so entries serialize with
// readable kinds.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unchanged":
		*k = Unchanged
	case "removed":
		*k = RemovedOnly
	case "added":
		*k = AddedOnly
	default:
		return fmt.Errorf("unknown diff kind %q", text)
	}
	return nil
}

// Entry is one aligned line.
type Entry struct {
	// Kind is the classification of the line.
	Kind Kind `json:"kind"`

	// Left is the 1-based line number in the standard sequence.
	// Zero when Kind is AddedOnly.
	Left int `json:"left,omitempty"`

	// Right is the 1-based line number in the candidate sequence.
	// Zero when Kind is RemovedOnly.
	Right int `json:"right,omitempty"`

	// Text is the line content without its terminator.
	Text string `json:"text"`
}

// Option configures a call to Lines.
type Option func(*options)

type options struct {
	commentPrefix string
}

// WithCommentPrefix filters lines starting with prefix (after leading
// whitespace) out of both sequences before alignment. An empty prefix
// disables filtering.
func WithCommentPrefix(prefix string) Option {
	return func(o *options) {
		o.commentPrefix = prefix
	}
}

// Lines aligns standard against candidate and returns one entry per line of
// the (filtered) inputs, in display order. Empty inputs yield an empty slice.
func Lines(standard, candidate []string, opts ...Option) []Entry {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.commentPrefix != "" {
		standard = FilterComments(standard, o.commentPrefix)
		candidate = FilterComments(candidate, o.commentPrefix)
	}
	if len(standard) == 0 && len(candidate) == 0 {
		return []Entry{}
	}

	al := aligner{a: standard, b: candidate, entries: make([]Entry, 0, max(len(standard), len(candidate)))}
	matcher := difflib.NewMatcher(standard, candidate)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for i, j := op.I1, op.J1; i < op.I2; i, j = i+1, j+1 {
				al.unchanged(i, j)
			}
		case 'd':
			al.removed(op.I1, op.I2)
		case 'i':
			al.added(op.J1, op.J2)
		case 'r':
			al.replace(op.I1, op.I2, op.J1, op.J2)
		}
	}
	return al.entries
}

// Similarity thresholds for pairing lines inside a replaced block. A pair
// must score above pairFloor and at least pairCutoff.
const (
	pairFloor  = 0.74
	pairCutoff = 0.75
)

type aligner struct {
	a, b    []string
	entries []Entry
}

func (al *aligner) unchanged(i, j int) {
	al.entries = append(al.entries, Entry{Kind: Unchanged, Left: i + 1, Right: j + 1, Text: al.a[i]})
}

func (al *aligner) removed(from, to int) {
	for i := from; i < to; i++ {
		al.entries = append(al.entries, Entry{Kind: RemovedOnly, Left: i + 1, Text: al.a[i]})
	}
}

func (al *aligner) added(from, to int) {
	for j := from; j < to; j++ {
		al.entries = append(al.entries, Entry{Kind: AddedOnly, Right: j + 1, Text: al.b[j]})
	}
}

// replace aligns a[alo:ahi] against b[blo:bhi]. The most similar pair of
// lines is emitted as an adjacent removed/added couple and the lines on
// either side of it are aligned recursively. When no pair is similar enough
// an identical line is used as the anchor instead, and failing that the
// shorter side is emitted first.
func (al *aligner) replace(alo, ahi, blo, bhi int) {
	best := pairFloor
	bestI, bestJ := -1, -1
	eqI, eqJ := -1, -1

	left := make([][]string, ahi-alo)
	for i := alo; i < ahi; i++ {
		left[i-alo] = runes(al.a[i])
	}
	cruncher := difflib.NewMatcher(nil, nil)
	for j := blo; j < bhi; j++ {
		cruncher.SetSeq2(runes(al.b[j]))
		for i := alo; i < ahi; i++ {
			if al.a[i] == al.b[j] {
				if eqI < 0 {
					eqI, eqJ = i, j
				}
				continue
			}
			cruncher.SetSeq1(left[i-alo])
			if cruncher.RealQuickRatio() <= best || cruncher.QuickRatio() <= best {
				continue
			}
			if r := cruncher.Ratio(); r > best {
				best, bestI, bestJ = r, i, j
			}
		}
	}

	paired := true
	if best < pairCutoff {
		if eqI < 0 {
			al.plainReplace(alo, ahi, blo, bhi)
			return
		}
		bestI, bestJ, paired = eqI, eqJ, false
	}

	al.between(alo, bestI, blo, bestJ)
	if paired {
		al.removed(bestI, bestI+1)
		al.added(bestJ, bestJ+1)
	} else {
		al.unchanged(bestI, bestJ)
	}
	al.between(bestI+1, ahi, bestJ+1, bhi)
}

func (al *aligner) between(alo, ahi, blo, bhi int) {
	switch {
	case alo < ahi && blo < bhi:
		al.replace(alo, ahi, blo, bhi)
	case alo < ahi:
		al.removed(alo, ahi)
	case blo < bhi:
		al.added(blo, bhi)
	}
}

func (al *aligner) plainReplace(alo, ahi, blo, bhi int) {
	if bhi-blo < ahi-alo {
		al.added(blo, bhi)
		al.removed(alo, ahi)
		return
	}
	al.removed(alo, ahi)
	al.added(blo, bhi)
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// FilterComments returns the lines of in that do not start with prefix once
// leading whitespace is trimmed. The input slice is not modified.
func FilterComments(in []string, prefix string) []string {
	out := make([]string, 0, len(in))
	for _, line := range in {
		if prefix != "" && strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), prefix) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Standard projects entries onto the standard side.
func Standard(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind != AddedOnly {
			out = append(out, e.Text)
		}
	}
	return out
}

// Candidate projects entries onto the candidate side.
func Candidate(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind != RemovedOnly {
			out = append(out, e.Text)
		}
	}
	return out
}

// Changed reports whether any entry is not Unchanged.
func Changed(entries []Entry) bool {
	for _, e := range entries {
		if e.Kind != Unchanged {
			return true
		}
	}
	return false
}

// Stats counts entries per kind.
type Stats struct {
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
	Added     int `json:"added"`
}

// Summarize counts the entries of each kind.
func Summarize(entries []Entry) Stats {
	var s Stats
	for _, e := range entries {
		switch e.Kind {
		case Unchanged:
			s.Unchanged++
		case RemovedOnly:
			s.Removed++
		case AddedOnly:
			s.Added++
		}
	}
	return s
}
