package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// SpanOp tells which side of a line pair a span belongs to.
type SpanOp int

const (
	// SpanEqual text is shared by both lines.
	SpanEqual SpanOp = iota
	// SpanDelete text appears only in the removed line.
	SpanDelete
	// SpanInsert text appears only in the added line.
	SpanInsert
)

// Span is a run of characters within a modified line.
type Span struct {
	Op   SpanOp
	Text string
}

// Inline computes a character-level diff between a removed line and the added
// line that replaced it. Spans are cleaned up semantically so that they fall
// on word-ish boundaries rather than scattered single characters.
func Inline(removed, added string) []Span {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(removed, added, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	spans := make([]Span, 0, len(diffs))
	for _, d := range diffs {
		var op SpanOp
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = SpanDelete
		case diffmatchpatch.DiffInsert:
			op = SpanInsert
		default:
			op = SpanEqual
		}
		spans = append(spans, Span{Op: op, Text: d.Text})
	}
	return spans
}

// Pairs maps every entry index to the index of its counterpart in a change
// block, where a block is a run of removed entries immediately followed by a
// run of added entries. Lines are paired positionally within the block and
// the mapping is symmetric. Unpaired entries map to -1.
func Pairs(entries []Entry) []int {
	pairs := make([]int, len(entries))
	for i := range pairs {
		pairs[i] = -1
	}
	for i := 0; i < len(entries); {
		if entries[i].Kind != RemovedOnly {
			i++
			continue
		}
		start := i
		for i < len(entries) && entries[i].Kind == RemovedOnly {
			i++
		}
		removedEnd := i
		for i < len(entries) && entries[i].Kind == AddedOnly {
			i++
		}
		for k := 0; start+k < removedEnd && removedEnd+k < i; k++ {
			pairs[start+k] = removedEnd + k
			pairs[removedEnd+k] = start + k
		}
	}
	return pairs
}
