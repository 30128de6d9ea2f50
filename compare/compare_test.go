package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/diff"
)

func TestOutputs_Match(t *testing.T) {
	r := Outputs(code.Success("1\n2\n"), code.Success("1\n2\n"))

	assert.Equal(t, VerdictMatch, r.Verdict)
	assert.True(t, r.Matched())
	assert.False(t, r.Failed())
	assert.Empty(t, r.Diff)
}

func TestOutputs_EmptyOutputsMatch(t *testing.T) {
	assert.True(t, Outputs(code.Success(""), code.Success("")).Matched())
}

func TestOutputs_Mismatch(t *testing.T) {
	r := Outputs(code.Success("1\n2\n"), code.Success("1\n3\n"))

	require.Equal(t, VerdictMismatch, r.Verdict)
	assert.Equal(t, []diff.Entry{
		{Kind: diff.Unchanged, Left: 1, Right: 1, Text: "1"},
		{Kind: diff.RemovedOnly, Left: 2, Text: "2"},
		{Kind: diff.AddedOnly, Right: 2, Text: "3"},
	}, r.Diff)
	assert.True(t, diff.Changed(r.Diff))
}

func TestOutputs_NoCommentFiltering(t *testing.T) {
	r := Outputs(code.Success("# header\nx\n"), code.Success("x\n"))

	require.Equal(t, VerdictMismatch, r.Verdict)
	assert.Equal(t, []string{"# header", "x"}, diff.Standard(r.Diff))
}

func TestOutputs_TrailingNewlineDiffers(t *testing.T) {
	r := Outputs(code.Success("1\n"), code.Success("1"))

	assert.Equal(t, VerdictMismatch, r.Verdict)
	assert.False(t, diff.Changed(r.Diff), "line-level diff cannot show a missing final newline")
}

func TestOutputs_Failures(t *testing.T) {
	ok := code.Success("1\n")
	bad := code.Failure("ZeroDivisionError: division by zero", code.ErrCodeExecution)

	tests := []struct {
		name      string
		standard  code.Result
		candidate code.Result
		verdict   Verdict
		stdTrace  string
		candTrace string
	}{
		{"standard failed", bad, ok, VerdictStandardFailed, bad.Trace, ""},
		{"candidate failed", ok, bad, VerdictCandidateFailed, "", bad.Trace},
		{"both failed", bad, bad, VerdictBothFailed, bad.Trace, bad.Trace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Outputs(tt.standard, tt.candidate)
			assert.Equal(t, tt.verdict, r.Verdict)
			assert.True(t, r.Failed())
			assert.Nil(t, r.Diff)
			assert.Equal(t, tt.stdTrace, r.StandardTrace)
			assert.Equal(t, tt.candTrace, r.CandidateTrace)
		})
	}
}
