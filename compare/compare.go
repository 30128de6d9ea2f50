// Package compare decides whether two runs printed the same thing.
package compare

import (
	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/diff"
)

// Verdict is the outcome of comparing two runs.
type Verdict string

// Verdicts.
const (
	VerdictMatch           Verdict = "match"
	VerdictMismatch        Verdict = "mismatch"
	VerdictStandardFailed  Verdict = "standard_failed"
	VerdictCandidateFailed Verdict = "candidate_failed"
	VerdictBothFailed      Verdict = "both_failed"
)

// Report is the comparator's answer.
type Report struct {
	Verdict Verdict `json:"verdict"`

	// Diff aligns the two outputs line by line. Set only for VerdictMismatch.
	Diff []diff.Entry `json:"diff,omitempty"`

	// StandardTrace and CandidateTrace hold the trace of each failed side.
	StandardTrace  string `json:"standardTrace,omitempty"`
	CandidateTrace string `json:"candidateTrace,omitempty"`
}

// Matched reports whether both runs succeeded with identical output.
func (r Report) Matched() bool {
	return r.Verdict == VerdictMatch
}

// Failed reports whether at least one run failed.
func (r Report) Failed() bool {
	switch r.Verdict {
	case VerdictStandardFailed, VerdictCandidateFailed, VerdictBothFailed:
		return true
	}
	return false
}

// Outputs compares two results. Outputs are compared for exact equality;
// comment filtering never applies to program output.
func Outputs(standard, candidate code.Result) Report {
	switch {
	case !standard.OK() && !candidate.OK():
		return Report{Verdict: VerdictBothFailed, StandardTrace: standard.Trace, CandidateTrace: candidate.Trace}
	case !standard.OK():
		return Report{Verdict: VerdictStandardFailed, StandardTrace: standard.Trace}
	case !candidate.OK():
		return Report{Verdict: VerdictCandidateFailed, CandidateTrace: candidate.Trace}
	case standard.Output == candidate.Output:
		return Report{Verdict: VerdictMatch}
	}
	return Report{
		Verdict: VerdictMismatch,
		Diff:    diff.Lines(diff.SplitLines(standard.Output), diff.SplitLines(candidate.Output)),
	}
}
