// Package diff aligns two sequences of lines and classifies every line as
// unchanged, present only on the standard side, or present only on the
// candidate side.
//
// # Alignment
//
// [Lines] uses a Ratcliff/Obershelp sequence matcher (the same family of
// matcher used by difflib): the longest contiguous matching block is found
// first and the algorithm recurses on both sides of it, so ties resolve to the
// earliest match. A replaced block is emitted as all of its removed lines
// followed by all of its added lines.
//
// # Line numbers
//
// Every [Entry] carries 1-based line numbers for the sides it belongs to. An
// unchanged entry advances both counters, a removed entry advances only the
// standard counter and an added entry advances only the candidate counter.
// Numbers refer to positions after comment filtering, so projecting the
// entries back onto either side with [Standard] or [Candidate] reproduces the
// filtered input exactly.
//
// # Comments
//
// [WithCommentPrefix] drops lines whose left-trimmed text begins with the
// given marker from both inputs before alignment. Comparisons of program
// output pass no prefix and see every line.
package diff
