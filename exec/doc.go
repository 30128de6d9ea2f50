// Package exec is the codecompare facade.
//
// It wires the two editor buffers to the diff engine, the code executor and
// the output comparator, so a front end (terminal UI, CLI, tool backend)
// needs exactly one object:
//
//	x, err := exec.New(exec.Options{})
//	entries := x.Compare(standard, candidate)
//	report := x.Run(ctx, standard, candidate)
//
// # Backends
//
// The security profile picks the runtime backend. ProfileDev runs code on
// the host with no isolation beyond a fresh process and temporary
// directory; ProfileStandard and ProfileHardened run it in docker.
//
// # Integration
//
// The exec package integrates with:
//
//   - [github.com/jonwraymond/codecompare/diff] for line alignment
//   - [github.com/jonwraymond/codecompare/code] for contained execution
//   - [github.com/jonwraymond/codecompare/compare] for output verdicts
//   - [github.com/jonwraymond/codecompare/runtime] for process backends
package exec
