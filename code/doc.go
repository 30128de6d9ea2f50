// Package code runs a code string and reports what it printed.
//
// It is the contained execution layer of codecompare: an [Executor] turns
// one code string into exactly one [Result] and never lets anything the
// code does escape as a Go error or a panic. How the string becomes a
// process is delegated to an [Engine], normally a runtime.Runtime backed by
// the unsafe host backend or the docker backend.
//
// # Result Convention
//
// A run that exits with status zero is a Success carrying the captured
// stdout. Anything else is a Failure carrying a formatted trace:
//
//   - Non-zero exit: the interpreter's stderr, or "exit status N" when it
//     wrote nothing. The last trace line and the failing line number are
//     parsed into a [CodeError].
//   - Timeout: applied via context deadline; Result.Err wraps
//     [ErrLimitExceeded].
//   - Engine failure (missing interpreter, docker unavailable): the engine
//     error message.
//
// Empty or whitespace-only code is a Success with empty output and no
// process is started.
//
// # Isolation
//
// Every run gets a fresh process in a fresh temporary directory, so the
// standard and candidate runs share no state. Whether side effects beyond
// that directory are contained depends on the engine's security profile.
package code
