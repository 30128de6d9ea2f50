package code

// Logger receives one summary line per finished run: run ID, language,
// status, exit code and duration.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging is best-effort; Logf must not panic.
type Logger interface {
	Logf(format string, args ...any)
}
