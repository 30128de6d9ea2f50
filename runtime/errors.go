package runtime

import "errors"

// Errors shared by all backends.
var (
	// ErrMissingCode is returned when a request carries no code.
	ErrMissingCode = errors.New("code is required")

	// ErrMissingCommand is returned when the language has no interpreter command.
	ErrMissingCommand = errors.New("interpreter command is required")

	// ErrInvalidProfile is returned for an unknown security profile.
	ErrInvalidProfile = errors.New("invalid security profile")

	// ErrRuntimeUnavailable is returned when no backend can serve a request.
	ErrRuntimeUnavailable = errors.New("runtime unavailable")

	// ErrBackendDenied is returned when a backend refuses a request's profile.
	ErrBackendDenied = errors.New("backend denied by policy")

	// ErrStartFailed is returned when the interpreter process cannot be started.
	ErrStartFailed = errors.New("process start failed")

	// ErrTimeout is returned when a run exceeds its deadline.
	ErrTimeout = errors.New("execution timed out")
)
