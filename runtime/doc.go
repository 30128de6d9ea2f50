// Package runtime turns a code string into an isolated interpreter process.
//
// A [Backend] knows one way to start a process (directly on the host, inside
// a container) and reports what the process printed. A [Runtime] picks the
// backend for a request's [SecurityProfile].
//
// # Security profiles
//
//   - [ProfileDev]: runs on the host with the caller's privileges. Each run
//     gets a fresh process and a fresh temporary working directory, but
//     filesystem and network side effects are NOT contained.
//   - [ProfileStandard]: runs in a container with networking disabled and a
//     read-only root filesystem.
//   - [ProfileHardened]: as standard, plus dropped capabilities, an
//     unprivileged user and no privilege escalation.
//
// # Results
//
// A non-zero exit status is a normal result, not an error: the exit code and
// captured stderr are reported in [ExecuteResult]. Backends return an error
// only when the process could not be run to completion, such as a missing
// interpreter, an unavailable container engine, a timeout ([ErrTimeout]) or
// a canceled context.
package runtime
