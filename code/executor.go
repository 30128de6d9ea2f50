package code

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/codecompare/runtime"
)

// Executor is the main entry point for executing code strings.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines; deadline exceeded is reported
//   as a Failure whose Err wraps ErrLimitExceeded.
// - Errors: never returns or panics for anything the executed code does;
//   every outcome is a Result.
// - Ownership: params are read-only; the returned Result is caller-owned.
type Executor interface {
	// ExecuteCode runs a code string with the given parameters.
	ExecuteCode(ctx context.Context, params ExecuteParams) Result
}

// DefaultExecutor is the standard implementation of Executor.
type DefaultExecutor struct {
	cfg Config
}

// NewDefaultExecutor creates a new DefaultExecutor with the given configuration.
// Returns ErrConfiguration if any required field is missing.
func NewDefaultExecutor(cfg Config) (*DefaultExecutor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &DefaultExecutor{cfg: cfg}, nil
}

// Language returns the configured language called name, or the default
// language when name is empty.
func (e *DefaultExecutor) Language(name string) (runtime.Language, error) {
	if name == "" {
		name = e.cfg.DefaultLanguage
	}
	lang, ok := e.cfg.Languages[name]
	if !ok {
		return runtime.Language{}, fmt.Errorf("%w: unknown language %q (have %s)",
			ErrConfiguration, name, strings.Join(languageNames(e.cfg.Languages), ", "))
	}
	if lang.Name == "" {
		lang.Name = name
	}
	return lang, nil
}

// Languages returns the configured language names, sorted.
func (e *DefaultExecutor) Languages() []string {
	return languageNames(e.cfg.Languages)
}

// Execute runs code in the default language.
func (e *DefaultExecutor) Execute(ctx context.Context, code string) Result {
	return e.ExecuteCode(ctx, ExecuteParams{Code: code})
}

// ExecuteCode runs a code string with the given parameters.
func (e *DefaultExecutor) ExecuteCode(ctx context.Context, params ExecuteParams) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Failure(fmt.Sprintf("internal error: %v", r),
				fmt.Errorf("%w: panic: %v", ErrCodeExecution, r))
		}
	}()

	if strings.TrimSpace(params.Code) == "" {
		return Success("")
	}

	lang, err := e.Language(params.Language)
	if err != nil {
		return Failure(err.Error(), err)
	}

	// Apply defaults from config
	if params.Timeout == 0 {
		params.Timeout = e.cfg.DefaultTimeout
	}
	if params.Timeout < 0 {
		params.Timeout = 0
	}

	req := runtime.ExecuteRequest{
		RunID:    e.cfg.NewRunID(),
		Code:     params.Code,
		Language: lang,
		Profile:  e.cfg.Profile,
		Timeout:  params.Timeout,
		Limits:   e.cfg.Limits,
	}

	// The timeout travels in the request. Backends apply it around the
	// process only, so image pulls and daemon checks do not count against it.
	start := time.Now()
	res, err := e.cfg.Engine.Execute(ctx, req)
	duration := time.Since(start)

	result = e.classify(req, res, err)
	result.RunID = req.RunID
	result.Backend = string(res.Backend.Kind)
	result.DurationMs = duration.Milliseconds()

	// Log execution summary if logger present
	if e.cfg.Logger != nil {
		e.cfg.Logger.Logf("run %s (%s) finished: %s exit=%d in %dms",
			req.RunID, lang.Name, result.Status, result.ExitCode, result.DurationMs)
	}

	return result
}

func (e *DefaultExecutor) classify(req runtime.ExecuteRequest, res runtime.ExecuteResult, err error) Result {
	switch {
	case err == nil:
	case errors.Is(err, runtime.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		r := Failure(fmt.Sprintf("Timeout: execution exceeded %v", req.Timeout),
			fmt.Errorf("%w: timeout after %v", ErrLimitExceeded, req.Timeout))
		r.Output, r.Stderr, r.Truncated = res.Stdout, res.Stderr, res.Truncated
		return r
	default:
		return Failure(err.Error(), err)
	}

	if res.Succeeded() {
		r := Success(res.Stdout)
		r.Stderr = res.Stderr
		r.Truncated = res.Truncated
		return r
	}

	trace := strings.TrimRight(res.Stderr, "\n")
	if strings.TrimSpace(trace) == "" {
		trace = fmt.Sprintf("exit status %d", res.ExitCode)
	}
	codeErr := ParseTrace(trace)
	codeErr.Err = fmt.Errorf("exit status %d", res.ExitCode)

	r := Failure(trace, codeErr)
	r.Output = res.Stdout
	r.Stderr = res.Stderr
	r.ExitCode = res.ExitCode
	r.Truncated = res.Truncated
	return r
}

var _ Executor = (*DefaultExecutor)(nil)
