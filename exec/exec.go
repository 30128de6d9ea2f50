package exec

import (
	"context"
	"fmt"

	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/compare"
	"github.com/jonwraymond/codecompare/diff"
	"github.com/jonwraymond/codecompare/runtime"
	"github.com/jonwraymond/codecompare/runtime/backend/docker"
	"github.com/jonwraymond/codecompare/runtime/backend/unsafe"
	"github.com/jonwraymond/codecompare/source"
)

// Exec is the facade over diffing, execution and comparison.
type Exec struct {
	executor *code.DefaultExecutor
	profile  runtime.SecurityProfile
	opts     Options
}

// New creates a new Exec instance with the given options.
func New(opts Options) (*Exec, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	backends := opts.Backends
	if backends == nil {
		backends = defaultBackends(opts)
	}
	if _, ok := backends[opts.SecurityProfile]; !ok {
		return nil, fmt.Errorf("%w: no backend for profile %q", code.ErrConfiguration, opts.SecurityProfile)
	}

	rt := runtime.NewDefaultRuntime(runtime.RuntimeConfig{
		Backends:       backends,
		DefaultProfile: opts.SecurityProfile,
		Logger:         opts.Logger,
	})

	executor, err := code.NewDefaultExecutor(code.Config{
		Engine:          rt,
		Languages:       opts.Languages,
		DefaultLanguage: opts.DefaultLanguage,
		DefaultTimeout:  opts.DefaultTimeout,
		Profile:         opts.SecurityProfile,
		Limits:          opts.Limits,
		Logger:          opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Exec{executor: executor, profile: opts.SecurityProfile, opts: opts}, nil
}

// defaultBackends builds the host backend for dev and the docker backend
// for the isolating profiles.
func defaultBackends(opts Options) map[runtime.SecurityProfile]runtime.Backend {
	dcfg := opts.Docker
	if dcfg.Client == nil {
		cli := docker.NewCLIRunner()
		dcfg.Client = cli
		if dcfg.HealthChecker == nil {
			dcfg.HealthChecker = cli
		}
		if dcfg.ImageResolver == nil {
			dcfg.ImageResolver = cli
		}
	}
	if dcfg.Logger == nil {
		dcfg.Logger = opts.Logger
	}
	container := docker.New(dcfg)

	return map[runtime.SecurityProfile]runtime.Backend{
		runtime.ProfileDev:      unsafe.New(unsafe.Config{Logger: opts.Logger}),
		runtime.ProfileStandard: container,
		runtime.ProfileHardened: container,
	}
}

// Profile returns the security profile every run uses.
func (e *Exec) Profile() runtime.SecurityProfile {
	return e.profile
}

// Languages returns the configured language names, sorted.
func (e *Exec) Languages() []string {
	return e.executor.Languages()
}

// Language returns a configured language; empty selects the default.
func (e *Exec) Language(name string) (runtime.Language, error) {
	return e.executor.Language(name)
}

// Compare diffs the two buffers as code of the default language, ignoring
// whole-line comments.
func (e *Exec) Compare(standard, candidate *source.Buffer) []diff.Entry {
	entries, err := e.CompareAs(standard, candidate, "")
	if err != nil {
		// The default language always exists once New succeeded.
		return diff.Lines(standard.Lines(), candidate.Lines())
	}
	return entries
}

// CompareAs diffs the two buffers using the comment prefix of language.
func (e *Exec) CompareAs(standard, candidate *source.Buffer, language string) ([]diff.Entry, error) {
	lang, err := e.executor.Language(language)
	if err != nil {
		return nil, err
	}
	return diff.Lines(standard.Lines(), candidate.Lines(), diff.WithCommentPrefix(lang.CommentPrefix)), nil
}

// Run executes both buffers in the default language, standard first, and
// compares their output.
func (e *Exec) Run(ctx context.Context, standard, candidate *source.Buffer) RunReport {
	return e.RunAs(ctx, standard, candidate, "")
}

// RunAs executes both buffers as language and compares their output. The
// runs are sequential and share nothing.
func (e *Exec) RunAs(ctx context.Context, standard, candidate *source.Buffer, language string) RunReport {
	name := language
	if lang, err := e.executor.Language(language); err == nil {
		name = lang.Name
	}

	std := e.executor.ExecuteCode(ctx, code.ExecuteParams{Code: standard.Text(), Language: language})
	cand := e.executor.ExecuteCode(ctx, code.ExecuteParams{Code: candidate.Text(), Language: language})

	return RunReport{
		Language:  name,
		Standard:  std,
		Candidate: cand,
		Report:    compare.Outputs(std, cand),
	}
}

// Execute runs one code string in the default language.
func (e *Exec) Execute(ctx context.Context, src string) code.Result {
	return e.executor.Execute(ctx, src)
}

// ExecuteCode runs one code string with explicit parameters.
func (e *Exec) ExecuteCode(ctx context.Context, params code.ExecuteParams) code.Result {
	return e.executor.ExecuteCode(ctx, params)
}
