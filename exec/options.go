package exec

import (
	"time"

	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/logging"
	"github.com/jonwraymond/codecompare/runtime"
	"github.com/jonwraymond/codecompare/runtime/backend/docker"
)

// Options configures an Exec instance.
type Options struct {
	// Languages maps language names to interpreters.
	// Default: code.DefaultLanguages()
	Languages map[string]runtime.Language

	// DefaultLanguage is used when a call names no language.
	// Default: code.DefaultLanguageName
	DefaultLanguage string

	// SecurityProfile determines the runtime backend for code execution.
	// Default: runtime.ProfileDev
	SecurityProfile runtime.SecurityProfile

	// DefaultTimeout bounds each run. A negative value disables it.
	// Default: code.DefaultTimeout
	DefaultTimeout time.Duration

	// Limits bounds the resources of each run.
	Limits runtime.Limits

	// Docker configures the container backend used by the standard and
	// hardened profiles. A nil Client selects the docker CLI.
	Docker docker.Config

	// Backends replaces the profile-to-backend table. Mainly for tests.
	Backends map[runtime.SecurityProfile]runtime.Backend

	// Logger receives backend and executor events.
	// Default: logging.Nop()
	Logger logging.Logger
}

// validate checks the options.
func (o *Options) validate() error {
	_, err := runtime.ParseProfile(string(o.SecurityProfile))
	return err
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if o.SecurityProfile == "" {
		o.SecurityProfile = runtime.ProfileDev
	}
	if o.Languages == nil {
		o.Languages = code.DefaultLanguages()
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
}
