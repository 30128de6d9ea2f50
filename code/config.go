package code

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/codecompare/runtime"
)

// DefaultTimeout bounds a run when neither the params nor the config set a
// timeout.
const DefaultTimeout = 10 * time.Second

// Config holds the configuration for a code executor.
type Config struct {
	// Engine runs requests.
	// Required.
	Engine Engine

	// Languages maps language names to interpreters.
	// Default: DefaultLanguages()
	Languages map[string]runtime.Language

	// DefaultLanguage is used when ExecuteParams.Language is empty.
	// Default: DefaultLanguageName
	DefaultLanguage string

	// DefaultTimeout is the execution timeout when not specified in
	// ExecuteParams. A negative value disables the timeout.
	// Default: DefaultTimeout
	DefaultTimeout time.Duration

	// Profile is the security profile requested for every run.
	Profile runtime.SecurityProfile

	// Limits bounds the resources of every run.
	Limits runtime.Limits

	// NewRunID generates run identifiers.
	// Default: uuid.NewString
	NewRunID func() string

	// Logger is an optional logger for observability.
	Logger Logger
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing or inconsistent.
func (c *Config) Validate() error {
	var problems []string

	if c.Engine == nil {
		problems = append(problems, "missing required fields: Engine")
	}
	if c.Profile != "" && !c.Profile.IsValid() {
		problems = append(problems, fmt.Sprintf("invalid profile %q", c.Profile))
	}
	if c.DefaultLanguage != "" && c.Languages != nil {
		if _, ok := c.Languages[c.DefaultLanguage]; !ok {
			problems = append(problems, fmt.Sprintf("default language %q not configured (have %s)",
				c.DefaultLanguage, strings.Join(languageNames(c.Languages), ", ")))
		}
	}
	for name, lang := range c.Languages {
		if len(lang.Command) == 0 {
			problems = append(problems, fmt.Sprintf("language %q has no command", name))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// applyDefaults sets default values for optional fields.
func (c *Config) applyDefaults() {
	if c.Languages == nil {
		c.Languages = DefaultLanguages()
	} else {
		c.Languages = CloneLanguages(c.Languages)
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguageName
		if _, ok := c.Languages[DefaultLanguageName]; !ok && len(c.Languages) > 0 {
			c.DefaultLanguage = languageNames(c.Languages)[0]
		}
	}
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.NewRunID == nil {
		c.NewRunID = uuid.NewString
	}
}

func languageNames(langs map[string]runtime.Language) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
