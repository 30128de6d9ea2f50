// Package config loads codecompare settings from YAML, .env files and the
// environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, .env files,
// process environment (CODECOMPARE_*), command-line flags. Flags are
// applied by the caller after Load.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/logging"
	"github.com/jonwraymond/codecompare/runtime"
	"github.com/jonwraymond/codecompare/source"
)

// ErrInvalidConfig is returned by Validate and Load for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultPath is the config file read when no path is given.
const DefaultPath = ".codecompare.yaml"

// Environment variables read by Load.
const (
	EnvLanguage    = "CODECOMPARE_LANGUAGE"
	EnvProfile     = "CODECOMPARE_PROFILE"
	EnvTimeout     = "CODECOMPARE_TIMEOUT"
	EnvLogLevel    = "CODECOMPARE_LOG_LEVEL"
	EnvDockerImage = "CODECOMPARE_DOCKER_IMAGE"
)

// Config is the full application configuration.
type Config struct {
	// Language is the default language for both panes.
	Language string `yaml:"language"`

	// Profile selects the runtime backend: dev runs on the host, standard
	// and hardened run in docker.
	Profile string `yaml:"profile"`

	// Timeout bounds each run.
	Timeout time.Duration `yaml:"timeout"`

	// MaxOutputBytes caps captured stdout and stderr per run.
	MaxOutputBytes int64 `yaml:"max_output_bytes"`

	// Encoding is used to decode loaded files.
	Encoding string `yaml:"encoding"`

	// Inline highlights the changed part of modified lines.
	Inline bool `yaml:"inline"`

	Log    LogConfig    `yaml:"log"`
	Docker DockerConfig `yaml:"docker"`
	Watch  WatchConfig  `yaml:"watch"`

	// Languages adds or replaces interpreter definitions by name.
	Languages map[string]runtime.Language `yaml:"languages"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives logs instead of stderr. The terminal UI logs nowhere
	// unless File is set.
	File string `yaml:"file"`
}

// DockerConfig configures the container backend.
type DockerConfig struct {
	Image          string `yaml:"image"`
	Binary         string `yaml:"binary"`
	SeccompProfile string `yaml:"seccomp_profile"`
	Pull           bool   `yaml:"pull"`
	MemoryBytes    int64  `yaml:"memory_bytes"`
	CPUMillis      int64  `yaml:"cpu_millis"`
	PidsMax        int64  `yaml:"pids_max"`

	// HardenedRuntime is the OCI runtime for the hardened profile, e.g.
	// "runsc" for gVisor.
	HardenedRuntime string `yaml:"hardened_runtime"`
}

// WatchConfig configures file watching.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Language:       code.DefaultLanguageName,
		Profile:        string(runtime.ProfileDev),
		Timeout:        code.DefaultTimeout,
		MaxOutputBytes: 1 << 20,
		Encoding:       string(source.EncodingUTF8),
		Log:            LogConfig{Level: "info", Format: "text"},
		Docker: DockerConfig{
			Binary:      "docker",
			Pull:        true,
			MemoryBytes: 256 << 20,
			CPUMillis:   1000,
			PidsMax:     64,
		},
		Watch:     WatchConfig{Debounce: 200 * time.Millisecond},
		Languages: code.DefaultLanguages(),
	}
}

// Load builds the configuration. An empty path reads DefaultPath when it
// exists; an explicit path must exist. dotenv names .env files to load
// before the environment is consulted; missing ones are skipped.
func Load(path string, dotenv ...string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := LoadDotenv(dotenv...); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return c.Parse(data)
}

// Parse overlays YAML data onto c. Languages are merged by name.
func (c *Config) Parse(data []byte) error {
	defaults := c.Languages
	c.Languages = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		c.Languages = defaults
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	merged := code.CloneLanguages(defaults)
	for name, lang := range c.Languages {
		if lang.Name == "" {
			lang.Name = name
		}
		lang.Env = expandEnv(lang.Env)
		merged[name] = lang
	}
	c.Languages = merged
	return nil
}

// LoadDotenv loads .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotenv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv applies CODECOMPARE_* overrides found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLanguage); ok && v != "" {
		c.Language = v
	}
	if v, ok := lookup(EnvProfile); ok && v != "" {
		c.Profile = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvDockerImage); ok && v != "" {
		c.Docker.Image = v
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var problems []string

	if _, ok := c.Languages[c.Language]; !ok {
		problems = append(problems, fmt.Sprintf("unknown language %q (have %s)", c.Language, strings.Join(c.LanguageNames(), ", ")))
	}
	for name, lang := range c.Languages {
		if len(lang.Command) == 0 || lang.Command[0] == "" {
			problems = append(problems, fmt.Sprintf("language %q has no command", name))
		}
	}
	if _, err := runtime.ParseProfile(c.Profile); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}
	if c.MaxOutputBytes < 0 {
		problems = append(problems, "max_output_bytes must not be negative")
	}
	if _, err := source.ParseEncoding(c.Encoding); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// LanguageNames returns the configured language names, sorted.
func (c *Config) LanguageNames() []string {
	names := make([]string, 0, len(c.Languages))
	for name := range c.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentLanguage returns the selected language definition.
func (c *Config) CurrentLanguage() runtime.Language {
	return c.Languages[c.Language]
}

func expandEnv(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	expanded := make(map[string]string, len(values))
	for key, value := range values {
		expanded[key] = os.ExpandEnv(value)
	}
	return expanded
}
