package code

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/codecompare/runtime"
)

func TestConfig_ValidateRequired_Engine(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for nil Engine")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if !strings.Contains(err.Error(), "Engine") {
		t.Errorf("expected error to mention Engine, got %q", err.Error())
	}
}

func TestConfig_ValidateProfile(t *testing.T) {
	cfg := Config{Engine: &mockEngine{}, Profile: "paranoid"}
	if err := cfg.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestConfig_ValidateDefaultLanguage(t *testing.T) {
	cfg := Config{
		Engine:          &mockEngine{},
		Languages:       map[string]runtime.Language{"python": {Command: []string{"python3"}}},
		DefaultLanguage: "ruby",
	}
	err := cfg.Validate()
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if !strings.Contains(err.Error(), `"ruby"`) {
		t.Errorf("expected error to mention ruby, got %q", err.Error())
	}
}

func TestConfig_ValidateLanguageCommand(t *testing.T) {
	cfg := Config{
		Engine:    &mockEngine{},
		Languages: map[string]runtime.Language{"python": {}},
	}
	if err := cfg.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Engine: &mockEngine{}}
	cfg.applyDefaults()

	if cfg.DefaultLanguage != "python" {
		t.Errorf("DefaultLanguage = %q, want python", cfg.DefaultLanguage)
	}
	if cfg.DefaultTimeout != 10*time.Second {
		t.Errorf("DefaultTimeout = %v, want 10s", cfg.DefaultTimeout)
	}
	if cfg.NewRunID == nil || cfg.NewRunID() == "" {
		t.Error("NewRunID not defaulted")
	}
	if _, ok := cfg.Languages["go"]; !ok {
		t.Error("default languages missing go")
	}
}

func TestConfig_ApplyDefaultsPicksConfiguredLanguage(t *testing.T) {
	cfg := Config{
		Engine:    &mockEngine{},
		Languages: map[string]runtime.Language{"ruby": {Command: []string{"ruby"}}},
	}
	cfg.applyDefaults()

	if cfg.DefaultLanguage != "ruby" {
		t.Errorf("DefaultLanguage = %q, want ruby", cfg.DefaultLanguage)
	}
}

func TestConfig_ApplyDefaultsCopiesLanguages(t *testing.T) {
	langs := map[string]runtime.Language{
		"python": {Command: []string{"python3"}, Env: map[string]string{"A": "1"}},
	}
	cfg := Config{Engine: &mockEngine{}, Languages: langs}
	cfg.applyDefaults()

	cfg.Languages["python"].Env["A"] = "2"
	if langs["python"].Env["A"] != "1" {
		t.Error("applyDefaults should not alias the caller's language table")
	}
}

func TestConfig_NegativeTimeoutDisablesDeadline(t *testing.T) {
	engine := &mockEngine{}
	exec, err := NewDefaultExecutor(Config{Engine: engine, DefaultTimeout: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec.Execute(t.Context(), "print(1)")
	if got := engine.calls()[0].Timeout; got != 0 {
		t.Errorf("Timeout = %v, want 0", got)
	}
}
