package code

import (
	"maps"

	"github.com/jonwraymond/codecompare/runtime"
)

// DefaultLanguageName is the language used when none is configured.
const DefaultLanguageName = "python"

// DefaultLanguages returns the built-in language table. The returned map is
// a fresh copy the caller may modify.
func DefaultLanguages() map[string]runtime.Language {
	return map[string]runtime.Language{
		"python": {
			Name:          "python",
			Command:       []string{"python3", "-u", runtime.FilePlaceholder},
			Extension:     ".py",
			CommentPrefix: "#",
			Image:         "python:3.12-slim",
			Env: map[string]string{
				"PYTHONIOENCODING":        "utf-8",
				"PYTHONDONTWRITEBYTECODE": "1",
			},
		},
		"go": {
			Name:          "go",
			Command:       []string{"go", "run", runtime.FilePlaceholder},
			Extension:     ".go",
			CommentPrefix: "//",
			Image:         "golang:1.25-alpine",
			Env: map[string]string{
				"GOCACHE": "/tmp/codecompare-gocache",
			},
		},
		"node": {
			Name:          "node",
			Command:       []string{"node", runtime.FilePlaceholder},
			Extension:     ".js",
			CommentPrefix: "//",
			Image:         "node:22-alpine",
		},
	}
}

// CloneLanguages copies a language table, including each language's
// command and environment.
func CloneLanguages(in map[string]runtime.Language) map[string]runtime.Language {
	out := make(map[string]runtime.Language, len(in))
	for name, lang := range in {
		lang.Command = append([]string(nil), lang.Command...)
		lang.Env = maps.Clone(lang.Env)
		out[name] = lang
	}
	return out
}
