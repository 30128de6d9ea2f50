// Package toolset registers the codecompare operations as tools on a local
// backend so they can be listed, searched and served over MCP.
package toolset

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonwraymond/codecompare/backend"
	"github.com/jonwraymond/codecompare/backend/local"
	"github.com/jonwraymond/codecompare/diff"
	"github.com/jonwraymond/codecompare/exec"
	"github.com/jonwraymond/codecompare/render"
	"github.com/jonwraymond/codecompare/source"
)

// Namespace is the backend name the tools are registered under.
const Namespace = "codecompare"

// Tool names.
const (
	ToolCompare   = "compare_code"
	ToolRun       = "run_code"
	ToolLanguages = "list_languages"
)

// CompareOutput is the result of compare_code.
type CompareOutput struct {
	Language string       `json:"language"`
	Changed  bool         `json:"changed"`
	Stats    diff.Stats   `json:"stats"`
	Entries  []diff.Entry `json:"entries"`
	Text     string       `json:"text"`
}

// RunOutput is the result of run_code.
type RunOutput struct {
	exec.RunReport
	Text string `json:"text"`
}

// LanguagesOutput is the result of list_languages.
type LanguagesOutput struct {
	Default   string   `json:"default"`
	Languages []string `json:"languages"`
	Profile   string   `json:"profile"`
}

// New returns a local backend exposing x as tools.
func New(x *exec.Exec) *local.Backend {
	b := local.New(Namespace)
	for _, def := range Defs(x) {
		b.Register(def)
	}
	return b
}

// Defs returns the tool definitions backed by x.
func Defs(x *exec.Exec) []local.ToolDef {
	pair := []local.Param{
		{Name: "standard", Type: local.ParamString, Description: "Reference source code", Required: true},
		{Name: "candidate", Type: local.ParamString, Description: "Source code to check against the reference", Required: true},
		{Name: "language", Type: local.ParamString, Description: "Language name; the configured default when omitted", Enum: x.Languages()},
	}

	return []local.ToolDef{
		{
			Name:        ToolCompare,
			Title:       "Compare code",
			Description: "Line diff of two source files, ignoring whole-line comments",
			Params: append(append([]local.Param{}, pair...), local.Param{
				Name: "inline", Type: local.ParamBoolean, Description: "Mark changed characters within replaced lines",
			}),
			ReadOnly: true,
			Tags:     []string{"diff", "compare", "source"},
			Handler:  compareHandler(x),
		},
		{
			Name:        ToolRun,
			Title:       "Run and compare",
			Description: "Execute two programs and compare their printed output",
			Params:      pair,
			Tags:        []string{"execute", "run", "output", "compare"},
			Handler:     runHandler(x),
		},
		{
			Name:        ToolLanguages,
			Title:       "List languages",
			Description: "List the languages code can be compared and run in",
			ReadOnly:    true,
			Tags:        []string{"languages", "config"},
			Handler:     languagesHandler(x),
		},
	}
}

func buffers(args map[string]any) (standard, candidate *source.Buffer, language string, err error) {
	std, err := local.String(args, "standard", "")
	if err != nil {
		return nil, nil, "", err
	}
	cand, err := local.String(args, "candidate", "")
	if err != nil {
		return nil, nil, "", err
	}
	language, err = local.String(args, "language", "")
	if err != nil {
		return nil, nil, "", err
	}

	standard = source.NewBuffer("standard")
	standard.SetText(std)
	candidate = source.NewBuffer("candidate")
	candidate.SetText(cand)
	return standard, candidate, language, nil
}

func compareHandler(x *exec.Exec) local.HandlerFunc {
	return func(_ context.Context, args map[string]any) (any, error) {
		standard, candidate, language, err := buffers(args)
		if err != nil {
			return nil, err
		}
		inline, err := local.Bool(args, "inline", false)
		if err != nil {
			return nil, err
		}
		if _, err := x.Language(language); err != nil {
			return nil, fmt.Errorf("%w: %v", backend.ErrInvalidArgument, err)
		}
		return Compare(x, standard, candidate, language, inline)
	}
}

func runHandler(x *exec.Exec) local.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		standard, candidate, language, err := buffers(args)
		if err != nil {
			return nil, err
		}
		if _, err := x.Language(language); err != nil {
			return nil, fmt.Errorf("%w: %v", backend.ErrInvalidArgument, err)
		}
		return Run(ctx, x, standard, candidate, language)
	}
}

// Compare diffs two buffers as language and renders the result as plain
// text. An empty language selects the default.
func Compare(x *exec.Exec, standard, candidate *source.Buffer, language string, inline bool) (CompareOutput, error) {
	lang, err := x.Language(language)
	if err != nil {
		return CompareOutput{}, err
	}
	entries, err := x.CompareAs(standard, candidate, lang.Name)
	if err != nil {
		return CompareOutput{}, err
	}

	var opts []render.Option
	if inline {
		opts = append(opts, render.WithInline())
	}
	text, err := plain(render.Diff(entries, opts...))
	if err != nil {
		return CompareOutput{}, err
	}
	return CompareOutput{
		Language: lang.Name,
		Changed:  diff.Changed(entries),
		Stats:    diff.Summarize(entries),
		Entries:  entries,
		Text:     text,
	}, nil
}

// Run executes both buffers as language and renders the report as plain
// text.
func Run(ctx context.Context, x *exec.Exec, standard, candidate *source.Buffer, language string) (RunOutput, error) {
	report := x.RunAs(ctx, standard, candidate, language)
	text, err := plain(render.Run(report.Report, report.Standard, report.Candidate))
	if err != nil {
		return RunOutput{}, err
	}
	return RunOutput{RunReport: report, Text: text}, nil
}

func languagesHandler(x *exec.Exec) local.HandlerFunc {
	return func(_ context.Context, _ map[string]any) (any, error) {
		def, err := x.Language("")
		if err != nil {
			return nil, err
		}
		return LanguagesOutput{
			Default:   def.Name,
			Languages: x.Languages(),
			Profile:   string(x.Profile()),
		}, nil
	}
}

func plain(lines []render.Line) (string, error) {
	var sb strings.Builder
	if err := render.WriteText(&sb, lines); err != nil {
		return "", err
	}
	return sb.String(), nil
}
