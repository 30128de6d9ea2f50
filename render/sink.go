package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonwraymond/codecompare/diff"
)

// WriteText writes lines without styling, one per row.
func WriteText(w io.Writer, lines []Line) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Theme maps styles to terminal colours.
type Theme struct {
	Plain    lipgloss.Style
	Removal  lipgloss.Style
	Addition lipgloss.Style
	Info     lipgloss.Style
	Gutter   lipgloss.Style

	// Highlight is layered over the line style for changed spans.
	Highlight lipgloss.Style
}

// DefaultTheme colours additions blue, removals red and banners green.
func DefaultTheme() Theme {
	return Theme{
		Plain:     lipgloss.NewStyle(),
		Removal:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Addition:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Gutter:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Highlight: lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

// NoColorTheme renders every style as plain text.
func NoColorTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{Plain: s, Removal: s, Addition: s, Info: s, Gutter: s, Highlight: s}
}

func (t Theme) style(s Style) lipgloss.Style {
	switch s {
	case Removal:
		return t.Removal
	case Addition:
		return t.Addition
	case Info:
		return t.Info
	default:
		return t.Plain
	}
}

// RenderLine renders a single line.
func (t Theme) RenderLine(l Line) string {
	base := t.style(l.Style)

	var b strings.Builder
	if l.Prefix != "" {
		if l.Style == Plain {
			b.WriteString(t.Gutter.Render(l.Prefix))
		} else {
			b.WriteString(base.Render(l.Prefix))
		}
	}
	if len(l.Spans) == 0 {
		b.WriteString(base.Render(l.Text))
		return b.String()
	}
	for _, s := range l.Spans {
		if s.Op == diff.SpanEqual {
			b.WriteString(base.Render(s.Text))
		} else {
			b.WriteString(t.Highlight.Inherit(base).Render(s.Text))
		}
	}
	return b.String()
}

// Render renders lines joined by newlines.
func (t Theme) Render(lines []Line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = t.RenderLine(l)
	}
	return strings.Join(out, "\n")
}
