package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonwraymond/codecompare/source"
)

var (
	borderStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	blurredStyle = borderStyle.BorderForeground(lipgloss.Color("8"))
	focusedStyle = borderStyle.BorderForeground(lipgloss.Color("6"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noticeStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("1")).Padding(0, 1)
)

// layout sizes the widgets to the terminal: the editors split the top half,
// the result pane takes the bottom half. Each box has a title row and a
// border.
func (m *Model) layout() {
	usable := m.height - 1
	top := usable / 2
	bottom := usable - top

	paneWidth := m.width/2 - 2 - gutterOverflow
	for _, p := range m.panes {
		p.editor.SetWidth(atLeast(paneWidth, 10))
		p.editor.SetHeight(atLeast(top-3, 1))
	}
	m.result.Width = atLeast(m.width-2, 10)
	m.result.Height = atLeast(bottom-3, 1)
	m.prompt.Width = atLeast(m.width-20, 10)
}

// gutterOverflow is how far the editor gutter (a space, the line number
// padded to the digits of source.MaxLines, a space) exceeds the four columns
// textarea reserves for it.
var gutterOverflow = len(strconv.Itoa(source.MaxLines)) + 2 - 4

func atLeast(n, floor int) int {
	if n < floor {
		return floor
	}
	return n
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.notice != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			noticeStyle.Render(m.notice+"\n\n"+helpStyle.Render("esc/enter to dismiss")))
	}

	editors := make([]string, 0, len(m.panes))
	for i, p := range m.panes {
		title := p.title + " · " + lineCount(p.buffer.LineCount())
		if path := p.buffer.Path(); path != "" {
			title += " (" + path + ")"
		}
		editors = append(editors, m.box(focus(i), title, p.editor.View()))
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, editors...)

	resultTitle := "Result"
	if m.running {
		resultTitle += " (running…)"
	}
	bottom := m.box(focusResult, resultTitle, m.result.View())

	status := helpStyle.Render(helpText)
	if m.prompting {
		status = m.prompt.View()
	}
	return strings.Join([]string{top, bottom, status}, "\n")
}

func (m *Model) box(f focus, title, body string) string {
	style := blurredStyle
	if m.focus == f && !m.prompting {
		style = focusedStyle
	}
	return style.Render(titleStyle.Render(title) + "\n" + body)
}

func lineCount(n int) string {
	if n == 1 {
		return "1 line"
	}
	return fmt.Sprintf("%d lines", n)
}
