// Package tui is the interactive three-pane terminal interface: two editor
// panes on top and the result pane below.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jonwraymond/codecompare/diff"
	"github.com/jonwraymond/codecompare/exec"
	"github.com/jonwraymond/codecompare/logging"
	"github.com/jonwraymond/codecompare/render"
	"github.com/jonwraymond/codecompare/source"
)

// Runner compares and runs the two panes. *exec.Exec implements it.
type Runner interface {
	Compare(standard, candidate *source.Buffer) []diff.Entry
	Run(ctx context.Context, standard, candidate *source.Buffer) exec.RunReport
}

var _ Runner = (*exec.Exec)(nil)

// Options configures the interface.
type Options struct {
	// Context bounds background runs. Default: context.Background()
	Context context.Context

	// Theme colours the result pane. Default: render.DefaultTheme()
	Theme *render.Theme

	// Inline highlights the changed characters of replaced lines.
	Inline bool

	// Encoding decodes files opened into a pane. Default: UTF-8
	Encoding source.Encoding

	// Standard and Candidate preload the panes.
	Standard *source.Buffer
	Candidate *source.Buffer

	// Logger receives load and run events. Default: logging.Nop()
	Logger logging.Logger
}

type focus int

const (
	focusStandard focus = iota
	focusCandidate
	focusResult
)

// pane is one editor: the buffer it owns and the widget editing it.
type pane struct {
	title  string
	buffer *source.Buffer
	editor textarea.Model
}

// sync copies the widget text into the buffer.
func (p *pane) sync() {
	p.buffer.SetText(p.editor.Value())
}

// snapshot returns a copy of the buffer for a background run.
func (p *pane) snapshot() *source.Buffer {
	p.sync()
	b := source.NewBuffer(p.buffer.Name())
	b.SetText(p.buffer.Text())
	return b
}

// Model is the Bubble Tea model of the interface.
type Model struct {
	ctx    context.Context
	runner Runner
	theme  render.Theme
	inline bool
	enc    source.Encoding
	log    logging.Logger

	panes  [2]*pane
	result viewport.Model
	lines  []render.Line
	focus  focus

	prompt     textinput.Model
	prompting  bool
	promptPane focus

	notice  string
	running bool
	width   int
	height  int
}

// runFinishedMsg carries the outcome of a background run.
type runFinishedMsg struct {
	report exec.RunReport
}

// New builds the model.
func New(runner Runner, opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	theme := render.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	if opts.Encoding == "" {
		opts.Encoding = source.EncodingUTF8
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	m := &Model{
		ctx:    opts.Context,
		runner: runner,
		theme:  theme,
		inline: opts.Inline,
		enc:    opts.Encoding,
		log:    opts.Logger,
		result: viewport.New(80, 10),
		prompt: textinput.New(),
		width:  100,
		height: 30,
	}
	m.panes[focusStandard] = newPane("Standard code", opts.Standard, "standard")
	m.panes[focusCandidate] = newPane("Candidate code", opts.Candidate, "candidate")
	m.prompt.Prompt = "Open file: "
	m.prompt.Placeholder = "path/to/file"
	m.panes[focusStandard].editor.Focus()
	m.layout()
	return m
}

func newPane(title string, buf *source.Buffer, name string) *pane {
	if buf == nil {
		buf = source.NewBuffer(name)
	}
	ed := textarea.New()
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	// The gutter is as wide as the largest line number the pane can hold.
	ed.MaxHeight = source.MaxLines
	ed.Placeholder = "Paste or open " + name + " code…"
	ed.SetValue(buf.Text())
	return &pane{title: title, buffer: buf, editor: ed}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case runFinishedMsg:
		m.running = false
		m.show(render.Run(msg.report.Report, msg.report.Standard, msg.report.Candidate))
		m.log.Info("run finished", "verdict", msg.report.Report.Verdict, "language", msg.report.Language)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.forward(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == keyQuit {
		return m, tea.Quit
	}

	if m.notice != "" {
		if key == keyDismiss || key == keyConfirm {
			m.notice = ""
		}
		return m, nil
	}

	if m.prompting {
		switch key {
		case keyDismiss:
			m.closePrompt()
			return m, nil
		case keyConfirm:
			m.open(m.prompt.Value())
			m.closePrompt()
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	switch key {
	case keyCompare:
		m.compare()
		return m, nil
	case keyRun:
		return m, m.run()
	case keyClear:
		m.clear()
		return m, nil
	case keyOpen:
		return m, m.openPrompt()
	case keyFocus:
		m.cycleFocus()
		return m, nil
	}
	return m, m.forward(msg)
}

// forward passes a message to the focused widget.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusResult {
		m.result, cmd = m.result.Update(msg)
		return cmd
	}
	p := m.panes[m.focus]
	p.editor, cmd = p.editor.Update(msg)
	p.sync()
	return cmd
}

func (m *Model) compare() {
	std, cand := m.panes[focusStandard], m.panes[focusCandidate]
	std.sync()
	cand.sync()

	var opts []render.Option
	if m.inline {
		opts = append(opts, render.WithInline())
	}
	m.show(render.Diff(m.runner.Compare(std.buffer, cand.buffer), opts...))
}

func (m *Model) run() tea.Cmd {
	if m.running {
		return nil
	}
	m.running = true
	std := m.panes[focusStandard].snapshot()
	cand := m.panes[focusCandidate].snapshot()
	ctx, runner := m.ctx, m.runner
	m.log.Debug("run started")
	return func() tea.Msg {
		return runFinishedMsg{report: runner.Run(ctx, std, cand)}
	}
}

func (m *Model) clear() {
	for _, p := range m.panes {
		p.buffer.Clear()
		p.editor.Reset()
	}
	m.lines = nil
	m.result.SetContent("")
}

func (m *Model) openPrompt() tea.Cmd {
	target := m.focus
	if target == focusResult {
		target = focusStandard
	}
	m.prompting = true
	m.promptPane = target
	m.prompt.SetValue(m.panes[target].buffer.Path())
	m.panes[target].editor.Blur()
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.Reset()
	m.setFocus(m.promptPane)
}

// open loads path into the prompt's pane. A failed load leaves the pane
// untouched and raises a notice.
func (m *Model) open(path string) {
	if path == "" {
		return
	}
	p := m.panes[m.promptPane]
	if err := p.buffer.LoadWith(path, m.enc, source.WithMaxLines(source.MaxLines)); err != nil {
		m.notice = err.Error()
		m.log.Warn("open failed", "path", path, "error", err)
		return
	}
	p.editor.SetValue(p.buffer.Text())
	m.log.Info("opened file", "pane", p.buffer.Name(), "path", path)
}

func (m *Model) cycleFocus() {
	m.setFocus((m.focus + 1) % 3)
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	for i, p := range m.panes {
		if focus(i) == f {
			p.editor.Focus()
		} else {
			p.editor.Blur()
		}
	}
}

func (m *Model) show(lines []render.Line) {
	m.lines = lines
	m.result.SetContent(m.theme.Render(lines))
	m.result.GotoTop()
}
