package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/codecompare/config"
	"github.com/jonwraymond/codecompare/exec"
	"github.com/jonwraymond/codecompare/logging"
	"github.com/jonwraymond/codecompare/render"
	"github.com/jonwraymond/codecompare/runtime"
	"github.com/jonwraymond/codecompare/runtime/backend/docker"
	"github.com/jonwraymond/codecompare/source"
	"github.com/jonwraymond/codecompare/tui"
)

// flags holds the persistent command-line flags.
type flags struct {
	config   string
	language string
	profile  string
	timeout  time.Duration
	noColor  bool
	json     bool
	inline   bool
	watch    bool
}

// app is the state shared by the subcommands once the configuration is
// loaded.
type app struct {
	flags  flags
	cfg    *config.Config
	log    logging.Logger
	stdout io.Writer
	stderr io.Writer

	// logFile is closed when the command finishes.
	logFile *os.File
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	var standard, candidate string

	cmd := &cobra.Command{
		Use:   "codecompare",
		Short: "Compare a candidate program against a reference",
		Long: "codecompare diffs two source files ignoring comment lines, runs both\n" +
			"and compares what they print. Without a subcommand it opens the\n" +
			"interactive three-pane interface.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, cmd.Name() == "codecompare")
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd, standard, candidate)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "config file (default "+config.DefaultPath+" when present)")
	pf.StringVarP(&a.flags.language, "language", "l", "", "language of both programs")
	pf.StringVar(&a.flags.profile, "profile", "", "security profile: dev, standard or hardened")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "per-run timeout (e.g. 5s)")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable coloured output")
	pf.BoolVar(&a.flags.json, "json", false, "print results as JSON")
	pf.BoolVar(&a.flags.inline, "inline", false, "highlight changed characters in replaced lines")
	pf.BoolVarP(&a.flags.watch, "watch", "w", false, "re-run whenever an input file changes")

	cmd.Flags().StringVar(&standard, "standard", "", "file to preload into the standard pane")
	cmd.Flags().StringVar(&candidate, "candidate", "", "file to preload into the candidate pane")

	cmd.AddCommand(
		newDiffCmd(a),
		newRunCmd(a),
		newServeCmd(a),
		newToolsCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// setup loads the configuration and applies the flags on top of it. The
// interactive interface owns the terminal, so it logs only to a file.
func (a *app) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(a.flags.config, ".env")
	if err != nil {
		return usageError(err)
	}

	f := cmd.Flags()
	if f.Changed("language") {
		cfg.Language = a.flags.language
	}
	if f.Changed("profile") {
		cfg.Profile = a.flags.profile
	}
	if f.Changed("timeout") {
		cfg.Timeout = a.flags.timeout
	}
	if f.Changed("inline") {
		cfg.Inline = a.flags.inline
	}
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return usageError(err)
	}
	var w io.Writer = a.stderr
	switch {
	case cfg.Log.File != "":
		file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return usageError(fmt.Errorf("open log file: %w", err))
		}
		a.logFile = file
		w = file
	case interactive:
		a.log = logging.Nop()
		return nil
	}
	a.log, err = logging.New(cfg.Log.Format, w, level)
	if err != nil {
		return usageError(err)
	}
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

// newExec builds the facade from the configuration.
func (a *app) newExec() (*exec.Exec, error) {
	cfg := a.cfg
	cli := &docker.CLIRunner{Binary: cfg.Docker.Binary, Pull: cfg.Docker.Pull}

	x, err := exec.New(exec.Options{
		Languages:       cfg.Languages,
		DefaultLanguage: cfg.Language,
		SecurityProfile: runtime.SecurityProfile(cfg.Profile),
		DefaultTimeout:  cfg.Timeout,
		Limits: runtime.Limits{
			MaxOutputBytes: cfg.MaxOutputBytes,
			MemoryBytes:    cfg.Docker.MemoryBytes,
			CPUQuotaMillis: cfg.Docker.CPUMillis,
			PidsMax:        cfg.Docker.PidsMax,
		},
		Docker: docker.Config{
			ImageName:       cfg.Docker.Image,
			SeccompPath:     cfg.Docker.SeccompProfile,
			HardenedRuntime: cfg.Docker.HardenedRuntime,
			Client:          cli,
			ImageResolver:   cli,
			HealthChecker:   cli,
		},
		Logger: a.log,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return x, nil
}

func (a *app) encoding() source.Encoding {
	enc, err := source.ParseEncoding(a.cfg.Encoding)
	if err != nil {
		return source.EncodingUTF8
	}
	return enc
}

func (a *app) theme() render.Theme {
	if a.flags.noColor {
		return render.NoColorTheme()
	}
	return render.DefaultTheme()
}

// load reads a file into a new buffer named name.
func (a *app) load(name, path string) (*source.Buffer, error) {
	b := source.NewBuffer(name)
	if path == "" {
		return b, nil
	}
	if err := b.LoadWith(path, a.encoding()); err != nil {
		return nil, err
	}
	return b, nil
}

// print writes lines to stdout, coloured unless --no-color is set.
func (a *app) print(lines []render.Line) error {
	if a.flags.noColor {
		return render.WriteText(a.stdout, lines)
	}
	if len(lines) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(a.stdout, a.theme().Render(lines))
	return err
}

func (a *app) runTUI(cmd *cobra.Command, standardPath, candidatePath string) error {
	standard, err := a.load("standard", standardPath)
	if err != nil {
		return err
	}
	candidate, err := a.load("candidate", candidatePath)
	if err != nil {
		return err
	}
	x, err := a.newExec()
	if err != nil {
		return err
	}

	theme := a.theme()
	m := tui.New(x, tui.Options{
		Context:   cmd.Context(),
		Theme:     &theme,
		Inline:    a.cfg.Inline,
		Encoding:  a.encoding(),
		Standard:  standard,
		Candidate: candidate,
		Logger:    a.log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

// isUsage recognises the argument and flag errors cobra returns.
func isUsage(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "accepts ", "requires at least", "flag needs an argument"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
