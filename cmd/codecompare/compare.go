package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/codecompare/backend/toolset"
	"github.com/jonwraymond/codecompare/diff"
	"github.com/jonwraymond/codecompare/exec"
	"github.com/jonwraymond/codecompare/render"
	"github.com/jonwraymond/codecompare/watch"
)

// pass is one comparison of the two input files. It reports whether they
// matched.
type pass func(ctx context.Context) (bool, error)

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff STANDARD CANDIDATE",
		Short: "Line diff of two source files, ignoring comment lines",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.newExec()
			if err != nil {
				return err
			}
			return a.compareFiles(cmd.Context(), args[0], args[1], func(ctx context.Context) (bool, error) {
				return a.diffOnce(x, args[0], args[1])
			})
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run STANDARD CANDIDATE",
		Short: "Run both programs and compare their output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.newExec()
			if err != nil {
				return err
			}
			return a.compareFiles(cmd.Context(), args[0], args[1], func(ctx context.Context) (bool, error) {
				return a.runOnce(ctx, x, args[0], args[1])
			})
		},
	}
}

func (a *app) diffOnce(x *exec.Exec, standardPath, candidatePath string) (bool, error) {
	standard, err := a.load("standard", standardPath)
	if err != nil {
		return false, err
	}
	candidate, err := a.load("candidate", candidatePath)
	if err != nil {
		return false, err
	}

	if a.flags.json {
		out, err := toolset.Compare(x, standard, candidate, "", a.cfg.Inline)
		if err != nil {
			return false, err
		}
		return !out.Changed, render.WriteJSON(a.stdout, out)
	}

	entries := x.Compare(standard, candidate)
	var opts []render.Option
	if a.cfg.Inline {
		opts = append(opts, render.WithInline())
	}
	return !diff.Changed(entries), a.print(render.Diff(entries, opts...))
}

func (a *app) runOnce(ctx context.Context, x *exec.Exec, standardPath, candidatePath string) (bool, error) {
	standard, err := a.load("standard", standardPath)
	if err != nil {
		return false, err
	}
	candidate, err := a.load("candidate", candidatePath)
	if err != nil {
		return false, err
	}

	report := x.Run(ctx, standard, candidate)
	if a.flags.json {
		return report.OK(), render.WriteJSON(a.stdout, report)
	}
	return report.OK(), a.print(render.Run(report.Report, report.Standard, report.Candidate))
}

// compareFiles runs one pass, or with --watch repeats it on every change to
// either file until the context is cancelled.
func (a *app) compareFiles(ctx context.Context, standardPath, candidatePath string, once pass) error {
	matched, err := once(ctx)
	if !a.flags.watch {
		if err != nil {
			return err
		}
		if !matched {
			return errDiffer
		}
		return nil
	}
	if err != nil {
		fmt.Fprintln(a.stderr, "Error:", err)
	}

	changes := make(chan []string, 1)
	svc, err := watch.New(func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	}, a.cfg.Watch.Debounce, a.log)
	if err != nil {
		return err
	}
	defer svc.Close()

	for _, path := range []string{standardPath, candidatePath} {
		if err := svc.Add(path); err != nil {
			return err
		}
	}
	a.log.Info("watching for changes", "files", svc.Files())

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.log.Debug("re-running", "changed", paths)
			fmt.Fprintln(a.stdout, render.Separator)
			if _, err := once(ctx); err != nil {
				fmt.Fprintln(a.stderr, "Error:", err)
			}
		}
	}
}
