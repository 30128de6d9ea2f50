package main

import (
	"github.com/spf13/cobra"

	"github.com/jonwraymond/codecompare/backend"
	"github.com/jonwraymond/codecompare/backend/toolset"
	"github.com/jonwraymond/codecompare/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the compare and run tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			if err := reg.StartAll(cmd.Context()); err != nil {
				return err
			}
			defer func() {
				if err := reg.StopAll(); err != nil {
					a.log.Warn("stopping tool backends", "error", err)
				}
			}()

			s, err := server.New(cmd.Context(), backend.NewAggregator(reg), server.Options{Version: version, Logger: a.log})
			if err != nil {
				return err
			}
			a.log.Info("serving MCP on stdio", "profile", a.cfg.Profile)
			return server.Serve(s)
		},
	}
}

// registry holds the codecompare tools.
func (a *app) registry() (*backend.Registry, error) {
	x, err := a.newExec()
	if err != nil {
		return nil, err
	}
	reg := backend.NewRegistry()
	if err := reg.Register(toolset.New(x)); err != nil {
		return nil, err
	}
	return reg, nil
}

// aggregator routes calls to the codecompare tools.
func (a *app) aggregator() (*backend.Aggregator, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	return backend.NewAggregator(reg), nil
}
