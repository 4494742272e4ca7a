package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/viant/fleet"
	"github.com/viant/fleet/internal/logger"
	"github.com/viant/fleet/service/launcher/process"
)

// NewPlaneCmd returns the hidden command a process plane runs as.
func NewPlaneCmd() *cobra.Command {
	config := process.DefaultChildConfig()
	cmd := &cobra.Command{
		Use:          fleet.PlaneCommand,
		Short:        "Fly a single plane (started by the process runtime)",
		Hidden:       true,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Configure(config.LogLevel, cmd.ErrOrStderr())
			// RunChild owns SIGTERM and SIGINT; the command context would race it.
			outcome, err := process.RunChild(context.Background(), config, cmd.OutOrStdout())
			log.Debug().Stringer("outcome", outcome).Msg("plane landed")
			return err
		},
	}
	process.BindFlags(cmd.Flags(), &config)
	return cmd
}
