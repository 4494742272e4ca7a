package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/viant/fleet"
	"github.com/viant/fleet/internal/logger"
)

// NewRootCmd returns the supervisor command. Flags override values read
// from --config.
func NewRootCmd() *cobra.Command {
	config := fleet.DefaultConfig()
	var configURL string

	cmd := &cobra.Command{
		Use:          "fleet",
		Short:        "Launch, refuel and bomb with a fleet of planes",
		Long:         "Interactive supervisor of planes that burn fuel over time. Type `help` at the prompt for commands.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			effective, err := resolveConfig(cmd, configURL, config)
			if err != nil {
				return err
			}
			logger.Configure(effective.Log.Level, cmd.ErrOrStderr())
			srv, err := fleet.New(effective,
				fleet.WithInput(cmd.InOrStdin()),
				fleet.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configURL, "config", "c", "", "YAML config location")
	flags.StringVar(&config.Runtime, "runtime", config.Runtime, "plane runtime: local or process")
	flags.StringVar(&config.Prompt, "prompt", config.Prompt, "command prompt")
	flags.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "how long quit waits for planes to land")
	flags.IntVar(&config.MaxPlanes, "max-planes", config.MaxPlanes, "planes allowed in the sky at once, 0 for no limit")
	flags.IntVar(&config.Fuel.Max, "fuel-max", config.Fuel.Max, "fuel after launch or refuel")
	flags.IntVar(&config.Fuel.BurnAmount, "burn-amount", config.Fuel.BurnAmount, "fuel burnt per burn interval")
	flags.DurationVar(&config.Fuel.BurnInterval, "burn-interval", config.Fuel.BurnInterval, "time to burn one burn amount")
	flags.DurationVar(&config.Fuel.NoticeInterval, "notice-interval", config.Fuel.NoticeInterval, "minimum gap between low fuel notices")
	flags.DurationVar(&config.Fuel.Quantum, "quantum", config.Fuel.Quantum, "plane loop period")
	flags.StringVar(&config.Events.BaseURL, "events-dir", config.Events.BaseURL, "crash report queue location for the process runtime")
	flags.StringVar(&config.Log.Level, "log-level", config.Log.Level, "log level: debug, info, warn, error or off")
	flags.StringVar(&config.Tracing.File, "trace-file", config.Tracing.File, "write OpenTelemetry spans to this file")

	cmd.AddCommand(NewPlaneCmd())
	return cmd
}

// resolveConfig returns the flag config, or the loaded config with every
// explicitly set flag applied on top.
func resolveConfig(cmd *cobra.Command, configURL string, flagConfig *fleet.Config) (*fleet.Config, error) {
	ret := flagConfig
	if configURL != "" {
		loaded, err := fleet.LoadConfig(cmd.Context(), configURL)
		if err != nil {
			return nil, err
		}
		ret = loaded
		cmd.Flags().Visit(func(flag *pflag.Flag) {
			applyFlag(ret, flagConfig, flag.Name)
		})
	}
	if cmd.Flags().Changed("trace-file") {
		ret.Tracing.Enabled = true
	}
	return ret, nil
}

func applyFlag(dest, src *fleet.Config, name string) {
	switch name {
	case "runtime":
		dest.Runtime = src.Runtime
	case "prompt":
		dest.Prompt = src.Prompt
	case "shutdown-timeout":
		dest.ShutdownTimeout = src.ShutdownTimeout
	case "max-planes":
		dest.MaxPlanes = src.MaxPlanes
	case "fuel-max":
		dest.Fuel.Max = src.Fuel.Max
	case "burn-amount":
		dest.Fuel.BurnAmount = src.Fuel.BurnAmount
	case "burn-interval":
		dest.Fuel.BurnInterval = src.Fuel.BurnInterval
	case "notice-interval":
		dest.Fuel.NoticeInterval = src.Fuel.NoticeInterval
	case "quantum":
		dest.Fuel.Quantum = src.Fuel.Quantum
	case "events-dir":
		dest.Events.BaseURL = src.Events.BaseURL
	case "log-level":
		dest.Log.Level = src.Log.Level
	case "trace-file":
		dest.Tracing.File = src.Tracing.File
	}
}
