package process

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/printer"
)

// Runtime is the name tagged on crash reports from process planes.
const Runtime = "process"

// ChildConfig is everything a child needs to fly one plane.
type ChildConfig struct {
	Gauge      fuel.Gauge
	EventsURL  string
	MaxRetries int
	Prompt     string
	LogLevel   string
}

// DefaultChildConfig returns the reference constants.
func DefaultChildConfig() ChildConfig {
	return ChildConfig{
		Gauge:      fuel.DefaultGauge(),
		EventsURL:  "/tmp/fleet/events",
		MaxRetries: 3,
		Prompt:     printer.DefaultPrompt,
		LogLevel:   "warn",
	}
}

// BindFlags registers the child flags on flags.
func BindFlags(flags *pflag.FlagSet, config *ChildConfig) {
	flags.IntVar(&config.Gauge.Max, "fuel-max", config.Gauge.Max, "fuel after launch or refuel")
	flags.IntVar(&config.Gauge.BurnAmount, "burn-amount", config.Gauge.BurnAmount, "fuel burnt per burn interval")
	flags.DurationVar(&config.Gauge.BurnInterval, "burn-interval", config.Gauge.BurnInterval, "time to burn one burn amount")
	flags.DurationVar(&config.Gauge.NoticeInterval, "notice-interval", config.Gauge.NoticeInterval, "minimum gap between low fuel notices")
	flags.DurationVar(&config.Gauge.Quantum, "quantum", config.Gauge.Quantum, "plane loop period")
	flags.StringVar(&config.EventsURL, "events-dir", config.EventsURL, "crash report queue location")
	flags.IntVar(&config.MaxRetries, "event-retries", config.MaxRetries, "crash report delivery retries")
	flags.StringVar(&config.Prompt, "prompt", config.Prompt, "prompt redrawn after plane output")
	flags.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
}

// Args renders config as the flags understood by BindFlags.
func (c ChildConfig) Args() []string {
	return []string{
		fmt.Sprintf("--fuel-max=%d", c.Gauge.Max),
		fmt.Sprintf("--burn-amount=%d", c.Gauge.BurnAmount),
		"--burn-interval=" + c.Gauge.BurnInterval.String(),
		"--notice-interval=" + c.Gauge.NoticeInterval.String(),
		"--quantum=" + c.Gauge.Quantum.String(),
		"--events-dir=" + c.EventsURL,
		fmt.Sprintf("--event-retries=%d", c.MaxRetries),
		"--prompt=" + c.Prompt,
		"--log-level=" + c.LogLevel,
	}
}

// Validate checks the child configuration
func (c ChildConfig) Validate() error {
	if c.EventsURL == "" {
		return fmt.Errorf("events-dir cannot be empty")
	}
	return c.Gauge.Validate()
}
