package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/viant/afs"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/messaging"
	"github.com/viant/fleet/service/meta"
	"github.com/viant/fleet/service/printer"
	"gopkg.in/yaml.v3"
)

const (
	// RuntimeLocal flies every plane as a goroutine.
	RuntimeLocal = "local"
	// RuntimeProcess flies every plane as a child process.
	RuntimeProcess = "process"
)

// Config is a serialisable representation of the fleet configuration. It can
// be populated from YAML or JSON; fields left out keep their defaults.
type Config struct {
	Runtime         string        `json:"runtime" yaml:"runtime"`
	Prompt          string        `json:"prompt" yaml:"prompt"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
	MaxPlanes       int           `json:"maxPlanes" yaml:"maxPlanes"`
	Fuel            fuel.Gauge    `json:"fuel" yaml:"fuel"`
	Events          EventsConfig  `json:"events" yaml:"events"`
	Log             LogConfig     `json:"log" yaml:"log"`
	Tracing         TracingConfig `json:"tracing" yaml:"tracing"`
}

// EventsConfig configures the crash report queue.
type EventsConfig struct {
	Vendor       messaging.Vendor `json:"vendor" yaml:"vendor"`
	BaseURL      string           `json:"baseURL" yaml:"baseURL"`
	PollInterval time.Duration    `json:"pollInterval" yaml:"pollInterval"`
	Buffer       int              `json:"buffer" yaml:"buffer"`
	MaxRetries   int              `json:"maxRetries" yaml:"maxRetries"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	File        string `json:"file" yaml:"file"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
}

// DefaultConfig returns the reference configuration: goroutine planes, the
// standard fuel constants and an in-memory crash queue.
func DefaultConfig() *Config {
	return &Config{
		Runtime:         RuntimeLocal,
		Prompt:          printer.DefaultPrompt,
		ShutdownTimeout: 2 * time.Second,
		Fuel:            fuel.DefaultGauge(),
		Events: EventsConfig{
			Vendor:       messaging.VendorMemory,
			BaseURL:      "/tmp/fleet/events",
			PollInterval: 50 * time.Millisecond,
			Buffer:       64,
			MaxRetries:   3,
		},
		Log:     LogConfig{Level: "warn"},
		Tracing: TracingConfig{ServiceName: "fleet"},
	}
}

// LoadConfig reads a YAML (or JSON) document from URL on top of the defaults.
// ${env.KEY} expressions are expanded before decoding.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(meta.ExpandEnv(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	ret.Normalize()
	return ret, nil
}

// Normalize applies settings implied by others: child processes share no
// memory with the supervisor, so the process runtime needs the fs queue.
func (c *Config) Normalize() {
	if c.Runtime == RuntimeProcess {
		c.Events.Vendor = messaging.VendorFS
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	errs := new(multierror.Error)
	switch c.Runtime {
	case RuntimeLocal, RuntimeProcess:
	default:
		errs = multierror.Append(errs, fmt.Errorf("runtime must be %q or %q, got %q", RuntimeLocal, RuntimeProcess, c.Runtime))
	}
	if c.ShutdownTimeout <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("shutdownTimeout must be > 0"))
	}
	if c.MaxPlanes < 0 {
		errs = multierror.Append(errs, fmt.Errorf("maxPlanes must be >= 0"))
	}
	if err := c.Fuel.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	switch c.Events.Vendor {
	case messaging.VendorMemory:
		if c.Runtime == RuntimeProcess {
			errs = multierror.Append(errs, fmt.Errorf("process runtime requires the %q events vendor", messaging.VendorFS))
		}
	case messaging.VendorFS:
		if c.Events.BaseURL == "" {
			errs = multierror.Append(errs, fmt.Errorf("events.baseURL cannot be empty"))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("unsupported events vendor: %q", c.Events.Vendor))
	}
	if c.Events.PollInterval <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("events.pollInterval must be > 0"))
	}
	return errs.ErrorOrNil()
}
