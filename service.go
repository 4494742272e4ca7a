package fleet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/internal/idgen"
	"github.com/viant/fleet/service/event"
	"github.com/viant/fleet/service/launcher"
	"github.com/viant/fleet/service/launcher/local"
	"github.com/viant/fleet/service/launcher/process"
	"github.com/viant/fleet/service/messaging"
	"github.com/viant/fleet/service/messaging/memory"
	"github.com/viant/fleet/service/printer"
	"github.com/viant/fleet/service/supervisor"
	"github.com/viant/fleet/tracing"
)

// Version is reported on trace resources.
const Version = "0.1.0"

// PlaneCommand is the hidden sub-command a process plane is started with.
const PlaneCommand = "plane"

// Service wires the supervisor, the launcher and the crash queue for one run.
type Service struct {
	config          *Config
	in              io.Reader
	out             io.Writer
	clock           clock.Clock
	launcher        launcher.Launcher
	planeExecutable string
	planeArgs       []string
	planeEnv        []string

	printer    *printer.Printer
	events     *event.Service
	eventsURL  string
	supervisor *supervisor.Supervisor
}

// New validates config and prepares a service.
func New(config *Config, options ...Option) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ret := &Service{config: config, in: os.Stdin, out: os.Stdout}
	for _, option := range options {
		option(ret)
	}
	if ret.clock == nil {
		ret.clock = clock.New()
	}
	ret.printer = printer.New(ret.out, printer.WithPrompt(config.Prompt))

	var err error
	if ret.events, err = ret.newEvents(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Supervisor returns the supervisor of the last Run, or nil before Run.
func (s *Service) Supervisor() *supervisor.Supervisor {
	return s.supervisor
}

// Run starts the command loop and returns once the operator quits, input
// ends or ctx is done. Every plane has been told to terminate by then.
func (s *Service) Run(ctx context.Context) error {
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.ServiceName, Version, s.config.Tracing.File); err != nil {
			log.Warn().Err(err).Msg("tracing disabled")
		}
		defer func() {
			if err := tracing.Shutdown(context.WithoutCancel(ctx)); err != nil {
				log.Debug().Err(err).Msg("tracing shutdown")
			}
		}()
	}
	defer s.cleanup(ctx)

	l, err := s.newLauncher(ctx)
	if err != nil {
		return err
	}
	s.supervisor = supervisor.New(l, s.printer,
		supervisor.WithEvents(s.events),
		supervisor.WithShutdownTimeout(s.config.ShutdownTimeout),
		supervisor.WithRuntime(s.config.Runtime))
	return s.supervisor.Run(ctx, s.in)
}

func (s *Service) newEvents() (*event.Service, error) {
	options := []event.Option{
		event.WithPollInterval(s.config.Events.PollInterval),
		event.WithNewMemoryQueueConfig(func(string) memory.Config {
			ret := memory.DefaultConfig()
			if s.config.Events.Buffer > 0 {
				ret.QueueBuffer = s.config.Events.Buffer
			}
			return ret
		}),
	}
	if s.config.Events.Vendor == messaging.VendorFS {
		s.eventsURL = path.Join(s.config.Events.BaseURL, idgen.New())
		options = append(options, event.WithNewFsQueueConfig(event.FsQueueConfig(s.eventsURL, s.config.Events.MaxRetries)))
	}
	return event.New(s.config.Events.Vendor, options...)
}

func (s *Service) newLauncher(ctx context.Context) (launcher.Launcher, error) {
	if s.launcher != nil {
		return s.launcher, nil
	}
	switch s.config.Runtime {
	case RuntimeProcess:
		child := process.ChildConfig{
			Gauge:      s.config.Fuel,
			EventsURL:  s.eventsURL,
			MaxRetries: s.config.Events.MaxRetries,
			Prompt:     s.config.Prompt,
			LogLevel:   s.config.Log.Level,
		}
		args := s.planeArgs
		if s.planeExecutable == "" {
			args = []string{PlaneCommand}
		}
		args = append(append([]string(nil), args...), child.Args()...)
		return process.New(
			process.WithExecutable(s.planeExecutable),
			process.WithArgs(args...),
			process.WithEnv(s.planeEnv...),
			process.WithOutput(s.out, nil))
	default:
		crashes, err := event.PublisherOf[event.Crash](s.events)
		if err != nil {
			return nil, err
		}
		return local.New(ctx,
			local.WithGauge(s.config.Fuel),
			local.WithClock(s.clock),
			local.WithAnnouncer(s.printer),
			local.WithCrashPublisher(crashes),
			local.WithLimit(s.config.MaxPlanes)), nil
	}
}

// cleanup removes the per-run crash queue directory.
func (s *Service) cleanup(ctx context.Context) {
	if s.eventsURL == "" {
		return
	}
	fs := afs.New()
	ctx = context.WithoutCancel(ctx)
	if ok, _ := fs.Exists(ctx, s.eventsURL); !ok {
		return
	}
	if err := fs.Delete(ctx, s.eventsURL); err != nil {
		log.Debug().Err(err).Str("url", s.eventsURL).Msg("failed to remove crash queue")
	}
}
