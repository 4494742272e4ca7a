package fleet

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/service/launcher"
	"github.com/viant/fleet/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a Service
type Option func(s *Service)

// WithInput sets where operator commands are read from
func WithInput(r io.Reader) Option {
	return func(s *Service) {
		s.in = r
	}
}

// WithOutput sets where operator output is written
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.out = w
	}
}

// WithClock sets the clock used by goroutine planes
func WithClock(clk clock.Clock) Option {
	return func(s *Service) {
		s.clock = clk
	}
}

// WithLauncher replaces the launcher derived from the runtime setting
func WithLauncher(l launcher.Launcher) Option {
	return func(s *Service) {
		s.launcher = l
	}
}

// WithPlaneCommand sets the binary and leading arguments used to start a
// process plane; child flags are appended after args.
func WithPlaneCommand(executable string, args ...string) Option {
	return func(s *Service) {
		s.planeExecutable = executable
		s.planeArgs = args
	}
}

// WithPlaneEnv adds environment entries for process planes
func WithPlaneEnv(env ...string) Option {
	return func(s *Service) {
		s.planeEnv = append(s.planeEnv, env...)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. The first
// successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			log.Debug().Err(err).Msg("tracing exporter not installed")
		}
	}
}
