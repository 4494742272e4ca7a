package supervisor

import (
	"time"

	"github.com/viant/fleet/service/event"
)

// Option configures a Supervisor
type Option func(s *Supervisor)

// WithEvents sets the event service the crash listener is attached to
func WithEvents(events *event.Service) Option {
	return func(s *Supervisor) {
		s.events = events
	}
}

// WithShutdownTimeout sets how long Shutdown waits for planes to exit
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Supervisor) {
		s.shutdownTimeout = timeout
	}
}

// WithRuntime names the runtime in logs and counters
func WithRuntime(runtime string) Option {
	return func(s *Supervisor) {
		s.runtime = runtime
	}
}
