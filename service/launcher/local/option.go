package local

import (
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/event"
	"github.com/viant/fleet/service/plane"
)

// Option configures a Launcher
type Option func(l *Launcher)

// WithGauge sets the fuel constants for launched planes
func WithGauge(gauge fuel.Gauge) Option {
	return func(l *Launcher) {
		l.gauge = gauge
	}
}

// WithClock sets the clock shared by launched planes
func WithClock(clk clock.Clock) Option {
	return func(l *Launcher) {
		l.clock = clk
	}
}

// WithAnnouncer sets where planes write notices
func WithAnnouncer(out plane.Announcer) Option {
	return func(l *Launcher) {
		l.out = out
	}
}

// WithCrashPublisher sets the crash report publisher
func WithCrashPublisher(publisher *event.Publisher[event.Crash]) Option {
	return func(l *Launcher) {
		l.crashes = publisher
	}
}

// WithLimit caps the number of planes flying at once; 0 means no cap.
func WithLimit(limit int) Option {
	return func(l *Launcher) {
		l.limit = limit
	}
}
