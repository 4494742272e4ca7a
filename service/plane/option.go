package plane

import (
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/event"
)

// Option configures a Plane
type Option func(p *Plane)

// WithGauge sets the fuel constants
func WithGauge(gauge fuel.Gauge) Option {
	return func(p *Plane) {
		p.gauge = gauge
	}
}

// WithClock sets the clock driving the plane loop
func WithClock(clk clock.Clock) Option {
	return func(p *Plane) {
		p.clock = clk
	}
}

// WithAnnouncer sets where notices and bomb reports are written
func WithAnnouncer(out Announcer) Option {
	return func(p *Plane) {
		p.out = out
	}
}

// WithCrashPublisher sets the publisher used for the one crash report
func WithCrashPublisher(publisher *event.Publisher[event.Crash]) Option {
	return func(p *Plane) {
		p.crashes = publisher
	}
}

// WithRuntime tags crash reports with the runtime name
func WithRuntime(runtime string) Option {
	return func(p *Plane) {
		p.runtime = runtime
	}
}
