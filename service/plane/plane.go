// Package plane implements the worker loop of a single plane: it burns fuel
// as time passes, reacts to refuel and bomb notifications, and reports a
// crash when the tank runs dry.
package plane

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/event"
	"github.com/viant/fleet/service/notify"
	"github.com/viant/fleet/tracing"
)

// Outcome tells how a flight ended.
type Outcome int

const (
	// OutcomeTerminated means the supervisor asked the plane to stop.
	OutcomeTerminated Outcome = iota
	// OutcomeDepleted means the plane ran out of fuel and crashed.
	OutcomeDepleted
)

func (o Outcome) String() string {
	if o == OutcomeDepleted {
		return "depleted"
	}
	return "terminated"
}

// Announcer receives operator-facing lines.
type Announcer interface {
	Announce(line string) error
}

// Plane is one worker. Its state is owned by the goroutine running Fly.
type Plane struct {
	id      int
	runtime string
	gauge   fuel.Gauge
	clock   clock.Clock
	inbox   *notify.Mailbox
	out     Announcer
	crashes *event.Publisher[event.Crash]

	launchedAt time.Time
	lastRefuel time.Time
	lastNotice time.Time
	fuel       int
}

// New creates a plane reading notifications from inbox.
func New(id int, inbox *notify.Mailbox, opts ...Option) *Plane {
	ret := &Plane{
		id:    id,
		inbox: inbox,
		gauge: fuel.DefaultGauge(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.clock == nil {
		ret.clock = clock.New()
	}
	if ret.inbox == nil {
		ret.inbox = notify.NewMailbox()
	}
	return ret
}

// ID returns the plane id
func (p *Plane) ID() int {
	return p.id
}

// Fly runs the plane loop until the fuel is gone, Terminate is delivered or
// ctx is done. A crash report is published only for OutcomeDepleted.
func (p *Plane) Fly(ctx context.Context) (outcome Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "plane.fly", "INTERNAL")
	span.WithInt("plane.id", p.id)
	defer func() {
		span.WithAttributes(map[string]string{"outcome": outcome.String()})
		tracing.EndSpan(span, err)
	}()

	p.takeoff(p.clock.Now())
	logger := log.With().Int("plane", p.id).Logger()
	logger.Debug().Int("fuel", p.fuel).Msg("plane launched")

	ticker := p.clock.Ticker(p.gauge.Quantum)
	defer ticker.Stop()
	for {
		select {
		case <-p.inbox.Done():
			logger.Debug().Int("fuel", p.fuel).Msg("plane terminated")
			return OutcomeTerminated, nil
		case <-ctx.Done():
			return OutcomeTerminated, ctx.Err()
		case <-ticker.C:
		}
		if p.inbox.Terminated() {
			logger.Debug().Int("fuel", p.fuel).Msg("plane terminated")
			return OutcomeTerminated, nil
		}
		now := p.clock.Now()
		if !p.tick(now) {
			continue
		}
		logger.Debug().Float64("flightSec", clock.Seconds(p.launchedAt, now)).Msg("plane out of fuel")
		return OutcomeDepleted, p.reportCrash(ctx, now)
	}
}

func (p *Plane) takeoff(now time.Time) {
	p.launchedAt = now
	p.lastRefuel = now
	p.lastNotice = now
	p.fuel = p.gauge.Max
}

// tick runs one loop iteration at now and reports whether the plane is out
// of fuel.
func (p *Plane) tick(now time.Time) bool {
	p.fuel = p.gauge.Level(clock.Elapsed(p.lastRefuel, now))
	if p.gauge.ShouldNotice(p.fuel, clock.Elapsed(p.lastNotice, now)) {
		p.announce(fmt.Sprintf("***Bomber %d to base, %d fuel left***", p.id, p.fuel))
		p.lastNotice = now
	}
	if p.inbox.Take(notify.Bomb) {
		p.announce(fmt.Sprintf("Bomber %d to base, bombs away!", p.id))
	}
	if p.inbox.Take(notify.Refuel) {
		p.fuel = p.gauge.Max
		p.lastRefuel = now
	}
	return p.gauge.Empty(p.fuel)
}

func (p *Plane) announce(line string) {
	if p.out == nil {
		return
	}
	if err := p.out.Announce(line); err != nil {
		log.Debug().Err(err).Int("plane", p.id).Msg("notice not written")
	}
}

func (p *Plane) reportCrash(ctx context.Context, now time.Time) error {
	if p.crashes == nil {
		return nil
	}
	crash := event.NewEvent(&event.Context{PlaneID: p.id, EventType: event.TypeCrash, Runtime: p.runtime},
		event.Crash{FlightTime: clock.Elapsed(p.launchedAt, now), Fuel: p.fuel})
	if err := p.crashes.Publish(ctx, crash); err != nil {
		return fmt.Errorf("failed to report crash of plane %d: %w", p.id, err)
	}
	return nil
}
