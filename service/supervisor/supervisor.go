// Package supervisor runs the operator command loop: it launches planes,
// forwards refuel and bomb requests, reports crashes and terminates the
// whole fleet on quit.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/model/command"
	"github.com/viant/fleet/progress"
	"github.com/viant/fleet/service/event"
	"github.com/viant/fleet/service/launcher"
	"github.com/viant/fleet/service/notify"
	"github.com/viant/fleet/service/printer"
	"github.com/viant/fleet/tracing"
)

const (
	helpText = "Commands:\n" +
		"s\t= status: prints out the IDs of all live planes\n" +
		"l\t= launch: launches a new plane\n" +
		"r <id>\t= refuel: refuels the plane with the specified ID\n" +
		"b <id>\t= bomb: drop a bomb from the plane with the specified ID\n" +
		"q\t= quit: quit the program"

	noPlanesText      = "There are no planes in the sky!"
	currentPlanesText = "The current planes are:"
	launchFailedText  = "There was a problem launching!"
	invalidText       = "Invalid command - type `help` for a list of commands."
	badIDText         = "Invalid plane ID %q - type `help` for a list of commands."
	unknownPlaneText  = "There is no plane with ID %d!"
	crashText         = "SOS! Plane %d has crashed!"

	defaultShutdownTimeout = 2 * time.Second
)

// Supervisor owns the registry and the command loop.
type Supervisor struct {
	launcher        launcher.Launcher
	printer         *printer.Printer
	registry        *Registry
	events          *event.Service
	shutdownTimeout time.Duration
	runtime         string
	tracker         *progress.Progress
	done            bool
}

// New creates a supervisor launching planes with l and writing to out.
func New(l launcher.Launcher, out *printer.Printer, opts ...Option) *Supervisor {
	ret := &Supervisor{
		launcher:        l,
		printer:         out,
		registry:        NewRegistry(),
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Registry exposes the plane registry
func (s *Supervisor) Registry() *Registry {
	return s.registry
}

// Progress returns the counters of the current run
func (s *Supervisor) Progress() progress.Progress {
	if s.tracker == nil {
		return progress.Progress{}
	}
	return s.tracker.Snapshot()
}

// Run reads commands from in until quit, end of input or ctx is done, then
// terminates every plane. Only a read failure on in is returned.
//
// Reads happen on a separate goroutine. When ctx ends first, that goroutine
// stays blocked in the pending read until in yields a line, reaches EOF or is
// closed by the caller; Run does not close in.
func (s *Supervisor) Run(ctx context.Context, in io.Reader) error {
	ctx, s.tracker = progress.WithNewTracker(ctx, s.runtime, func(p progress.Progress) {
		log.Trace().Int("launched", p.Launched).Int("flying", p.Flying).Int("crashed", p.Crashed).Msg("fleet changed")
	})
	if s.events != nil {
		if err := event.SetListenerOf[event.Crash](ctx, s.events, s.onCrash(ctx)); err != nil {
			return fmt.Errorf("failed to start crash listener: %w", err)
		}
	}

	reader := command.NewReader(in)
	commands := make(chan command.Command)
	go func() {
		for {
			cmd := reader.Next()
			select {
			case commands <- cmd:
			case <-ctx.Done():
				return
			}
			if cmd.Kind == command.Quit {
				return
			}
		}
	}()

	inputEnded := false
	for !s.done {
		s.printer.Prompt()
		select {
		case <-ctx.Done():
			s.printer.Println()
			s.done = true
		case cmd := <-commands:
			s.printer.Acknowledge()
			s.Reap()
			s.Execute(ctx, cmd)
			inputEnded = cmd.Kind == command.Quit
		}
	}

	if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Msg("fleet shutdown incomplete")
	}
	if inputEnded {
		return reader.Err()
	}
	return nil
}

// Execute runs one parsed command.
func (s *Supervisor) Execute(ctx context.Context, cmd command.Command) {
	ctx, span := tracing.StartSpan(ctx, "supervisor."+cmd.Kind.String(), "SERVER")
	span.WithAttributes(map[string]string{"command": cmd.String()})
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	switch cmd.Kind {
	case command.Help:
		s.Help()
	case command.Status:
		s.Status()
	case command.Launch:
		err = s.Launch(ctx)
	case command.Refuel:
		err = s.Notify(ctx, cmd.ID, notify.Refuel)
	case command.Bomb:
		err = s.Notify(ctx, cmd.ID, notify.Bomb)
	case command.Quit:
		if cmd.Input == "" {
			s.printer.Println()
		}
		s.done = true
	default:
		err = cmd.Err
		if errors.Is(cmd.Err, command.ErrInvalidID) {
			s.printer.Printf(badIDText, strings.TrimSpace(cmd.Input))
			return
		}
		s.printer.Println(invalidText)
	}
}

// Help prints the command reference
func (s *Supervisor) Help() {
	s.printer.Println(helpText)
}

// Status prints the ids of registered planes in launch order
func (s *Supervisor) Status() {
	ids := s.registry.IDs()
	if len(ids) == 0 {
		s.printer.Println(noPlanesText)
		return
	}
	line := make([]string, 0, len(ids)+1)
	line = append(line, currentPlanesText)
	for _, id := range ids {
		line = append(line, strconv.Itoa(id))
	}
	s.printer.Println(strings.Join(line, " "))
}

// Launch starts one plane and registers it. A failure prints one line and
// leaves the registry unchanged.
func (s *Supervisor) Launch(ctx context.Context) error {
	h, err := s.launcher.Launch(ctx)
	if err == nil {
		err = s.registry.Add(h)
	}
	if err != nil {
		progress.UpdateCtx(ctx, progress.Delta{LaunchFailures: 1})
		log.Debug().Err(err).Msg("launch failed")
		s.printer.Println(launchFailedText)
		return err
	}
	progress.UpdateCtx(ctx, progress.Delta{Launched: 1, Flying: 1})
	log.Debug().Int("plane", h.ID()).Msg("plane registered")
	return nil
}

// Notify forwards kind to plane id. Delivery is fire-and-forget: an exited
// but not yet reaped plane silently ignores it.
func (s *Supervisor) Notify(ctx context.Context, id int, kind notify.Kind) error {
	if span, ok := tracing.SpanFromContext(ctx); ok {
		span.WithInt("plane.id", id)
	}
	h, ok := s.registry.Lookup(id)
	if !ok {
		s.printer.Printf(unknownPlaneText, id)
		return nil
	}
	if err := notify.Send(h, kind); err != nil {
		log.Debug().Err(err).Int("plane", id).Stringer("kind", kind).Msg("notification not delivered")
	}
	return nil
}

// Reap drops exited planes from the registry and returns their ids.
func (s *Supervisor) Reap() []int {
	reaped := s.registry.Reap()
	if len(reaped) > 0 {
		s.tracker.Update(progress.Delta{Reaped: len(reaped), Flying: -len(reaped)})
		log.Debug().Ints("planes", reaped).Msg("reaped planes")
	}
	return reaped
}

// Shutdown delivers Terminate to every registered plane and waits up to the
// shutdown timeout for them to exit. Failures are collected, never fatal.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	_, span := tracing.StartSpan(ctx, "supervisor.shutdown", "INTERNAL")
	errs := new(multierror.Error)
	handles := s.registry.Handles()
	for _, h := range handles {
		if err := notify.Send(h, notify.Terminate); err != nil {
			if !errors.Is(err, launcher.ErrGone) {
				errs = multierror.Append(errs, err)
			}
			continue
		}
		s.tracker.Update(progress.Delta{Terminated: 1})
	}

	timer := time.NewTimer(s.shutdownTimeout)
	defer timer.Stop()
	for _, h := range handles {
		select {
		case <-h.Done():
			continue
		case <-timer.C:
		}
		for _, pending := range handles {
			if pending.Alive() {
				errs = multierror.Append(errs, fmt.Errorf("plane %d still flying after %s", pending.ID(), s.shutdownTimeout))
			}
		}
		break
	}
	var crashes event.Stats
	if s.events != nil {
		s.events.Close()
		crashes = s.crashStats(ctx)
	}

	summary := s.tracker.Snapshot()
	log.Debug().
		Int("pendingCrashes", crashes.Pending).
		Int("undeliveredCrashes", crashes.Undelivered).
		Str("runtime", summary.Runtime).
		Int("launched", summary.Launched).
		Int("launchFailures", summary.LaunchFailures).
		Int("crashed", summary.Crashed).
		Int("reaped", summary.Reaped).
		Int("terminated", summary.Terminated).
		Float64("uptimeSec", clock.Seconds(summary.StartedAt, clock.Now())).
		Msg("fleet summary")

	err := errs.ErrorOrNil()
	tracing.EndSpan(span, err)
	return err
}

func (s *Supervisor) crashStats(ctx context.Context) event.Stats {
	publisher, err := event.PublisherOf[event.Crash](s.events)
	if err == nil {
		var stats event.Stats
		if stats, err = publisher.Stats(ctx); err == nil {
			return stats
		}
	}
	log.Debug().Err(err).Msg("crash queue stats unavailable")
	return event.Stats{}
}

func (s *Supervisor) onCrash(ctx context.Context) event.Handler[event.Crash] {
	return func(e *event.Event[event.Crash]) error {
		if e == nil || e.Context == nil {
			return nil
		}
		if err := s.printer.Announce(fmt.Sprintf(crashText, e.Context.PlaneID)); err != nil {
			return fmt.Errorf("failed to report crash of plane %d: %w", e.Context.PlaneID, err)
		}
		progress.UpdateCtx(ctx, progress.Delta{Crashed: 1})
		log.Debug().Int("plane", e.Context.PlaneID).Dur("flightTime", e.Data.FlightTime).Msg("crash reported")
		return nil
	}
}
