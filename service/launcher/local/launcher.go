// Package local runs every plane as a goroutine of the supervisor process.
package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/internal/idgen"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/event"
	"github.com/viant/fleet/service/launcher"
	"github.com/viant/fleet/service/notify"
	"github.com/viant/fleet/service/plane"
)

// Runtime is the name tagged on crash reports from goroutine planes.
const Runtime = "local"

// Launcher starts goroutine planes. Plane ids come from a sequence and are
// never reused within one launcher.
type Launcher struct {
	ctx     context.Context
	seq     *idgen.Sequence
	gauge   fuel.Gauge
	clock   clock.Clock
	out     plane.Announcer
	crashes *event.Publisher[event.Crash]
	limit   int

	mu     sync.Mutex
	flying int
	wg     sync.WaitGroup
}

// New creates a launcher whose planes live until ctx is done or they are
// terminated.
func New(ctx context.Context, opts ...Option) *Launcher {
	ret := &Launcher{
		ctx:   ctx,
		seq:   idgen.NewSequence(1),
		gauge: fuel.DefaultGauge(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.clock == nil {
		ret.clock = clock.New()
	}
	return ret
}

// Launch starts a new plane goroutine.
func (l *Launcher) Launch(ctx context.Context) (launcher.Handle, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", launcher.ErrLaunch, err)
	}
	l.mu.Lock()
	if l.limit > 0 && l.flying >= l.limit {
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %d planes already flying", launcher.ErrLaunch, l.limit)
	}
	l.flying++
	l.mu.Unlock()

	h := &handle{
		id:    l.seq.Next(),
		inbox: notify.NewMailbox(),
		done:  make(chan struct{}),
	}
	p := plane.New(h.id, h.inbox,
		plane.WithGauge(l.gauge),
		plane.WithClock(l.clock),
		plane.WithAnnouncer(l.out),
		plane.WithCrashPublisher(l.crashes),
		plane.WithRuntime(Runtime))

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(h.done)
		defer l.landed()
		outcome, err := p.Fly(l.ctx)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Int("plane", h.id).Msg("plane flight error")
		}
		log.Debug().Int("plane", h.id).Stringer("outcome", outcome).Msg("plane exited")
	}()
	return h, nil
}

func (l *Launcher) landed() {
	l.mu.Lock()
	l.flying--
	l.mu.Unlock()
}

// Wait blocks until every launched plane has exited.
func (l *Launcher) Wait() {
	l.wg.Wait()
}

type handle struct {
	id    int
	inbox *notify.Mailbox
	done  chan struct{}
}

func (h *handle) ID() int {
	return h.id
}

func (h *handle) Alive() bool {
	return !launcher.IsDone(h.done)
}

func (h *handle) Deliver(kind notify.Kind) error {
	if !h.Alive() {
		return fmt.Errorf("%w: plane %d", launcher.ErrGone, h.id)
	}
	return h.inbox.Deliver(kind)
}

func (h *handle) Done() <-chan struct{} {
	return h.done
}

var _ launcher.Launcher = (*Launcher)(nil)
