package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the supervisor
// or a crash listener. The fields are signed.
type Delta struct {
	Launched       int
	LaunchFailures int
	Crashed        int
	Reaped         int
	Terminated     int
	Flying         int
}

// Progress keeps aggregated fleet counters for one supervisor run. It is
// safe for concurrent use.
type Progress struct {
	Runtime   string
	StartedAt time.Time

	Launched       int
	LaunchFailures int
	Crashed        int
	Reaped         int
	Terminated     int
	Flying         int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta. The onChange callback, when set, runs
// outside the critical section with a copy of the updated counters.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()
	p.Launched += d.Launched
	p.LaunchFailures += d.LaunchFailures
	p.Crashed += d.Crashed
	p.Reaped += d.Reaped
	p.Terminated += d.Terminated
	p.Flying += d.Flying
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

func (p *Progress) copy() Progress {
	return Progress{
		Runtime:        p.Runtime,
		StartedAt:      p.StartedAt,
		Launched:       p.Launched,
		LaunchFailures: p.LaunchFailures,
		Crashed:        p.Crashed,
		Reaped:         p.Reaped,
		Terminated:     p.Terminated,
		Flying:         p.Flying,
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, runtime string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		Runtime:   runtime,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
