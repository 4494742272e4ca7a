package plane

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/event"
	"github.com/viant/fleet/service/messaging/memory"
	"github.com/viant/fleet/service/notify"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) Announce(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	return nil
}

func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func newTestPlane(id int) (*Plane, *notify.Mailbox, *recorder, time.Time) {
	inbox := notify.NewMailbox()
	out := &recorder{}
	p := New(id, inbox, WithAnnouncer(out), WithClock(clock.NewMock()))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.takeoff(start)
	return p, inbox, out, start
}

func TestPlane_TickDepletion(t *testing.T) {
	p, _, _, start := newTestPlane(1)

	assert.False(t, p.tick(start))
	assert.Equal(t, 100, p.fuel)

	assert.False(t, p.tick(start.Add(59*time.Second+999*time.Millisecond)))
	assert.Equal(t, 5, p.fuel)

	assert.True(t, p.tick(start.Add(60*time.Second)))
	assert.Equal(t, 0, p.fuel)
}

func TestPlane_TickLowFuelNotice(t *testing.T) {
	p, _, out, start := newTestPlane(4)

	p.tick(start.Add(30 * time.Second))
	assert.Empty(t, out.Lines(), "50 is not below half")

	p.tick(start.Add(33 * time.Second))
	p.tick(start.Add(36 * time.Second))
	p.tick(start.Add(43 * time.Second))

	assert.Equal(t, []string{
		"***Bomber 4 to base, 45 fuel left***",
		"***Bomber 4 to base, 30 fuel left***",
	}, out.Lines())
}

func TestPlane_TickRefuelCoalesces(t *testing.T) {
	p, inbox, _, start := newTestPlane(2)

	inbox.Deliver(notify.Refuel)
	inbox.Deliver(notify.Refuel)
	now := start.Add(45 * time.Second)
	assert.False(t, p.tick(now))
	assert.Equal(t, 100, p.fuel)
	assert.False(t, inbox.Pending(notify.Refuel), "both refuels observed at once")

	assert.False(t, p.tick(now.Add(59*time.Second)))
	assert.True(t, p.tick(now.Add(60*time.Second)), "depletes 60s after the refuel")
}

func TestPlane_TickBomb(t *testing.T) {
	p, inbox, out, start := newTestPlane(3)

	inbox.Deliver(notify.Bomb)
	inbox.Deliver(notify.Bomb)
	p.tick(start.Add(time.Millisecond))
	p.tick(start.Add(2 * time.Millisecond))
	assert.Equal(t, []string{"Bomber 3 to base, bombs away!"}, out.Lines())
}

func TestPlane_FlyDepleted(t *testing.T) {
	crashes := event.NewPublisher[event.Crash](memory.NewQueue[event.Event[event.Crash]](memory.DefaultConfig()))
	out := &recorder{}
	gauge := fuel.Gauge{Max: 100, BurnAmount: 25, BurnInterval: 20 * time.Millisecond, Quantum: time.Millisecond}
	p := New(9, notify.NewMailbox(), WithGauge(gauge), WithAnnouncer(out), WithCrashPublisher(crashes), WithRuntime("local"))

	outcome, err := p.Fly(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDepleted, outcome)
	assert.Contains(t, out.Lines(), "***Bomber 9 to base, 25 fuel left***")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := crashes.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NoError(t, msg.Ack())
	crash := msg.T()
	assert.Equal(t, 9, crash.Context.PlaneID)
	assert.Equal(t, event.TypeCrash, crash.Context.EventType)
	assert.LessOrEqual(t, crash.Data.Fuel, 0)
	assert.GreaterOrEqual(t, crash.Data.FlightTime, 80*time.Millisecond)
}

func TestPlane_FlyTerminated(t *testing.T) {
	crashes := event.NewPublisher[event.Crash](memory.NewQueue[event.Event[event.Crash]](memory.DefaultConfig()))
	inbox := notify.NewMailbox()
	p := New(5, inbox, WithClock(clock.NewMock()), WithCrashPublisher(crashes))

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := p.Fly(context.Background())
		done <- outcome
	}()
	inbox.Deliver(notify.Terminate)

	select {
	case outcome := <-done:
		assert.Equal(t, OutcomeTerminated, outcome)
	case <-time.After(time.Second):
		t.Fatal("terminate did not wake the plane")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	msg, _ := crashes.Consume(ctx)
	assert.Nil(t, msg, "terminated planes do not report a crash")
}

func TestPlane_FlyContextCanceled(t *testing.T) {
	p := New(6, nil, WithClock(clock.NewMock()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, err := p.Fly(ctx)
	assert.Equal(t, OutcomeTerminated, outcome)
	assert.ErrorIs(t, err, context.Canceled)
}
