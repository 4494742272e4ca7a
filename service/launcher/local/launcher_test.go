package local

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fleet/internal/clock"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/event"
	"github.com/viant/fleet/service/launcher"
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

func (r *recorder) has(line string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, candidate := range r.lines {
		if candidate == line {
			return true
		}
	}
	return false
}

func TestLauncher_TerminateAndGone(t *testing.T) {
	l := New(context.Background(), WithClock(clock.NewMock()))

	first, err := l.Launch(context.Background())
	require.NoError(t, err)
	second, err := l.Launch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID())
	assert.Equal(t, 2, second.ID())
	assert.True(t, first.Alive())

	require.NoError(t, first.Deliver(notify.Terminate))
	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatal("plane did not stop")
	}
	assert.False(t, first.Alive())
	assert.True(t, errors.Is(first.Deliver(notify.Bomb), launcher.ErrGone))
	assert.True(t, second.Alive())

	require.NoError(t, second.Deliver(notify.Terminate))
	l.Wait()
	assert.False(t, second.Alive())

	third, err := l.Launch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, third.ID(), "ids are never reused")
	require.NoError(t, third.Deliver(notify.Terminate))
	l.Wait()
}

func TestLauncher_BombAndCrash(t *testing.T) {
	out := &recorder{}
	crashes := event.NewPublisher[event.Crash](memory.NewQueue[event.Event[event.Crash]](memory.DefaultConfig()))
	gauge := fuel.Gauge{Max: 10, BurnAmount: 5, BurnInterval: 50 * time.Millisecond, Quantum: time.Millisecond}
	l := New(context.Background(), WithGauge(gauge), WithAnnouncer(out), WithCrashPublisher(crashes))

	h, err := l.Launch(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.Deliver(notify.Bomb))
	assert.Eventually(t, func() bool { return out.has("Bomber 1 to base, bombs away!") }, time.Second, time.Millisecond)

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("plane did not run out of fuel")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := crashes.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, msg)
	crash := msg.T()
	assert.Equal(t, h.ID(), crash.Context.PlaneID)
	assert.Equal(t, Runtime, crash.Context.Runtime)
}

func TestLauncher_Limit(t *testing.T) {
	l := New(context.Background(), WithClock(clock.NewMock()), WithLimit(1))
	h, err := l.Launch(context.Background())
	require.NoError(t, err)

	_, err = l.Launch(context.Background())
	assert.ErrorIs(t, err, launcher.ErrLaunch)

	require.NoError(t, h.Deliver(notify.Terminate))
	l.Wait()
	h, err = l.Launch(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.Deliver(notify.Terminate))
	l.Wait()
}

func TestLauncher_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := New(ctx, WithClock(clock.NewMock()))
	h, err := l.Launch(context.Background())
	require.NoError(t, err)
	cancel()
	l.Wait()
	assert.False(t, h.Alive())

	_, err = l.Launch(context.Background())
	assert.ErrorIs(t, err, launcher.ErrLaunch)
}
