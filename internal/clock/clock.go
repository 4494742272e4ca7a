// Package clock is the time source shared by planes and the supervisor.
// Planes measure burned fuel against an injected Clock so that tests can
// drive flights with a mock instead of waiting for the wall clock.
package clock

import (
	"time"

	bclock "github.com/benbjohnson/clock"
)

// Clock provides Now, Sleep, Ticker and Timer.
type Clock = bclock.Clock

// Mock is a Clock that only moves when Add or Set is called.
type Mock = bclock.Mock

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// New returns the wall clock.
func New() Clock { return bclock.New() }

// NewMock returns a mock clock set to the unix epoch.
func NewMock() *Mock { return bclock.NewMock() }

// Elapsed returns end-begin, clamped at zero when end precedes begin.
func Elapsed(begin, end time.Time) time.Duration {
	if d := end.Sub(begin); d > 0 {
		return d
	}
	return 0
}

// Seconds returns Elapsed expressed in fractional seconds.
func Seconds(begin, end time.Time) float64 {
	return Elapsed(begin, end).Seconds()
}
