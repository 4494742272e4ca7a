// Package fuel models how a plane burns fuel over time. Fuel is never
// stored and decremented; it is always recomputed from the time elapsed since
// the last refuel so that a plane that misses loop iterations still reports
// the right level.
package fuel

import (
	"fmt"
	"time"
)

// Gauge holds the burn constants shared by every plane of a fleet.
type Gauge struct {
	// Max is the fuel a plane holds after launch or refuel.
	Max int `json:"max" yaml:"max"`
	// BurnAmount is subtracted once per completed BurnInterval.
	BurnAmount int `json:"burnAmount" yaml:"burnAmount"`
	// BurnInterval is the time it takes to burn BurnAmount.
	BurnInterval time.Duration `json:"burnInterval" yaml:"burnInterval"`
	// NoticeInterval is the minimum gap between two low-fuel notices.
	NoticeInterval time.Duration `json:"noticeInterval" yaml:"noticeInterval"`
	// Quantum is the plane loop period.
	Quantum time.Duration `json:"quantum" yaml:"quantum"`
}

// DefaultGauge returns the reference constants: 100 units, 5 units every 3s,
// a notice at most every 9s, polled every millisecond.
func DefaultGauge() Gauge {
	return Gauge{
		Max:            100,
		BurnAmount:     5,
		BurnInterval:   3 * time.Second,
		NoticeInterval: 9 * time.Second,
		Quantum:        time.Millisecond,
	}
}

// Validate reports the first invalid constant.
func (g Gauge) Validate() error {
	switch {
	case g.Max <= 0:
		return fmt.Errorf("fuel.max must be > 0, got %d", g.Max)
	case g.BurnAmount <= 0:
		return fmt.Errorf("fuel.burnAmount must be > 0, got %d", g.BurnAmount)
	case g.BurnInterval <= 0:
		return fmt.Errorf("fuel.burnInterval must be > 0, got %s", g.BurnInterval)
	case g.NoticeInterval < 0:
		return fmt.Errorf("fuel.noticeInterval must be >= 0, got %s", g.NoticeInterval)
	case g.Quantum <= 0:
		return fmt.Errorf("fuel.quantum must be > 0, got %s", g.Quantum)
	}
	return nil
}

// Level returns the fuel left after elapsed time since the last refuel:
// Max - floor(elapsed/BurnInterval)*BurnAmount. The result may be negative;
// any value <= 0 means the plane is out of fuel.
func (g Gauge) Level(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	return g.Max - int(elapsed/g.BurnInterval)*g.BurnAmount
}

// Empty reports whether level means the plane is out of fuel.
func (g Gauge) Empty(level int) bool {
	return level <= 0
}

// Low reports whether level is below half of Max.
func (g Gauge) Low(level int) bool {
	return level*2 < g.Max
}

// ShouldNotice reports whether a low-fuel notice is due: fuel below half,
// strictly more than NoticeInterval since the previous notice and not yet
// empty.
func (g Gauge) ShouldNotice(level int, sinceNotice time.Duration) bool {
	return g.Low(level) && sinceNotice > g.NoticeInterval && !g.Empty(level)
}
