// Package launcher defines how the supervisor starts planes and talks to
// them. A Handle hides whether the plane is a goroutine or an OS process.
package launcher

import (
	"context"
	"errors"

	"github.com/viant/fleet/service/notify"
)

var (
	// ErrGone is returned when notifying a plane that has already exited.
	ErrGone = errors.New("launcher: plane is gone")
	// ErrLaunch wraps every failure to start a plane.
	ErrLaunch = errors.New("launcher: launch failed")
)

// Handle is the supervisor-side record of one plane.
type Handle interface {
	// ID is unique among live planes.
	ID() int
	// Alive reports, without blocking, whether the plane is still running.
	Alive() bool
	// Deliver sends a notification without waiting for the plane; it fails
	// with ErrGone once the plane has exited.
	notify.Recipient
	// Done is closed once the plane has exited.
	Done() <-chan struct{}
}

// Launcher starts planes.
type Launcher interface {
	Launch(ctx context.Context) (Handle, error)
}

// IsDone reports whether done is closed.
func IsDone(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
