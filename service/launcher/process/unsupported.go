//go:build !unix

package process

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/viant/fleet/service/launcher"
	"github.com/viant/fleet/service/plane"
)

var errUnsupported = errors.New("process runtime requires a unix platform")

// Launch always fails on this platform.
func (l *Launcher) Launch(ctx context.Context) (launcher.Handle, error) {
	return nil, fmt.Errorf("%w: %v", launcher.ErrLaunch, errUnsupported)
}

// RunChild always fails on this platform.
func RunChild(ctx context.Context, config ChildConfig, stdout io.Writer) (plane.Outcome, error) {
	return plane.OutcomeTerminated, errUnsupported
}

func shieldNotifications() {}
