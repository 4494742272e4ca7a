//go:build unix

package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/viant/fleet/service/launcher"
	"github.com/viant/fleet/service/notify"
)

// Launch starts a child process. The child gets no stdin so that it never
// competes with the supervisor for operator input.
func (l *Launcher) Launch(ctx context.Context) (launcher.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", launcher.ErrLaunch, err)
	}
	cmd := exec.Command(l.executable, l.args...)
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	cmd.Env = append(os.Environ(), l.env...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", launcher.ErrLaunch, err)
	}
	h := &handle{
		id:      cmd.Process.Pid,
		process: cmd.Process,
		done:    make(chan struct{}),
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(h.done)
		err := cmd.Wait()
		log.Debug().Int("plane", h.id).Err(err).Msg("plane process exited")
	}()
	return h, nil
}

type handle struct {
	id      int
	process *os.Process
	done    chan struct{}
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
	sig, ok := signalOf(kind)
	if !ok {
		return fmt.Errorf("unsupported notification: %v", kind)
	}
	if err := h.process.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("%w: plane %d", launcher.ErrGone, h.id)
		}
		return fmt.Errorf("failed to signal plane %d: %w", h.id, err)
	}
	return nil
}

func (h *handle) Done() <-chan struct{} {
	return h.done
}

func signalOf(kind notify.Kind) (syscall.Signal, bool) {
	switch kind {
	case notify.Bomb:
		return syscall.SIGUSR1, true
	case notify.Refuel:
		return syscall.SIGUSR2, true
	case notify.Terminate:
		return syscall.SIGTERM, true
	}
	return 0, false
}

func kindOf(sig os.Signal) (notify.Kind, bool) {
	switch sig {
	case syscall.SIGUSR1:
		return notify.Bomb, true
	case syscall.SIGUSR2:
		return notify.Refuel, true
	case syscall.SIGTERM, syscall.SIGINT:
		return notify.Terminate, true
	}
	return 0, false
}

// shieldNotifications ignores the bomb and refuel signals in the supervisor.
// Children inherit ignored dispositions across exec, so a notification that
// arrives before the child installs its handlers is dropped instead of
// killing it.
func shieldNotifications() {
	signal.Ignore(syscall.SIGUSR1, syscall.SIGUSR2)
}
