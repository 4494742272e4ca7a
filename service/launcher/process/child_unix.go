//go:build unix

package process

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/fleet/service/event"
	"github.com/viant/fleet/service/messaging"
	"github.com/viant/fleet/service/notify"
	"github.com/viant/fleet/service/plane"
	"github.com/viant/fleet/service/printer"
)

// RunChild flies one plane in the current process. Signals only raise
// notification flags; the plane loop observes them on its next tick.
func RunChild(ctx context.Context, config ChildConfig, stdout io.Writer) (plane.Outcome, error) {
	if err := config.Validate(); err != nil {
		return plane.OutcomeTerminated, err
	}
	inbox := notify.NewMailbox()
	signals := make(chan os.Signal, 8)
	signal.Notify(signals, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(signals)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case sig := <-signals:
				if kind, ok := kindOf(sig); ok {
					_ = inbox.Deliver(kind)
				}
			case <-stop:
				return
			}
		}
	}()

	events, err := event.New(messaging.VendorFS,
		event.WithNewFsQueueConfig(event.FsQueueConfig(config.EventsURL, config.MaxRetries)))
	if err != nil {
		return plane.OutcomeTerminated, err
	}
	crashes, err := event.PublisherOf[event.Crash](events)
	if err != nil {
		return plane.OutcomeTerminated, err
	}
	out := printer.New(stdout, printer.WithPrompt(config.Prompt), printer.WithReprompt(printer.RepromptAlways))
	p := plane.New(os.Getpid(), inbox,
		plane.WithGauge(config.Gauge),
		plane.WithAnnouncer(out),
		plane.WithCrashPublisher(crashes),
		plane.WithRuntime(Runtime))
	return p.Fly(ctx)
}
