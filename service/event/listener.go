package event

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/viant/fleet/service/messaging"
)

// Handler processes one event; an error hands the event back to the queue
// for another attempt.
type Handler[T any] func(*Event[T]) error

// Listener drains a publisher on its own goroutine and hands every event
// to handler.
type Listener[T any] struct {
	publisher    *Publisher[T]
	handler      Handler[T]
	pollInterval time.Duration
	cancel       context.CancelFunc
	done         chan struct{}
	once         sync.Once
}

func NewListener[T any](publisher *Publisher[T], handler Handler[T], pollInterval time.Duration) *Listener[T] {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Listener[T]{
		publisher:    publisher,
		handler:      handler,
		pollInterval: pollInterval,
		done:         make(chan struct{}),
	}
}

// Stop cancels the listener and waits for the in-flight handler to return.
func (l *Listener[T]) Stop() {
	l.once.Do(func() {
		if l.cancel == nil {
			close(l.done)
			return
		}
		l.cancel()
	})
	<-l.done
}

func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		defer close(l.done)
		for {
			msg, err := l.publisher.Consume(ctx)
			if ctx.Err() != nil {
				if msg != nil {
					_ = msg.Nack(ctx.Err())
				}
				return
			}
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("error consuming event")
			}
			if msg == nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.pollInterval):
				}
				continue
			}
			l.dispatch(ctx, msg)
		}
	}()
}

func (l *Listener[T]) dispatch(ctx context.Context, msg messaging.Message[Event[T]]) {
	event := msg.T()
	if err := l.handler(event); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("event", event.ID).Msg("event handler failed")
		if err = msg.Nack(err); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("event", event.ID).Msg("failed to return event")
		}
		return
	}
	if err := msg.Ack(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event", event.ID).Msg("failed to acknowledge event")
	}
}
