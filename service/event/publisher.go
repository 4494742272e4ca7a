package event

import (
	"context"
	"time"

	"github.com/viant/fleet/service/messaging"
	"github.com/viant/fleet/service/messaging/fs"
	"github.com/viant/fleet/service/messaging/memory"
)

type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// Stats describes the backlog of a publisher's queue.
type Stats struct {
	// Pending counts events waiting for a consumer.
	Pending int
	// Undelivered counts events given up on after exhausting retries.
	Undelivered int
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return p.queue.Publish(ctx, event)
}

// Consume returns the next message, or (nil, nil) when the underlying queue
// has nothing pending. The caller must Ack or Nack it.
func (p *Publisher[T]) Consume(ctx context.Context) (messaging.Message[Event[T]], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	return msg, nil
}

// Stats reports the queue backlog.
func (p *Publisher[T]) Stats(ctx context.Context) (Stats, error) {
	switch queue := p.queue.(type) {
	case *memory.Queue[Event[T]]:
		return Stats{Pending: queue.Size(), Undelivered: queue.Dropped()}, nil
	case *fs.Queue[Event[T]]:
		var ret Stats
		var err error
		if ret.Pending, err = queue.Pending(ctx); err != nil {
			return ret, err
		}
		ret.Undelivered, err = queue.Dead(ctx)
		return ret, err
	}
	return Stats{}, nil
}
