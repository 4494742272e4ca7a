package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fleet/service/messaging"
)

type TestPayload struct {
	PlaneID int
	Message string
}

func TestQueue(t *testing.T) {
	queue := NewQueue[TestPayload](DefaultConfig())
	ctx := context.Background()
	payload := TestPayload{PlaneID: 7, Message: "SOS"}

	err := queue.Publish(ctx, &payload)
	assert.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.ErrorIs(t, message.Ack(), messaging.ErrAlreadyProcessed)
	assert.ErrorIs(t, message.Nack(nil), messaging.ErrAlreadyProcessed)
}

func TestQueue_Full(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 2
	queue := NewQueue[TestPayload](config)
	ctx := context.Background()

	assert.NoError(t, queue.Publish(ctx, &TestPayload{PlaneID: 1}))
	assert.NoError(t, queue.Publish(ctx, &TestPayload{PlaneID: 2}))
	assert.ErrorIs(t, queue.Publish(ctx, &TestPayload{PlaneID: 3}), messaging.ErrQueueFull)
	assert.Equal(t, 2, queue.Size())
}

func TestQueue_Retries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[TestPayload](config)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &TestPayload{PlaneID: 9}))

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
		message, err := queue.Consume(consumeCtx)
		cancel()
		require.NoError(t, err, "attempt %d", attempt)
		assert.Equal(t, 9, message.T().PlaneID)
		assert.NoError(t, message.Nack(fmt.Errorf("attempt %d", attempt)))
	}

	assert.Eventually(t, func() bool { return queue.Dropped() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_Concurrency(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 128
	queue := NewQueue[TestPayload](config)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	producers, perProducer := 8, 10
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(producer int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				assert.NoError(t, queue.Publish(ctx, &TestPayload{PlaneID: producer*100 + j}))
			}
		}(i)
	}

	seen := make(map[int]bool)
	for len(seen) < producers*perProducer {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		seen[message.T().PlaneID] = true
		assert.NoError(t, message.Ack())
	}
	wg.Wait()
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_ContextCancellation(t *testing.T) {
	queue := NewQueue[TestPayload](DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, queue.Publish(ctx, &TestPayload{PlaneID: 1}))

	timeoutCtx, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(timeoutCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.NoError(t, queue.Publish(context.Background(), &TestPayload{PlaneID: 2}))
	message, err := queue.Consume(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, message)
}
