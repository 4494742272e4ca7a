package fs

import (
	"context"
	"errors"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/fleet/service/messaging"
)

type crashPayload struct {
	PlaneID int    `json:"planeId"`
	Note    string `json:"note"`
}

func TestQueue(t *testing.T) {
	ctx := context.Background()
	queue, err := NewQueue[crashPayload](afs.New(), Config{BaseURL: t.TempDir(), MaxRetries: 2})
	require.NoError(t, err)

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Nil(t, message, "empty queue should not block")

	for i := 1; i <= 3; i++ {
		require.NoError(t, queue.Publish(ctx, &crashPayload{PlaneID: i}))
	}
	pending, err := queue.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)

	for i := 1; i <= 3; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, i, message.T().PlaneID, "messages are consumed oldest first")
		assert.NoError(t, message.Ack())
		assert.ErrorIs(t, message.Ack(), messaging.ErrAlreadyProcessed)
	}

	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	assert.Nil(t, message)
}

func TestQueue_Retries(t *testing.T) {
	ctx := context.Background()
	queue, err := NewQueue[crashPayload](afs.New(), Config{BaseURL: t.TempDir(), MaxRetries: 2})
	require.NoError(t, err)
	require.NoError(t, queue.Publish(ctx, &crashPayload{PlaneID: 7, Note: "retry"}))

	for attempt := 0; attempt < 3; attempt++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		require.NotNil(t, message, "attempt %d", attempt)
		assert.Equal(t, 7, message.T().PlaneID)
		assert.Equal(t, "retry", message.T().Note)
		require.NoError(t, message.Nack(errors.New("boom")))
	}

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Nil(t, message, "message should be dead after exceeding retries")

	dead, err := queue.Dead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dead)
}

func TestQueue_SharedDirectory(t *testing.T) {
	ctx := context.Background()
	baseURL := t.TempDir()
	producer, err := NewQueue[crashPayload](afs.New(), Config{BaseURL: baseURL, MaxRetries: 1})
	require.NoError(t, err)
	consumer, err := NewQueue[crashPayload](afs.New(), Config{BaseURL: baseURL, MaxRetries: 1})
	require.NoError(t, err)

	require.NoError(t, producer.Publish(ctx, &crashPayload{PlaneID: 42}))
	message, err := consumer.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, 42, message.T().PlaneID)
	assert.NoError(t, message.Ack())
}

func TestNewQueue(t *testing.T) {
	_, err := NewQueue[crashPayload](afs.New(), Config{})
	assert.Error(t, err, "empty base URL")

	baseURL := path.Join(t.TempDir(), "nested", "queue")
	queue, err := NewQueue[crashPayload](afs.New(), Config{BaseURL: baseURL, MaxRetries: 1})
	require.NoError(t, err)
	assert.NotNil(t, queue)
	exists, err := afs.New().Exists(context.Background(), path.Join(baseURL, "pending"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestQueue_CanceledContext(t *testing.T) {
	queue, err := NewQueue[crashPayload](afs.New(), Config{BaseURL: t.TempDir()})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, queue.Publish(ctx, &crashPayload{PlaneID: 1}))
	_, err = queue.Consume(ctx)
	assert.Error(t, err)
}
