package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/fleet/internal/idgen"
	"github.com/viant/fleet/service/messaging"
)

// MessageState represents the state of a message in the filesystem queue
type MessageState string

const (
	// MessageStatePending indicates a message is waiting to be consumed
	MessageStatePending MessageState = "pending"
	// MessageStateProcessing indicates a message was handed to a consumer
	MessageStateProcessing MessageState = "processing"
	// MessageStateFailed indicates a message was nacked and waits for retry
	MessageStateFailed MessageState = "failed"
	// MessageStateDead indicates a message exhausted its retries
	MessageStateDead MessageState = "dead"
)

const (
	messageExt = ".json"
	partialExt = ".partial"
)

// Message implements messaging.Message for the filesystem queue
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	name      string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack removes the message from the queue.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return messaging.ErrAlreadyProcessed
	}
	m.processed = true
	return m.queue.remove(context.Background(), path.Join(m.queue.processingURL, m.name))
}

// Nack parks the message for another attempt, or buries it once MaxRetries
// is exceeded.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return messaging.ErrAlreadyProcessed
	}
	m.processed = true
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()
	return m.queue.park(context.Background(), m)
}

// Config holds configuration for filesystem queue
type Config struct {
	// BaseURL is the queue root; pending, processing, failed and dead
	// directories are created below it.
	BaseURL string
	// MaxRetries is the number of nacks a message survives.
	MaxRetries int
}

// DefaultConfig returns a default queue configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:    "/tmp/fleet/queue",
		MaxRetries: 3,
	}
}

// Queue implements a filesystem-based messaging.Queue. Messages are written
// under a partial name and renamed into place, so a consumer in another
// process never reads a half-written file.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingURL    string
	processingURL string
	failedURL     string
	deadURL       string
	mu            sync.Mutex
}

// NewQueue creates the queue directories when missing.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingURL:    path.Join(config.BaseURL, "pending"),
		processingURL: path.Join(config.BaseURL, "processing"),
		failedURL:     path.Join(config.BaseURL, "failed"),
		deadURL:       path.Join(config.BaseURL, "dead"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingURL, q.processingURL, q.failedURL, q.deadURL} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes a new pending message.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()
	message := &Message[T]{
		ID:        idgen.New(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	name := fmt.Sprintf("%020d-%s", now.UnixNano(), message.ID)
	partial := path.Join(q.pendingURL, name+partialExt)
	if err = q.fs.Upload(ctx, partial, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write message %s: %w", message.ID, err)
	}
	if err = q.fs.Move(ctx, partial, path.Join(q.pendingURL, name+messageExt)); err != nil {
		return fmt.Errorf("failed to commit message %s: %w", message.ID, err)
	}
	return nil
}

// Consume claims the oldest pending message, falling back to failed ones.
// It does not block: (nil, nil) means the queue is empty.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, dir := range []string{q.pendingURL, q.failedURL} {
		message, err := q.claim(ctx, dir)
		if err != nil {
			return nil, err
		}
		if message != nil {
			return message, nil
		}
	}
	return nil, nil
}

// Pending returns the number of messages waiting in the pending directory.
func (q *Queue[T]) Pending(ctx context.Context) (int, error) {
	objects, err := q.list(ctx, q.pendingURL)
	return len(objects), err
}

// Dead returns the number of messages that exhausted their retries.
func (q *Queue[T]) Dead(ctx context.Context) (int, error) {
	objects, err := q.list(ctx, q.deadURL)
	return len(objects), err
}

func (q *Queue[T]) claim(ctx context.Context, dir string) (*Message[T], error) {
	objects, err := q.list(ctx, dir)
	if err != nil || len(objects) == 0 {
		return nil, err
	}
	obj := objects[0]
	processing := path.Join(q.processingURL, obj.Name())
	if err = q.fs.Move(ctx, obj.URL(), processing); err != nil {
		return nil, fmt.Errorf("failed to claim message %s: %w", obj.Name(), err)
	}
	data, err := q.fs.DownloadWithURL(ctx, processing)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", obj.Name(), err)
	}
	message := &Message[T]{}
	if err = json.Unmarshal(data, message); err != nil {
		_ = q.fs.Move(ctx, processing, path.Join(q.deadURL, obj.Name()))
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", obj.Name(), err)
	}
	message.name = obj.Name()
	message.queue = q
	message.State = MessageStateProcessing
	message.UpdatedAt = time.Now()
	return message, nil
}

// list returns committed message files in dir, oldest first.
func (q *Queue[T]) list(ctx context.Context, dir string) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var result []storage.Object
	for _, obj := range objects {
		if !obj.IsDir() && strings.HasSuffix(obj.Name(), messageExt) {
			result = append(result, obj)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

func (q *Queue[T]) park(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	dir := q.failedURL
	m.State = MessageStateFailed
	if m.Retries > q.config.MaxRetries {
		dir = q.deadURL
		m.State = MessageStateDead
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message %s: %w", m.ID, err)
	}
	if err = q.fs.Upload(ctx, path.Join(dir, m.name), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to park message %s: %w", m.ID, err)
	}
	return q.remove(ctx, path.Join(q.processingURL, m.name))
}

func (q *Queue[T]) remove(ctx context.Context, URL string) error {
	if exists, _ := q.fs.Exists(ctx, URL); !exists {
		return nil
	}
	if err := q.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete %s: %w", URL, err)
	}
	return nil
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
