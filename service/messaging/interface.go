// Package messaging defines the queue abstraction that carries reports from
// planes back to the supervisor.
package messaging

import (
	"context"
	"errors"
)

// Vendor represents the name of a messaging vendor
type Vendor string

const (
	// VendorMemory keeps messages in a channel; publisher and consumer must
	// share the process.
	VendorMemory Vendor = "memory"
	// VendorFS keeps messages as files; publisher and consumer may be
	// different processes.
	VendorFS Vendor = "fs"
)

var (
	// ErrQueueFull is returned by Publish when a bounded queue has no room.
	ErrQueueFull = errors.New("messaging: queue full")
	// ErrAlreadyProcessed is returned by a second Ack or Nack.
	ErrAlreadyProcessed = errors.New("messaging: message already processed")
)

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue without waiting
	// for a consumer.
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue. Vendors that cannot
	// block return (nil, nil) when nothing is pending.
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
