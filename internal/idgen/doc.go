// Package idgen hands out identifiers: UUID strings for events and queue
// messages, and small monotonic integers for in-process planes. Callers
// treat both as opaque.
package idgen
