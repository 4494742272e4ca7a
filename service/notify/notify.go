// Package notify carries supervisor-to-plane notifications. Delivery only
// raises a pending bit; the plane observes and clears it on its next poll,
// so several notifications of the same kind sent between two polls collapse
// into one. Nothing is queued and nothing is acknowledged.
package notify

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Kind is a notification kind.
type Kind uint32

const (
	// Refuel resets the recipient's fuel to the maximum.
	Refuel Kind = 1 << iota
	// Bomb asks the recipient to report a bomb drop.
	Bomb
	// Terminate stops the recipient immediately, without a crash report.
	Terminate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Refuel:
		return "refuel"
	case Bomb:
		return "bomb"
	case Terminate:
		return "terminate"
	}
	return "unknown"
}

// Flags holds one pending bit per kind. The zero value is ready to use.
type Flags struct {
	bits atomic.Uint32
}

// Raise marks kind as pending.
func (f *Flags) Raise(kind Kind) {
	f.bits.Or(uint32(kind))
}

// Take reports whether kind was pending and clears it.
func (f *Flags) Take(kind Kind) bool {
	return f.bits.And(^uint32(kind))&uint32(kind) != 0
}

// Pending reports whether kind is pending without clearing it.
func (f *Flags) Pending(kind Kind) bool {
	return f.bits.Load()&uint32(kind) != 0
}

// ErrNoRecipient is returned by Send for a nil recipient.
var ErrNoRecipient = errors.New("notify: no recipient")

// Recipient accepts notifications.
type Recipient interface {
	Deliver(kind Kind) error
}

// Send delivers kind to r.
func Send(r Recipient, kind Kind) error {
	if r == nil {
		return ErrNoRecipient
	}
	return r.Deliver(kind)
}

// Mailbox is the receiving end owned by one plane.
type Mailbox struct {
	Flags
	once sync.Once
	done chan struct{}
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{done: make(chan struct{})}
}

// Deliver raises the flag for kind. Terminate also closes Done, exactly once.
// It never fails.
func (m *Mailbox) Deliver(kind Kind) error {
	m.Raise(kind)
	if kind == Terminate {
		m.once.Do(func() { close(m.done) })
	}
	return nil
}

// Done is closed once Terminate has been delivered.
func (m *Mailbox) Done() <-chan struct{} {
	return m.done
}

// Terminated reports whether Terminate has been delivered.
func (m *Mailbox) Terminated() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

var _ Recipient = (*Mailbox)(nil)
