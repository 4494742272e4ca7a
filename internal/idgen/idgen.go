package idgen

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier. Stub it in tests.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as string.
func New() string { return NewFunc() }

// Sequence issues increasing integer identifiers; it never reuses a value.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a sequence whose first Next value is start.
func NewSequence(start int) *Sequence {
	ret := &Sequence{}
	ret.last.Store(int64(start) - 1)
	return ret
}

// Next returns the next identifier. It is safe for concurrent use.
func (s *Sequence) Next() int {
	return int(s.last.Add(1))
}
