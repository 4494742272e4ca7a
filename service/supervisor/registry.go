package supervisor

import (
	"fmt"

	"github.com/viant/fleet/service/launcher"
)

// Registry keeps live plane handles in launch order. It is owned by the
// supervisor loop and is not safe for concurrent use.
type Registry struct {
	handles []launcher.Handle
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends h. A dead handle with the same id is replaced; a live one is
// an error.
func (r *Registry) Add(h launcher.Handle) error {
	for i, existing := range r.handles {
		if existing.ID() != h.ID() {
			continue
		}
		if existing.Alive() {
			return fmt.Errorf("plane %d is already registered", h.ID())
		}
		r.handles = append(r.handles[:i], r.handles[i+1:]...)
		break
	}
	r.handles = append(r.handles, h)
	return nil
}

// Lookup returns the handle registered under id
func (r *Registry) Lookup(id int) (launcher.Handle, bool) {
	for _, h := range r.handles {
		if h.ID() == id {
			return h, true
		}
	}
	return nil, false
}

// IDs returns registered ids in launch order
func (r *Registry) IDs() []int {
	ret := make([]int, 0, len(r.handles))
	for _, h := range r.handles {
		ret = append(ret, h.ID())
	}
	return ret
}

// Handles returns a copy of the registered handles in launch order
func (r *Registry) Handles() []launcher.Handle {
	return append([]launcher.Handle(nil), r.handles...)
}

// Reap removes every handle whose plane has exited and returns their ids.
// It never blocks.
func (r *Registry) Reap() []int {
	var reaped []int
	kept := r.handles[:0]
	for _, h := range r.handles {
		if h.Alive() {
			kept = append(kept, h)
			continue
		}
		reaped = append(reaped, h.ID())
	}
	for i := len(kept); i < len(r.handles); i++ {
		r.handles[i] = nil
	}
	r.handles = kept
	return reaped
}
