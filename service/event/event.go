package event

import (
	"time"

	"github.com/viant/fleet/internal/idgen"
)

// Context identifies the plane that produced an event.
type Context struct {
	PlaneID   int    `json:"planeID"`
	EventType string `json:"eventType"`
	Runtime   string `json:"runtime,omitempty"`
}

// Event wraps a typed payload travelling from a plane to the supervisor
type Event[T any] struct {
	ID        string                 `json:"id"`
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event stamped with the current time
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		ID:        idgen.New(),
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// TypeCrash marks a crash report
const TypeCrash = "crash"

// Crash is the payload a plane publishes once when its fuel runs out.
type Crash struct {
	FlightTime time.Duration `json:"flightTime"`
	Fuel       int           `json:"fuel"`
}
