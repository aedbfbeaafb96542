// Package events is the change-notification sink of a map view.
package events

import (
	"sort"
	"sync"
)

// Type names an event.
type Type string

const (
	// TypeFov fires after the field of view changes. From/To are in fov units.
	TypeFov Type = "fovchange"
	// TypePitch fires after the pitch changes. From/To are degrees.
	TypePitch Type = "pitch"
	// TypeRotate fires after the bearing changes. From/To are degrees.
	TypeRotate Type = "rotate"
	// TypeResize fires after the viewport changes. From/To are heights, Width/Height the new size.
	TypeResize Type = "resize"
	// TypeZoom fires after the zoom changes. From/To are zoom levels.
	TypeZoom Type = "zoom"
	// TypeMove fires after the center changes.
	TypeMove Type = "move"
)

// Event is a change notification.
type Event struct {
	Type Type
	From float64
	To   float64

	// Width and Height are set for TypeResize.
	Width  float64
	Height float64
}

// Handler receives events.
type Handler func(Event)

type emitterImpl struct {
	mu       *sync.Mutex
	nextID   uint64
	handlers map[Type]map[uint64]Handler
}

// Emitter registers handlers and fires events to them.
type Emitter interface {
	// On registers h for events of type t.
	//
	// Parameters:
	//   - t: the event type
	//   - h: the handler
	//
	// Returns:
	//   - uint64: id to pass to Off
	On(t Type, h Handler) uint64

	// Off removes a handler registered with On. Unknown ids are ignored.
	//
	// Parameters:
	//   - t: the event type
	//   - id: the id returned by On
	Off(t Type, id uint64)

	// Fire calls every handler registered for e.Type synchronously, in registration order.
	//
	// Parameters:
	//   - e: the event
	Fire(e Event)

	// Count returns the number of handlers registered for t.
	//
	// Parameters:
	//   - t: the event type
	//
	// Returns:
	//   - int: number of handlers
	Count(t Type) int
}

var _ Emitter = &emitterImpl{}

// NewEmitter creates an empty Emitter.
//
// Returns:
//   - Emitter: the emitter
func NewEmitter() Emitter {
	return &emitterImpl{
		mu:       &sync.Mutex{},
		handlers: make(map[Type]map[uint64]Handler),
	}
}

func (e *emitterImpl) On(t Type, h Handler) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	if e.handlers[t] == nil {
		e.handlers[t] = make(map[uint64]Handler)
	}
	e.handlers[t][e.nextID] = h
	return e.nextID
}

func (e *emitterImpl) Off(t Type, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handlers[t], id)
}

func (e *emitterImpl) Fire(ev Event) {
	// handlers run outside the lock so they may register or remove handlers
	e.mu.Lock()
	ids := make([]uint64, 0, len(e.handlers[ev.Type]))
	for id := range e.handlers[ev.Type] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	hs := make([]Handler, len(ids))
	for i, id := range ids {
		hs[i] = e.handlers[ev.Type][id]
	}
	e.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}

func (e *emitterImpl) Count(t Type) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers[t])
}
