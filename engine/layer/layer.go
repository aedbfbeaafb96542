// Package layer holds the layers a map view renders: one base layer followed by overlays in
// registration order.
package layer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-map/engine/symbolizer"
	"github.com/pkg/errors"
)

var (
	// ErrDuplicateLayer is returned when a layer id is already registered.
	ErrDuplicateLayer = errors.New("layer: duplicate id")
	// ErrEmptyID is returned when a layer has no id.
	ErrEmptyID = errors.New("layer: empty id")
)

// Layer is something a map view draws during a render pass.
type Layer interface {
	// ID returns the unique layer id.
	ID() string

	// Visible reports whether the layer takes part in render passes.
	Visible() bool

	// Render draws the layer for one pass.
	//
	// Parameters:
	//   - ctx: the render context, including the immutable view transform
	//   - surface: the drawing target
	//
	// Returns:
	//   - error: an error if drawing fails
	Render(ctx symbolizer.RenderContext, surface symbolizer.Surface) error
}

// Registry enumerates the layers of a view.
type Registry struct {
	mu       *sync.Mutex
	base     Layer
	overlays []Layer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{mu: &sync.Mutex{}}
}

// SetBase replaces the base layer. A nil layer removes it.
//
// Parameters:
//   - l: the base layer
//
// Returns:
//   - error: ErrEmptyID, or ErrDuplicateLayer if an overlay has the same id
func (r *Registry) SetBase(l Layer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l == nil {
		r.base = nil
		return nil
	}
	if l.ID() == "" {
		return ErrEmptyID
	}
	if r.indexOf(l.ID()) >= 0 {
		return errors.Wrap(ErrDuplicateLayer, l.ID())
	}
	r.base = l
	return nil
}

// Base returns the base layer, or nil.
func (r *Registry) Base() Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.base
}

// Add appends overlays in order.
//
// Parameters:
//   - layers: the overlays
//
// Returns:
//   - error: ErrEmptyID or ErrDuplicateLayer; layers before the failing one stay added
func (r *Registry) Add(layers ...Layer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range layers {
		if l == nil || l.ID() == "" {
			return ErrEmptyID
		}
		if r.indexOf(l.ID()) >= 0 || (r.base != nil && r.base.ID() == l.ID()) {
			return errors.Wrap(ErrDuplicateLayer, l.ID())
		}
		r.overlays = append(r.overlays, l)
	}
	return nil
}

// Remove drops an overlay or the base layer by id.
//
// Parameters:
//   - id: the layer id
//
// Returns:
//   - bool: false if no layer had the id
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.base != nil && r.base.ID() == id {
		r.base = nil
		return true
	}
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.overlays = append(r.overlays[:i], r.overlays[i+1:]...)
	return true
}

// Get returns the layer with id, or nil.
func (r *Registry) Get(id string) Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.base != nil && r.base.ID() == id {
		return r.base
	}
	if i := r.indexOf(id); i >= 0 {
		return r.overlays[i]
	}
	return nil
}

// Ordered returns the base layer followed by the overlays in registration order.
// The returned slice is a copy.
func (r *Registry) Ordered() []Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Layer, 0, len(r.overlays)+1)
	if r.base != nil {
		out = append(out, r.base)
	}
	return append(out, r.overlays...)
}

// Len returns the number of layers including the base layer.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.overlays)
	if r.base != nil {
		n++
	}
	return n
}

// indexOf finds an overlay. Caller must hold the mutex.
func (r *Registry) indexOf(id string) int {
	for i, l := range r.overlays {
		if l.ID() == id {
			return i
		}
	}
	return -1
}
