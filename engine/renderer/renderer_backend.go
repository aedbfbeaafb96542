package renderer

import "github.com/fogleman/gg"

// RendererBackendType identifies the drawing backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeRaster selects the anti-aliased image backend. It supports rotated drawing.
	BackendTypeRaster RendererBackendType = iota

	// BackendTypeTerminal selects the character-cell backend. Glyphs cannot be rotated,
	// so it cannot display a rotated or tilted view.
	BackendTypeTerminal
)

// String returns the configuration name of the backend type.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeTerminal:
		return "terminal"
	default:
		return "raster"
	}
}

// ParseBackendType resolves a configuration name into a RendererBackendType.
//
// Parameters:
//   - name: "raster" or "terminal"
//
// Returns:
//   - RendererBackendType: the matching type
//   - bool: false if the name is unknown
func ParseBackendType(name string) (RendererBackendType, bool) {
	switch name {
	case "raster", "":
		return BackendTypeRaster, true
	case "terminal":
		return BackendTypeTerminal, true
	}
	return BackendTypeRaster, false
}

// Capabilities describes what a backend can draw.
type Capabilities struct {
	// Rotation is true when drawing can be rotated about an arbitrary origin,
	// which tilting and rotating the view relies on.
	Rotation bool
}

// RendererBackend is the backend interface for the Renderer.
// Transform calls compose the same way as gg.Context: each call post-multiplies the current transform.
type RendererBackend interface {
	Capabilities() Capabilities
	Configure(width, height int)
	Size() (int, int)
	Clear()
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(angle float64)
	DrawMarker(x, y, width, height float64)
	DrawLine(x0, y0, x1, y1 float64)
	Present() error
}

// transformStack tracks a gg.Matrix with push/pop for backends that position glyphs themselves.
type transformStack struct {
	current gg.Matrix
	saved   []gg.Matrix
}

func newTransformStack() transformStack {
	return transformStack{current: gg.Identity()}
}

func (s *transformStack) push() {
	s.saved = append(s.saved, s.current)
}

func (s *transformStack) pop() {
	if len(s.saved) == 0 {
		return
	}
	s.current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

func (s *transformStack) reset() {
	s.current = gg.Identity()
	s.saved = s.saved[:0]
}
