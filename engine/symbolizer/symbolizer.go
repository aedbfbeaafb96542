// Package symbolizer turns features into screen-space drawing instructions using the
// view transform: container points, screen extents and per-point rotations.
package symbolizer

import (
	"github.com/Carmen-Shannon/oxy-map/engine/projector"
	"github.com/paulmach/orb"
)

// Surface is the drawing target of a symbolizer. renderer.Renderer implements it.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	DrawMarker(x, y, width, height float64)
}

// RenderContext carries everything a symbolizer reads during one render pass.
type RenderContext struct {
	// Snapshot is the view transform of the pass.
	Snapshot projector.Snapshot
	// ContainerOffset is the container position of the drawing surface's top-left corner.
	ContainerOffset orb.Point
	// Sprite is true when drawing into an isolated sprite buffer. Render points are then
	// used as-is, without projection or container offset.
	Sprite bool
}

// Rotate scopes a rotation about origin on s.
// With a non-zero rotation it saves s, moves the origin there and rotates; drawing should
// then happen around the returned local origin (0, 0). With zero rotation s is untouched and
// origin is returned. The caller must call restore on every path, typically with defer.
//
// Parameters:
//   - s: the drawing surface
//   - origin: rotation center in surface coordinates
//   - rotation: radians, clockwise on screen
//
// Returns:
//   - orb.Point: where to draw
//   - func(): restores s
func Rotate(s Surface, origin orb.Point, rotation float64) (local orb.Point, restore func()) {
	if rotation == 0 {
		return origin, func() {}
	}
	s.Save()
	s.Translate(origin.X(), origin.Y())
	s.Rotate(rotation)
	return orb.Point{0, 0}, s.Restore
}
