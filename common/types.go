// package common contains the matrix math and small value types shared by the view transform pipeline.
// They are not interface-wrapped structs, just plain structs and pure functions.
package common

import (
	"github.com/paulmach/orb"
)

// Size is the pixel size of a viewport or rendering surface.
type Size struct {
	// Width is the horizontal extent in pixels.
	Width float64
	// Height is the vertical extent in pixels.
	Height float64
}

// IsEmpty reports whether either dimension is zero, negative or not a number.
//
// Returns:
//   - bool: true if the size cannot describe a viewport
func (s Size) IsEmpty() bool {
	return !(s.Width > 0) || !(s.Height > 0)
}

// Half returns the viewport center in container pixels.
//
// Returns:
//   - orb.Point: (Width/2, Height/2)
func (s Size) Half() orb.Point {
	return orb.Point{s.Width / 2, s.Height / 2}
}

// Bound returns the container-space rectangle covered by the viewport.
//
// Returns:
//   - orb.Bound: from (0, 0) to (Width, Height)
func (s Size) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{s.Width, s.Height}}
}
