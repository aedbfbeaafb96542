package symbolizer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// Style is the appearance of a point symbol.
type Style struct {
	// Placement selects the anchors along the feature.
	Placement Placement
	// Rotation is a base rotation in degrees, clockwise on screen.
	Rotation float64
	// Width and Height are the marker size in pixels.
	Width, Height float64
	// Dx and Dy offset the marker in pixels after projection.
	Dx, Dy float64
}

// PointSymbolizer draws a marker at each render point of a feature.
type PointSymbolizer struct {
	Feature Feature
	Style   Style

	renderPoints []RenderPoint
}

// NewPointSymbolizer resolves the feature's render points for style.
//
// Parameters:
//   - f: the feature
//   - style: the marker style
//
// Returns:
//   - *PointSymbolizer: the symbolizer
func NewPointSymbolizer(f Feature, style Style) *PointSymbolizer {
	return &PointSymbolizer{
		Feature:      f,
		Style:        style,
		renderPoints: f.RenderPoints(style.Placement),
	}
}

// RenderPoints returns the map-space anchors.
func (s *PointSymbolizer) RenderPoints() []RenderPoint {
	return s.renderPoints
}

// Extent returns the container-space box covering every marker, for culling.
// Render points are projected from the feature's own zoom and the box is grown by the
// marker size and offset.
//
// Parameters:
//   - ctx: the render context
//
// Returns:
//   - orb.Bound: the extent
//   - bool: false when the feature has no render points
func (s *PointSymbolizer) Extent(ctx RenderContext) (orb.Bound, bool) {
	if len(s.renderPoints) == 0 {
		return orb.Bound{}, false
	}

	var b orb.Bound
	for i, rp := range s.renderPoints {
		cp := ctx.Snapshot.ContainerPointAtZoom(rp.Point, s.Feature.Zoom)
		if i == 0 {
			b = cp.Bound()
		} else {
			b = b.Extend(cp)
		}
	}

	hw, hh := s.Style.Width/2, s.Style.Height/2
	return orb.Bound{
		Min: orb.Point{b.Min.X() - hw + min(s.Style.Dx, 0), b.Min.Y() - hh + min(s.Style.Dy, 0)},
		Max: orb.Point{b.Max.X() + hw + max(s.Style.Dx, 0), b.Max.Y() + hh + max(s.Style.Dy, 0)},
	}, true
}

// ContainerPoints returns where each marker is drawn on the surface: the projected render
// point plus the style offset, relative to the surface's top-left corner. Sprite contexts
// get the render points unchanged.
//
// Parameters:
//   - ctx: the render context
//
// Returns:
//   - []orb.Point: one point per render point
func (s *PointSymbolizer) ContainerPoints(ctx RenderContext) []orb.Point {
	out := make([]orb.Point, len(s.renderPoints))
	if ctx.Sprite {
		for i, rp := range s.renderPoints {
			out[i] = rp.Point
		}
		return out
	}

	for i, rp := range s.renderPoints {
		cp := ctx.Snapshot.ContainerPointAtZoom(rp.Point, s.Feature.Zoom)
		out[i] = orb.Point{
			cp.X() + s.Style.Dx - ctx.ContainerOffset.X(),
			cp.Y() + s.Style.Dy - ctx.ContainerOffset.Y(),
		}
	}
	return out
}

// RotationAt returns the rotation of the i-th marker: the base rotation plus the screen
// direction of its reference points. Reference points are projected first when the view
// is tilted or rotated, so the angle follows the perspective on screen.
//
// Parameters:
//   - ctx: the render context
//   - i: render point index
//
// Returns:
//   - float64: radians, clockwise on screen
func (s *PointSymbolizer) RotationAt(ctx RenderContext, i int) float64 {
	r := mgl64.DegToRad(s.Style.Rotation)
	if i < 0 || i >= len(s.renderPoints) || !s.renderPoints[i].HasDirection {
		return r
	}

	p0, p1 := s.renderPoints[i].From, s.renderPoints[i].To
	if !ctx.Snapshot.IsFlat() {
		p0 = ctx.Snapshot.ContainerPointAtZoom(p0, s.Feature.Zoom)
		p1 = ctx.Snapshot.ContainerPointAtZoom(p1, s.Feature.Zoom)
	}
	return r + math.Atan2(p1.Y()-p0.Y(), p1.X()-p0.X())
}

// Rotations returns RotationAt for every render point.
func (s *PointSymbolizer) Rotations(ctx RenderContext) []float64 {
	out := make([]float64, len(s.renderPoints))
	for i := range s.renderPoints {
		out[i] = s.RotationAt(ctx, i)
	}
	return out
}

// Prepare computes the drawing instructions of one pass.
func (s *PointSymbolizer) Prepare(ctx RenderContext) Prepared {
	extent, ok := s.Extent(ctx)
	return Prepared{
		Symbolizer: s,
		Extent:     extent,
		HasExtent:  ok,
		Points:     s.ContainerPoints(ctx),
		Rotations:  s.Rotations(ctx),
	}
}

// Symbolize draws every marker onto surface.
func (s *PointSymbolizer) Symbolize(surface Surface, ctx RenderContext) {
	s.Prepare(ctx).Draw(surface)
}

// Prepared holds container-space drawing instructions for one symbolizer and one pass.
type Prepared struct {
	Symbolizer *PointSymbolizer
	// Extent is the container-space box of every marker; valid when HasExtent is set.
	Extent    orb.Bound
	HasExtent bool
	Points    []orb.Point
	Rotations []float64
}

// Draw draws the prepared markers, each rotation scoped to its own marker.
func (p Prepared) Draw(surface Surface) {
	w, h := p.Symbolizer.Style.Width, p.Symbolizer.Style.Height
	for i, pt := range p.Points {
		func() {
			local, restore := Rotate(surface, pt, p.Rotations[i])
			defer restore()
			surface.DrawMarker(local.X(), local.Y(), w, h)
		}()
	}
}
