package projector

import (
	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// ContainerPoint maps a map-space point at the current zoom to container pixels.
//
// Parameters:
//   - p: the map-space point
//
// Returns:
//   - orb.Point: the container pixel coordinate
func (s Snapshot) ContainerPoint(p orb.Point) orb.Point {
	if s.perspective != nil {
		x, y, _, _ := common.ProjectPoint(s.perspective.PixelMatrix, p.X(), p.Y(), 0)
		return orb.Point{x, y}
	}
	half := s.size.Half()
	return orb.Point{p.X() - s.center.X() + half.X(), p.Y() - s.center.Y() + half.Y()}
}

// ContainerPointAtZoom maps a map-space point given at zoom to container pixels.
//
// Parameters:
//   - p: the map-space point
//   - zoom: the zoom p is expressed at
//
// Returns:
//   - orb.Point: the container pixel coordinate
func (s Snapshot) ContainerPointAtZoom(p orb.Point, zoom float64) orb.Point {
	return s.ContainerPoint(s.toCurrentZoom(p, zoom))
}

// Point maps a container pixel back to the map-space point at the current zoom.
//
// Parameters:
//   - cp: the container pixel coordinate
//
// Returns:
//   - orb.Point: the map-space point on the ground plane
func (s Snapshot) Point(cp orb.Point) orb.Point {
	return s.PointAtZoom(cp, s.zoom)
}

// PointAtZoom maps a container pixel back to a map-space point at zoom.
// In perspective mode the pixel is unprojected at device depths 0 and 1 and the
// resulting ray is intersected with the ground plane z = 0.
//
// Parameters:
//   - cp: the container pixel coordinate
//   - zoom: the zoom of the returned point
//
// Returns:
//   - orb.Point: the map-space point
func (s Snapshot) PointAtZoom(cp orb.Point, zoom float64) orb.Point {
	if s.perspective != nil {
		return s.rescale(s.unproject(cp), s.zoom, zoom)
	}

	scale := 1.0
	if s.resolver != nil && zoom != s.zoom {
		scale = s.resolver.Resolution(s.zoom) / s.resolver.Resolution(zoom)
	}
	center := s.rescale(s.center, s.zoom, zoom)
	half := s.size.Half()
	return orb.Point{
		center.X() + scale*(cp.X()-half.X()),
		center.Y() + scale*(cp.Y()-half.Y()),
	}
}

// unproject intersects the ray under a container pixel with the ground plane.
func (s Snapshot) unproject(cp orb.Point) orb.Point {
	inv := s.perspective.PixelMatrixInverse
	c0 := common.TransformVec4(inv, mgl64.Vec4{cp.X(), cp.Y(), 0, 1})
	c1 := common.TransformVec4(inv, mgl64.Vec4{cp.X(), cp.Y(), 1, 1})

	x0, y0, z0 := c0.X()/c0.W(), c0.Y()/c0.W(), c0.Z()/c0.W()
	x1, y1, z1 := c1.X()/c1.W(), c1.Y()/c1.W(), c1.Z()/c1.W()

	// a ray parallel to the ground keeps t at 0
	t := 0.0
	if z0 != z1 {
		t = (0 - z0) / (z1 - z0)
	}
	return orb.Point{common.Interpolate(x0, x1, t), common.Interpolate(y0, y1, t)}
}
