// Package projector maps between map-space points and container pixels for one immutable
// state of a map view.
package projector

import (
	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/Carmen-Shannon/oxy-map/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// Resolver reports projected units per map-space unit at a zoom level.
// crs.SpatialReference implements it.
type Resolver interface {
	Resolution(zoom float64) float64
}

// Params describe the view state captured by a Snapshot.
type Params struct {
	// Projection is the camera's derived transform. Nil is treated as flat.
	Projection camera.Projection
	// Center is the map-space point at the viewport center, at Zoom.
	Center orb.Point
	// Zoom is the current zoom level.
	Zoom float64
	// Size is the viewport size in pixels.
	Size common.Size
	// Resolver rescales points between zoom levels. Nil disables rescaling.
	Resolver Resolver
	// Version identifies the view state; it changes whenever any of the above does.
	Version uint64
}

// Snapshot is an immutable view transform. Renderers receive one per render pass and
// never see the view's mutable state.
type Snapshot struct {
	projection  camera.Projection
	perspective *camera.PerspectiveProjection
	frustum     common.Frustum

	center   orb.Point
	zoom     float64
	size     common.Size
	resolver Resolver
	version  uint64
}

// New captures a snapshot.
//
// Parameters:
//   - p: the view state
//
// Returns:
//   - Snapshot: the immutable snapshot
func New(p Params) Snapshot {
	s := Snapshot{
		projection: p.Projection,
		center:     p.Center,
		zoom:       p.Zoom,
		size:       p.Size,
		resolver:   p.Resolver,
		version:    p.Version,
	}
	switch proj := p.Projection.(type) {
	case camera.PerspectiveProjection:
		s.perspective = &proj
		s.frustum = common.ExtractFrustumFromMatrix(proj.ProjMatrix)
	default:
		s.projection = camera.FlatProjection{}
	}
	return s
}

// Projection returns the captured projection variant.
func (s Snapshot) Projection() camera.Projection {
	return s.projection
}

// IsFlat reports whether the snapshot uses the flat 2D shortcut.
func (s Snapshot) IsFlat() bool {
	return s.perspective == nil
}

// Center returns the map-space center at the current zoom.
func (s Snapshot) Center() orb.Point {
	return s.center
}

// Zoom returns the current zoom.
func (s Snapshot) Zoom() float64 {
	return s.zoom
}

// Size returns the viewport size.
func (s Snapshot) Size() common.Size {
	return s.size
}

// Version returns the view state version the snapshot was taken at.
func (s Snapshot) Version() uint64 {
	return s.version
}

// ContainerExtent returns the container-space rectangle of the viewport.
func (s Snapshot) ContainerExtent() orb.Bound {
	return s.size.Bound()
}

// PixelMatrix returns the map-space to container pixel matrix.
//
// Returns:
//   - mgl64.Mat4: the pixel matrix
//   - bool: false in flat mode
func (s Snapshot) PixelMatrix() (mgl64.Mat4, bool) {
	if s.perspective == nil {
		return mgl64.Mat4{}, false
	}
	return s.perspective.PixelMatrix, true
}

// CameraMatrix returns the camera matrix without the center translation.
//
// Returns:
//   - mgl64.Mat4: the camera matrix
//   - bool: false in flat mode
func (s Snapshot) CameraMatrix() (mgl64.Mat4, bool) {
	if s.perspective == nil {
		return mgl64.Mat4{}, false
	}
	return s.perspective.CameraMatrix, true
}

// InFrustum reports whether a map-space point at the current zoom lies inside the view
// frustum. Always true in flat mode.
func (s Snapshot) InFrustum(p orb.Point) bool {
	if s.perspective == nil {
		return true
	}
	return s.frustum.ContainsPoint(p.X(), p.Y(), 0)
}

// InFrustumAtZoom is InFrustum for a point given at another zoom.
func (s Snapshot) InFrustumAtZoom(p orb.Point, zoom float64) bool {
	return s.InFrustum(s.toCurrentZoom(p, zoom))
}

// toCurrentZoom rescales p from zoom to the snapshot's zoom.
func (s Snapshot) toCurrentZoom(p orb.Point, zoom float64) orb.Point {
	return s.rescale(p, zoom, s.zoom)
}

func (s Snapshot) rescale(p orb.Point, from, to float64) orb.Point {
	if from == to || s.resolver == nil {
		return p
	}
	scale := s.resolver.Resolution(from) / s.resolver.Resolution(to)
	return orb.Point{p.X() * scale, p.Y() * scale}
}
