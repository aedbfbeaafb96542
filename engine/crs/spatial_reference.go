package crs

import (
	"math"

	"github.com/paulmach/orb"
)

// SpatialReference pairs a projection with a resolution per zoom level. Map-space points are
// projected coordinates divided by the resolution, with y growing southward like container pixels.
type SpatialReference struct {
	projection  Projection
	resolutions []float64
	origin      orb.Point
}

// SpatialReferenceOption is a functional option for configuring a SpatialReference.
type SpatialReferenceOption func(*SpatialReference)

// WithProjection replaces the default EPSG:3857 projection.
func WithProjection(p Projection) SpatialReferenceOption {
	return func(s *SpatialReference) {
		s.projection = p
	}
}

// WithResolutions replaces the default resolutions. Index i is the resolution at zoom i.
func WithResolutions(res []float64) SpatialReferenceOption {
	return func(s *SpatialReference) {
		if len(res) > 0 {
			s.resolutions = append([]float64(nil), res...)
		}
	}
}

// WithOrigin sets the projected coordinate that maps to map-space (0, 0).
func WithOrigin(o orb.Point) SpatialReferenceOption {
	return func(s *SpatialReference) {
		s.origin = o
	}
}

// NewSpatialReference creates a SpatialReference, defaulting to EPSG:3857 with zooms 0..DefaultMaxZoom.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *SpatialReference: the spatial reference
func NewSpatialReference(options ...SpatialReferenceOption) *SpatialReference {
	s := &SpatialReference{
		projection:  WebMercator(),
		resolutions: WebMercatorResolutions(DefaultMaxZoom),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Projection returns the underlying projection.
func (s *SpatialReference) Projection() Projection {
	return s.projection
}

// MinZoom returns the lowest zoom with a resolution.
func (s *SpatialReference) MinZoom() float64 {
	return 0
}

// MaxZoom returns the highest zoom with a resolution.
func (s *SpatialReference) MaxZoom() float64 {
	return float64(len(s.resolutions) - 1)
}

// Resolution returns projected units per map-space unit at zoom. Fractional zooms interpolate
// geometrically between the neighbouring levels; zooms outside the table clamp to its ends.
//
// Parameters:
//   - zoom: zoom level
//
// Returns:
//   - float64: the resolution
func (s *SpatialReference) Resolution(zoom float64) float64 {
	if zoom <= 0 || math.IsNaN(zoom) {
		return s.resolutions[0]
	}
	last := len(s.resolutions) - 1
	if zoom >= float64(last) {
		return s.resolutions[last]
	}
	z := math.Floor(zoom)
	r0 := s.resolutions[int(z)]
	if z == zoom {
		return r0
	}
	r1 := s.resolutions[int(z)+1]
	return r0 * math.Pow(r1/r0, zoom-z)
}

// PrjToPoint converts projected coordinates to a map-space point at zoom.
func (s *SpatialReference) PrjToPoint(prj orb.Point, zoom float64) orb.Point {
	res := s.Resolution(zoom)
	return orb.Point{(prj.X() - s.origin.X()) / res, (s.origin.Y() - prj.Y()) / res}
}

// PointToPrj converts a map-space point at zoom back to projected coordinates.
func (s *SpatialReference) PointToPrj(p orb.Point, zoom float64) orb.Point {
	res := s.Resolution(zoom)
	return orb.Point{p.X()*res + s.origin.X(), s.origin.Y() - p.Y()*res}
}

// LonLatToPoint projects lon/lat degrees to a map-space point at zoom.
func (s *SpatialReference) LonLatToPoint(lonlat orb.Point, zoom float64) orb.Point {
	return s.PrjToPoint(s.projection.Project(lonlat), zoom)
}

// PointToLonLat converts a map-space point at zoom to lon/lat degrees.
func (s *SpatialReference) PointToLonLat(p orb.Point, zoom float64) orb.Point {
	return s.projection.Unproject(s.PointToPrj(p, zoom))
}

// PointAtZoom rescales a map-space point from one zoom to another.
//
// Parameters:
//   - p: the point at zoom from
//   - from, to: source and target zoom
//
// Returns:
//   - orb.Point: the same location at zoom to
func (s *SpatialReference) PointAtZoom(p orb.Point, from, to float64) orb.Point {
	if from == to {
		return p
	}
	scale := s.Resolution(from) / s.Resolution(to)
	return orb.Point{p.X() * scale, p.Y() * scale}
}
