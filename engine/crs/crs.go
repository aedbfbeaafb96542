// Package crs converts between geographic coordinates, projected coordinates and the
// zoom-scaled map-space points the view transform works in.
package crs

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/wroge/wgs84"
)

const (
	// EarthRadius is the WGS84 semi-major axis used by EPSG:3857.
	EarthRadius = 6378137.0
	// TileSize is the pixel size of a zoom-0 world tile.
	TileSize = 256.0
	// DefaultMaxZoom is the highest zoom with a default EPSG:3857 resolution.
	DefaultMaxZoom = 22
)

// Projection maps longitude/latitude in degrees to projected coordinates and back.
type Projection interface {
	// Code returns the EPSG identifier, e.g. "EPSG:3857".
	Code() string
	// Project converts lon/lat degrees to projected coordinates.
	Project(lonlat orb.Point) orb.Point
	// Unproject converts projected coordinates back to lon/lat degrees.
	Unproject(p orb.Point) orb.Point
}

type transformFunc func(a, b, c float64) (a2, b2, c2 float64)

type wgs84Projection struct {
	code    string
	forward transformFunc
	inverse transformFunc
}

var _ Projection = &wgs84Projection{}

// WebMercator returns the spherical mercator projection (EPSG:3857).
//
// Returns:
//   - Projection: the projection
func WebMercator() Projection {
	return &wgs84Projection{
		code:    "EPSG:3857",
		forward: transformFunc(wgs84.Transform(wgs84.LonLat(), wgs84.WebMercator())),
		inverse: transformFunc(wgs84.Transform(wgs84.WebMercator(), wgs84.LonLat())),
	}
}

func (p *wgs84Projection) Code() string {
	return p.code
}

func (p *wgs84Projection) Project(lonlat orb.Point) orb.Point {
	x, y, _ := p.forward(lonlat.Lon(), lonlat.Lat(), 0)
	return orb.Point{x, y}
}

func (p *wgs84Projection) Unproject(pt orb.Point) orb.Point {
	lon, lat, _ := p.inverse(pt.X(), pt.Y(), 0)
	return orb.Point{lon, lat}
}

// WebMercatorResolutions returns projected units per map-space unit for zooms 0..maxZoom.
//
// Parameters:
//   - maxZoom: highest zoom level
//
// Returns:
//   - []float64: resolution per integer zoom, halving at each level
func WebMercatorResolutions(maxZoom int) []float64 {
	res := make([]float64, maxZoom+1)
	base := 2 * math.Pi * EarthRadius / TileSize
	for z := range res {
		res[z] = base / math.Exp2(float64(z))
	}
	return res
}
