package symbolizer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-map/engine/crs"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// ErrUnsupportedGeometry is returned by FromGeoJSON for geometries without a point sequence.
var ErrUnsupportedGeometry = errors.New("symbolizer: unsupported geometry")

// Placement selects where a point symbol is drawn along a feature.
type Placement string

const (
	// PlacementPoint draws one symbol: on the point itself, or on the centroid of the vertices.
	PlacementPoint Placement = "point"
	// PlacementVertex draws a symbol on every vertex, turned along the outgoing segment.
	PlacementVertex Placement = "vertex"
	// PlacementVertexFirst draws on the first vertex only.
	PlacementVertexFirst Placement = "vertex-first"
	// PlacementVertexLast draws on the last vertex only.
	PlacementVertexLast Placement = "vertex-last"
	// PlacementLine draws on every segment midpoint, turned along the segment.
	PlacementLine Placement = "line"
)

// Feature is a geometry in map-space.
type Feature struct {
	// ID identifies the feature, e.g. for extent caching.
	ID string
	// Points are the vertices in map-space units at Zoom.
	Points []orb.Point
	// Zoom is the zoom the points are expressed at, usually the spatial reference's max zoom.
	Zoom float64
}

// RenderPoint is a symbol anchor in map-space, with an optional direction.
type RenderPoint struct {
	Point orb.Point
	// From and To give the symbol's direction when HasDirection is set.
	From, To     orb.Point
	HasDirection bool
}

// RenderPoints resolves the anchors of a placement.
//
// Parameters:
//   - placement: where to put symbols; empty means PlacementPoint
//
// Returns:
//   - []RenderPoint: the anchors, empty for a feature without points
func (f Feature) RenderPoints(placement Placement) []RenderPoint {
	n := len(f.Points)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []RenderPoint{{Point: f.Points[0]}}
	}

	switch placement {
	case PlacementVertex:
		out := make([]RenderPoint, n)
		for i, p := range f.Points {
			a, b := i, i+1
			if b == n {
				a, b = n-2, n-1
			}
			out[i] = RenderPoint{Point: p, From: f.Points[a], To: f.Points[b], HasDirection: true}
		}
		return out
	case PlacementVertexFirst:
		return []RenderPoint{{Point: f.Points[0], From: f.Points[0], To: f.Points[1], HasDirection: true}}
	case PlacementVertexLast:
		return []RenderPoint{{Point: f.Points[n-1], From: f.Points[n-2], To: f.Points[n-1], HasDirection: true}}
	case PlacementLine:
		out := make([]RenderPoint, 0, n-1)
		for i := 0; i < n-1; i++ {
			a, b := f.Points[i], f.Points[i+1]
			mid := orb.Point{(a.X() + b.X()) / 2, (a.Y() + b.Y()) / 2}
			out = append(out, RenderPoint{Point: mid, From: a, To: b, HasDirection: true})
		}
		return out
	default:
		var cx, cy float64
		for _, p := range f.Points {
			cx += p.X()
			cy += p.Y()
		}
		return []RenderPoint{{Point: orb.Point{cx / float64(n), cy / float64(n)}}}
	}
}

// FromGeoJSON projects a GeoJSON feature in longitude/latitude into map-space at zoom.
// Polygons contribute their outer ring and multi-geometries all of their points in order.
//
// Parameters:
//   - f: the GeoJSON feature
//   - sr: the spatial reference used for projection
//   - zoom: the zoom of the resulting points
//
// Returns:
//   - Feature: the map-space feature
//   - error: ErrUnsupportedGeometry for geometry collections and empty geometries
func FromGeoJSON(f *geojson.Feature, sr *crs.SpatialReference, zoom float64) (Feature, error) {
	if f == nil || f.Geometry == nil {
		return Feature{}, errors.Wrap(ErrUnsupportedGeometry, "no geometry")
	}

	var lonlats []orb.Point
	switch g := f.Geometry.(type) {
	case orb.Point:
		lonlats = []orb.Point{g}
	case orb.MultiPoint:
		lonlats = g
	case orb.LineString:
		lonlats = g
	case orb.Ring:
		lonlats = g
	case orb.Polygon:
		if len(g) > 0 {
			lonlats = g[0]
		}
	case orb.MultiLineString:
		for _, ls := range g {
			lonlats = append(lonlats, ls...)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			if len(poly) > 0 {
				lonlats = append(lonlats, poly[0]...)
			}
		}
	default:
		return Feature{}, errors.Wrapf(ErrUnsupportedGeometry, "%s", f.Geometry.GeoJSONType())
	}
	if len(lonlats) == 0 {
		return Feature{}, errors.Wrapf(ErrUnsupportedGeometry, "empty %s", f.Geometry.GeoJSONType())
	}

	points := make([]orb.Point, len(lonlats))
	for i, ll := range lonlats {
		points[i] = sr.LonLatToPoint(ll, zoom)
	}

	var id string
	if f.ID != nil {
		id = fmt.Sprint(f.ID)
	} else {
		id = f.Properties.MustString("id", "")
	}
	return Feature{ID: id, Points: points, Zoom: zoom}, nil
}
