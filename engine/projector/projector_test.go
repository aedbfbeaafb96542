package projector

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/Carmen-Shannon/oxy-map/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(zoom float64) float64

func (f resolverFunc) Resolution(zoom float64) float64 { return f(zoom) }

// halving resolution per zoom level doubles map-space coordinates.
var powerOfTwo = resolverFunc(func(zoom float64) float64 { return math.Pow(2, -zoom) })

var viewport = common.Size{Width: 800, Height: 600}

func perspective(t *testing.T, pitch, bearing float64, center orb.Point) camera.Projection {
	t.Helper()
	proj, err := camera.BuildProjection(camera.Params{
		Fov:     camera.DefaultFov,
		Pitch:   mgl64.DegToRad(pitch),
		Bearing: -mgl64.DegToRad(bearing),
		Size:    viewport,
		Center:  center,
	})
	require.NoError(t, err)
	return proj
}

func TestFlatSnapshot(t *testing.T) {
	s := New(Params{Center: orb.Point{1000, 1000}, Zoom: 10, Size: viewport, Resolver: powerOfTwo, Version: 7})

	assert.True(t, s.IsFlat())
	assert.Equal(t, camera.FlatProjection{}, s.Projection())
	assert.Equal(t, uint64(7), s.Version())
	assert.Equal(t, orb.Bound{Max: orb.Point{800, 600}}, s.ContainerExtent())
	_, ok := s.PixelMatrix()
	assert.False(t, ok)
	_, ok = s.CameraMatrix()
	assert.False(t, ok)
	assert.True(t, s.InFrustum(orb.Point{1e9, -1e9}))

	assert.Equal(t, orb.Point{500, 250}, s.ContainerPoint(orb.Point{1100, 950}))
	assert.Equal(t, orb.Point{1100, 950}, s.Point(orb.Point{500, 250}))
	assert.Equal(t, orb.Point{400, 300}, s.ContainerPoint(s.Center()))
}

func TestFlatZoomRescale(t *testing.T) {
	s := New(Params{Center: orb.Point{1000, 1000}, Zoom: 10, Size: viewport, Resolver: powerOfTwo})

	// (550, 500) at zoom 9 is (1100, 1000) at zoom 10
	assert.Equal(t, orb.Point{500, 300}, s.ContainerPointAtZoom(orb.Point{550, 500}, 9))

	// one pixel at zoom 10 is two map units at zoom 11
	assert.Equal(t, orb.Point{2000 + 200, 2000 - 100}, s.PointAtZoom(orb.Point{500, 250}, 11))
	assert.Equal(t, orb.Point{500 + 50, 500 - 25}, s.PointAtZoom(orb.Point{500, 250}, 9))

	noResolver := New(Params{Center: orb.Point{1000, 1000}, Zoom: 10, Size: viewport})
	assert.Equal(t, orb.Point{500, 250}, noResolver.ContainerPointAtZoom(orb.Point{1100, 950}, 3))
}

func TestNilProjectionIsFlat(t *testing.T) {
	s := New(Params{Projection: nil, Size: viewport})
	assert.True(t, s.IsFlat())
	assert.Equal(t, camera.FlatProjection{}, s.Projection())
}

func TestPerspectiveRoundTrip(t *testing.T) {
	cases := []struct {
		name           string
		pitch, bearing float64
	}{
		{"rotated", 0, 45},
		{"tilted", 30, 0},
		{"both", 55, -120},
		{"steep", 60, 180},
	}
	center := orb.Point{4096, 2048}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := New(Params{Projection: perspective(t, c.pitch, c.bearing, center), Center: center, Zoom: 5, Size: viewport})
			require.False(t, s.IsFlat())

			cp := s.ContainerPoint(center)
			assert.InDelta(t, 400, cp.X(), 1e-6)
			assert.InDelta(t, 300, cp.Y(), 1e-6)

			for _, d := range []orb.Point{{0, 0}, {120, 0}, {0, 80}, {-60, 40}} {
				p := orb.Point{center.X() + d.X(), center.Y() + d.Y()}
				back := s.Point(s.ContainerPoint(p))
				assert.InDelta(t, p.X(), back.X(), 1e-6, "x for %v", d)
				assert.InDelta(t, p.Y(), back.Y(), 1e-6, "y for %v", d)
			}

			// every pixel in the lower half of a tilted view lands on the ground
			for _, px := range []orb.Point{{0, 599}, {799, 599}, {400, 450}} {
				ground := s.Point(px)
				again := s.ContainerPoint(ground)
				assert.InDelta(t, px.X(), again.X(), 1e-4)
				assert.InDelta(t, px.Y(), again.Y(), 1e-4)
			}
		})
	}
}

func TestPerspectiveZoomRescale(t *testing.T) {
	center := orb.Point{4096, 2048}
	s := New(Params{Projection: perspective(t, 40, 20, center), Center: center, Zoom: 5, Size: viewport, Resolver: powerOfTwo})

	p := orb.Point{4200, 2000}
	half := orb.Point{p.X() / 2, p.Y() / 2}
	a := s.ContainerPoint(p)
	b := s.ContainerPointAtZoom(half, 4)
	assert.InDelta(t, a.X(), b.X(), 1e-9)
	assert.InDelta(t, a.Y(), b.Y(), 1e-9)

	back := s.PointAtZoom(a, 4)
	assert.InDelta(t, half.X(), back.X(), 1e-6)
	assert.InDelta(t, half.Y(), back.Y(), 1e-6)

	assert.True(t, s.InFrustumAtZoom(half, 4))
}

func TestInFrustum(t *testing.T) {
	center := orb.Point{0, 0}
	s := New(Params{Projection: perspective(t, 60, 0, center), Center: center, Size: viewport})

	assert.True(t, s.InFrustum(center))
	assert.True(t, s.InFrustum(orb.Point{0, 200}))
	assert.False(t, s.InFrustum(orb.Point{0, -1e6}), "beyond the horizon")
	assert.False(t, s.InFrustum(orb.Point{1e6, 0}), "far off to the side")
}

func TestParallelRayKeepsNearPoint(t *testing.T) {
	// an inverse that flattens depth makes every ray parallel to the ground
	proj := camera.PerspectiveProjection{PixelMatrixInverse: common.Scale(common.Identity(), 1, 1, 0)}
	s := New(Params{Projection: proj, Size: viewport})

	got := s.Point(orb.Point{12, 34})
	assert.Equal(t, orb.Point{12, 34}, got)
	assert.False(t, math.IsNaN(got.X()))
}

func TestSnapshotIsImmutable(t *testing.T) {
	center := orb.Point{100, 100}
	proj := perspective(t, 30, 10, center)
	s := New(Params{Projection: proj, Center: center, Size: viewport})

	before, ok := s.PixelMatrix()
	require.True(t, ok)
	pp := proj.(camera.PerspectiveProjection)
	pp.PixelMatrix[0] = 42

	after, _ := s.PixelMatrix()
	assert.Equal(t, before, after)
	cam, ok := s.CameraMatrix()
	require.True(t, ok)
	assert.Equal(t, pp.CameraMatrix, cam)
}
