package view

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-map/engine/camera"
	"github.com/Carmen-Shannon/oxy-map/engine/events"
	"github.com/Carmen-Shannon/oxy-map/engine/layer"
	"github.com/Carmen-Shannon/oxy-map/engine/renderer"
	"github.com/Carmen-Shannon/oxy-map/engine/symbolizer"
	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingLayer struct {
	id      string
	hidden  bool
	err     error
	calls   *[]string
	onDraw  func(symbolizer.RenderContext)
	lastCtx symbolizer.RenderContext
}

func (l *recordingLayer) ID() string    { return l.id }
func (l *recordingLayer) Visible() bool { return !l.hidden }

func (l *recordingLayer) Render(ctx symbolizer.RenderContext, surface symbolizer.Surface) error {
	*l.calls = append(*l.calls, l.id)
	l.lastCtx = ctx
	if l.onDraw != nil {
		l.onDraw(ctx)
	}
	return l.err
}

func newTestView(t *testing.T, options ...ViewBuilderOption) View {
	t.Helper()
	options = append([]ViewBuilderOption{WithSize(800, 600)}, options...)
	v, err := NewView(options...)
	require.NoError(t, err)
	return v
}

func terminalRenderer(t *testing.T) renderer.Renderer {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, ss.Init())
	ss.SetSize(100, 40)
	r, err := renderer.NewRenderer(renderer.BackendTypeTerminal, renderer.WithScreen(ss))
	require.NoError(t, err)
	return r
}

func countEvents(v View, t events.Type) *[]events.Event {
	var got []events.Event
	v.On(t, func(e events.Event) { got = append(got, e) })
	return &got
}

func TestPitchForeshortening(t *testing.T) {
	Convey("Given an 800x600 view pitched 30 degrees over the origin", t, func() {
		v := newTestView(t, WithPitch(30))
		snap := v.Snapshot()
		So(snap.IsFlat(), ShouldBeFalse)

		Convey("the center projects to the middle of the viewport", func() {
			cp := snap.ContainerPoint(orb.Point{0, 0})
			So(cp.X(), ShouldAlmostEqual, 400, 1e-9)
			So(cp.Y(), ShouldAlmostEqual, 300, 1e-9)
		})

		// Map-space y grows south like container pixels: (0, -100) is north of the center
		// and (0, 100) is south of it, so the latter lands below the middle.
		Convey("a point 100 units north lands above the middle without moving sideways", func() {
			cp := snap.ContainerPoint(orb.Point{0, -100})
			So(cp.X(), ShouldAlmostEqual, 400, 1e-9)
			So(cp.Y(), ShouldBeLessThan, 300)
			So(cp.Y(), ShouldBeGreaterThan, 300-100)
		})

		Convey("a point 100 units south lands below the middle", func() {
			cp := snap.ContainerPoint(orb.Point{0, 100})
			So(cp.Y(), ShouldBeGreaterThan, 300)
		})
	})
}

func TestSetterSequence(t *testing.T) {
	Convey("Given a flat view", t, func() {
		v := newTestView(t)
		rotates := countEvents(v, events.TypeRotate)
		pitches := countEvents(v, events.TypePitch)
		fovs := countEvents(v, events.TypeFov)

		Convey("out of range values are clamped", func() {
			So(v.SetPitch(90), ShouldBeNil)
			So(v.Pitch(), ShouldAlmostEqual, 60, 1e-9)

			So(v.SetBearing(270), ShouldBeNil)
			So(v.Bearing(), ShouldAlmostEqual, -90, 1e-9)

			So(v.SetFov(0), ShouldBeNil)
			So(v.Fov(), ShouldAlmostEqual, camera.MinFov, 1e-12)
		})

		Convey("setting the same bearing twice rebuilds and notifies once", func() {
			rebuilds := v.Profiler().Rebuilds()
			renders := v.Profiler().Renders()

			So(v.SetBearing(30), ShouldBeNil)
			So(v.SetBearing(30), ShouldBeNil)

			So(v.Profiler().Rebuilds()-rebuilds, ShouldEqual, int64(1))
			So(v.Profiler().Renders()-renders, ShouldEqual, int64(1))
			So(len(*rotates), ShouldEqual, 1)
			So((*rotates)[0].From, ShouldAlmostEqual, 0, 1e-12)
			So((*rotates)[0].To, ShouldAlmostEqual, 30, 1e-9)
		})

		Convey("leveling a tilted view clears the camera matrix", func() {
			So(v.SetPitch(30), ShouldBeNil)
			So(v.SetBearing(20), ShouldBeNil)
			_, ok := v.CameraMatrix()
			So(ok, ShouldBeTrue)

			So(v.SetPitch(0), ShouldBeNil)
			So(v.SetBearing(0), ShouldBeNil)
			_, ok = v.CameraMatrix()
			So(ok, ShouldBeFalse)
			So(v.IsTransforming(), ShouldBeFalse)
			So(len(*pitches), ShouldEqual, 2)
		})

		Convey("fov changes are reported in degrees", func() {
			So(v.SetFov(45), ShouldBeNil)
			So(len(*fovs), ShouldEqual, 1)
			So((*fovs)[0].From, ShouldAlmostEqual, 36.8698976458, 1e-6)
			So((*fovs)[0].To, ShouldAlmostEqual, 45, 1e-9)
		})
	})
}

func TestRenderOrder(t *testing.T) {
	var calls []string
	base := &recordingLayer{id: "base", calls: &calls}
	a := &recordingLayer{id: "a", calls: &calls}
	hidden := &recordingLayer{id: "hidden", calls: &calls, hidden: true}
	b := &recordingLayer{id: "b", calls: &calls}

	v := newTestView(t, WithLayers(a, hidden), WithBaseLayer(base))
	require.NoError(t, v.Layers().Add(b))

	require.NoError(t, v.SetPitch(10))
	assert.Equal(t, []string{"base", "a", "b"}, calls)

	// every layer sees the post-change transform
	assert.False(t, a.lastCtx.Snapshot.IsFlat())
	assert.Equal(t, v.Version(), a.lastCtx.Snapshot.Version())

	calls = calls[:0]
	require.NoError(t, v.SetPitch(10))
	assert.Empty(t, calls)
}

func TestRenderErrorsAreCombined(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var calls []string
	bad1 := &recordingLayer{id: "bad1", calls: &calls, err: errors.New("boom")}
	good := &recordingLayer{id: "good", calls: &calls}
	bad2 := &recordingLayer{id: "bad2", calls: &calls, err: errors.New("bang")}

	v := newTestView(t, WithLayers(bad1, good, bad2), WithLogger(zap.New(core)))

	err := v.SetBearing(45)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, []string{"bad1", "good", "bad2"}, calls)
	assert.InDelta(t, 45, v.Bearing(), 1e-9)
	assert.Equal(t, 1, logs.FilterMessage("render pass failed").Len())
}

func TestRotationCapability(t *testing.T) {
	r := terminalRenderer(t)
	core, logs := observer.New(zap.WarnLevel)
	v := newTestView(t, WithRenderer(r), WithLogger(zap.New(core)))
	pitches := countEvents(v, events.TypePitch)

	assert.ErrorIs(t, v.SetPitch(30), ErrRotationUnsupported)
	assert.ErrorIs(t, v.SetBearing(0), ErrRotationUnsupported)
	assert.Equal(t, 0.0, v.Pitch())
	assert.Empty(t, *pitches)
	assert.Equal(t, 2, logs.FilterMessage("rotation not supported by renderer").Len())

	assert.NoError(t, v.SetFov(50))

	_, err := NewView(WithRenderer(r), WithBearing(15))
	assert.ErrorIs(t, err, ErrRotationUnsupported)
}

func TestZoomingBlocksCameraChanges(t *testing.T) {
	zooming := true
	v := newTestView(t, WithZoomState(ZoomStateFunc(func() bool { return zooming })))
	pitches := countEvents(v, events.TypePitch)
	rebuilds := v.Profiler().Rebuilds()

	require.NoError(t, v.SetPitch(45))
	require.NoError(t, v.SetFov(20))
	assert.Equal(t, 0.0, v.Pitch())
	assert.Empty(t, *pitches)
	assert.Equal(t, rebuilds, v.Profiler().Rebuilds())

	zooming = false
	require.NoError(t, v.SetPitch(45))
	assert.InDelta(t, 45, v.Pitch(), 1e-9)
	assert.Len(t, *pitches, 1)
}

func TestReentrantUpdates(t *testing.T) {
	var calls []string
	var fromRender error
	l := &recordingLayer{id: "l", calls: &calls}
	v := newTestView(t, WithLayers(l))
	l.onDraw = func(symbolizer.RenderContext) { fromRender = v.SetFov(20) }

	var fromHandler error
	v.On(events.TypePitch, func(events.Event) { fromHandler = v.SetBearing(10) })

	require.NoError(t, v.SetPitch(20))
	assert.ErrorIs(t, fromRender, ErrReentrantUpdate)
	assert.ErrorIs(t, fromHandler, ErrReentrantUpdate)
	assert.Equal(t, 0.0, v.Bearing())

	// the view is usable again afterwards
	l.onDraw = nil
	require.NoError(t, v.SetBearing(10))
	assert.InDelta(t, 10, v.Bearing(), 1e-9)
}

func TestZoomAndCenter(t *testing.T) {
	v := newTestView(t, WithZoom(3), WithCenter(orb.Point{10, 20}))
	zooms := countEvents(v, events.TypeZoom)
	moves := countEvents(v, events.TypeMove)

	center := v.Center()
	assert.InDelta(t, 10, center.X(), 1e-9)
	assert.InDelta(t, 20, center.Y(), 1e-9)

	cp := v.LonLatToContainerPoint(orb.Point{10, 20})
	assert.InDelta(t, 400, cp.X(), 1e-6)
	assert.InDelta(t, 300, cp.Y(), 1e-6)

	version := v.Version()
	require.NoError(t, v.SetZoom(5))
	assert.Equal(t, 5.0, v.Zoom())
	assert.Greater(t, v.Version(), version)
	require.Len(t, *zooms, 1)
	assert.Equal(t, events.Event{Type: events.TypeZoom, From: 3, To: 5}, (*zooms)[0])

	require.NoError(t, v.SetZoom(99))
	assert.Equal(t, v.SpatialReference().MaxZoom(), v.Zoom())

	require.NoError(t, v.SetPitch(40))
	require.NoError(t, v.SetCenter(orb.Point{11, 21}))
	assert.Len(t, *moves, 1)
	ll := v.ContainerPointToLonLat(orb.Point{400, 300})
	assert.InDelta(t, 11, ll.X(), 1e-6)
	assert.InDelta(t, 21, ll.Y(), 1e-6)

	require.NoError(t, v.SetCenter(orb.Point{11, 21}))
	assert.Len(t, *moves, 1)
}

func TestResize(t *testing.T) {
	v := newTestView(t, WithPitch(20))
	resizes := countEvents(v, events.TypeResize)

	require.NoError(t, v.Resize(1024, 768))
	assert.Equal(t, 1024.0, v.Size().Width)
	assert.Equal(t, 1024.0, v.Renderer().Size().Width)
	require.Len(t, *resizes, 1)
	assert.Equal(t, events.Event{Type: events.TypeResize, From: 600, To: 768, Width: 1024, Height: 768}, (*resizes)[0])

	cp := v.Snapshot().ContainerPoint(v.Snapshot().Center())
	assert.InDelta(t, 512, cp.X(), 1e-9)
	assert.InDelta(t, 384, cp.Y(), 1e-9)
}

func TestRoundTripThroughView(t *testing.T) {
	v := newTestView(t, WithPitch(45), WithBearing(30), WithZoom(4))
	for _, cp := range []orb.Point{{1, 1}, {400, 300}, {799, 599}, {120, 480}, {700, 40}} {
		p := v.Point(cp, 6)
		back := v.ContainerPoint(p, 6)
		assert.InDelta(t, cp.X(), back.X(), 1e-6, "%v", cp)
		assert.InDelta(t, cp.Y(), back.Y(), 1e-6, "%v", cp)
	}
}

func TestControllerDrivesView(t *testing.T) {
	v := newTestView(t)
	cc := camera.NewCameraController(camera.WithTarget(v))

	require.NoError(t, cc.Drag(50, -50))
	assert.InDelta(t, 50*cc.MouseSensitivity(), v.Bearing(), 1e-9)
	assert.InDelta(t, 50*cc.PitchSensitivity(), v.Pitch(), 1e-9)

	require.NoError(t, cc.Reset())
	assert.False(t, v.IsTransforming())

	tv := newTestView(t, WithRenderer(terminalRenderer(t)))
	tc := camera.NewCameraController(camera.WithTarget(tv))
	assert.ErrorIs(t, tc.RotateLeft(), ErrRotationUnsupported)
}

func TestRenderDrawsLayers(t *testing.T) {
	points := layer.NewVectorLayer("points")
	points.Add(symbolizer.NewPointSymbolizer(
		symbolizer.Feature{ID: "c", Points: []orb.Point{{0, 0}}},
		symbolizer.Style{Width: 10, Height: 10},
	))
	v := newTestView(t, WithLayers(points))

	require.NoError(t, v.Render())
	assert.Equal(t, layer.RenderStats{Drawn: 1}, points.Stats())

	img, ok := v.Renderer().Image()
	require.True(t, ok)
	_, g, _, _ := img.At(400, 300).RGBA()
	assert.Less(t, g, uint32(0x8000), "marker drawn at the center")
}

func TestLevellingEmptyViewportClearsMatrices(t *testing.T) {
	v := newTestView(t, WithPitch(30), WithBearing(20))
	_, ok := v.CameraMatrix()
	require.True(t, ok)

	require.NoError(t, v.Resize(0, 0))
	require.NoError(t, v.SetPitch(0))
	require.NoError(t, v.SetBearing(0))

	assert.False(t, v.IsTransforming())
	_, ok = v.CameraMatrix()
	assert.False(t, ok)
	snap := v.Snapshot()
	assert.True(t, snap.IsFlat())
	_, ok = snap.PixelMatrix()
	assert.False(t, ok)
	assert.Equal(t, orb.Point{0, 0}, snap.ContainerPoint(orb.Point{0, 0}))
}

func TestSnapshotMatchesCameraState(t *testing.T) {
	v := newTestView(t, WithPitch(20))
	require.NoError(t, v.Resize(640, 480))
	require.NoError(t, v.SetZoom(5))

	snap := v.Snapshot()
	assert.Equal(t, v.Size(), snap.Size())
	assert.Equal(t, v.Version(), snap.Version())
	assert.Equal(t, 5.0, snap.Zoom())
	m, ok := snap.CameraMatrix()
	require.True(t, ok)
	want, _ := v.CameraMatrix()
	assert.Equal(t, want, m)
}
