// Package view owns the transform state of one map view and keeps everything derived from it
// current: camera matrices, layer rendering and change notifications.
package view

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/Carmen-Shannon/oxy-map/engine/camera"
	"github.com/Carmen-Shannon/oxy-map/engine/crs"
	"github.com/Carmen-Shannon/oxy-map/engine/events"
	"github.com/Carmen-Shannon/oxy-map/engine/layer"
	"github.com/Carmen-Shannon/oxy-map/engine/profiler"
	"github.com/Carmen-Shannon/oxy-map/engine/projector"
	"github.com/Carmen-Shannon/oxy-map/engine/renderer"
	"github.com/Carmen-Shannon/oxy-map/engine/symbolizer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrRotationUnsupported is returned when pitch or bearing is changed on a renderer that
	// cannot draw rotated content.
	ErrRotationUnsupported = errors.New("view: renderer cannot rotate or tilt")
	// ErrReentrantUpdate is returned when a view mutation is started from inside another one,
	// e.g. from a layer's Render or an event handler.
	ErrReentrantUpdate = errors.New("view: update already in progress")
)

// ZoomState reports whether a zoom animation is running.
type ZoomState interface {
	IsZooming() bool
}

// ZoomStateFunc adapts a function to ZoomState.
type ZoomStateFunc func() bool

// IsZooming calls f.
func (f ZoomStateFunc) IsZooming() bool {
	return f()
}

// viewImpl implements the View interface.
type viewImpl struct {
	mu *sync.Mutex

	// busy is set for the duration of a mutation, including its render pass and events
	busy bool

	camera    camera.Camera
	sr        *crs.SpatialReference
	zoom      float64
	prjCenter orb.Point
	version   uint64

	layers          *layer.Registry
	emitter         events.Emitter
	renderer        renderer.Renderer
	zoomState       ZoomState
	containerOffset orb.Point

	profiler *profiler.Profiler
	logger   *zap.Logger

	// Pre-creation config collected from builder options
	pendingFov     *float64
	pendingPitch   *float64
	pendingBearing *float64
	pendingSize    *common.Size
	pendingCenter  orb.Point
	pendingLayers  []layer.Layer
	pendingBase    layer.Layer
}

// View is the owner of a map view's transform state.
//
// Every mutation runs synchronously: camera matrices are rebuilt, all visible layers are
// re-rendered (base layer first, then overlays in registration order) and the change event
// fires, all before the call returns. Mutations started from inside that sequence fail with
// ErrReentrantUpdate.
type View interface {
	camera.Rotatable

	// Fov returns the field of view in degrees.
	//
	// Returns:
	//   - float64: field of view
	Fov() float64

	// SetFov clamps fov to [camera.MinFov, camera.MaxFov] and applies it.
	// Ignored while zooming or when unchanged.
	//
	// Parameters:
	//   - fov: field of view in degrees
	//
	// Returns:
	//   - error: ErrReentrantUpdate, camera.ErrSingularMatrix (wrapped) or render errors
	SetFov(fov float64) error

	// Zoom returns the current zoom level.
	//
	// Returns:
	//   - float64: the zoom
	Zoom() float64

	// SetZoom moves to zoom, clamped to the spatial reference's range, keeping the center.
	//
	// Parameters:
	//   - zoom: the new zoom
	//
	// Returns:
	//   - error: ErrReentrantUpdate, camera.ErrSingularMatrix (wrapped) or render errors
	SetZoom(zoom float64) error

	// Center returns the longitude/latitude at the viewport center.
	//
	// Returns:
	//   - orb.Point: lon/lat in degrees
	Center() orb.Point

	// SetCenter pans so that lonlat is at the viewport center.
	//
	// Parameters:
	//   - lonlat: lon/lat in degrees
	//
	// Returns:
	//   - error: ErrReentrantUpdate, camera.ErrSingularMatrix (wrapped) or render errors
	SetCenter(lonlat orb.Point) error

	// Size returns the viewport size.
	//
	// Returns:
	//   - common.Size: size in pixels
	Size() common.Size

	// Resize sets the viewport size and resizes the renderer.
	//
	// Parameters:
	//   - width, height: size in pixels
	//
	// Returns:
	//   - error: ErrReentrantUpdate, camera.ErrSingularMatrix (wrapped) or render errors
	Resize(width, height float64) error

	// IsTransforming reports whether the view is tilted or rotated.
	//
	// Returns:
	//   - bool: true outside flat mode
	IsTransforming() bool

	// Snapshot returns the immutable transform of the current state.
	//
	// Returns:
	//   - projector.Snapshot: the transform snapshot
	Snapshot() projector.Snapshot

	// CameraMatrix returns the camera matrix without the pan offset.
	//
	// Returns:
	//   - mgl64.Mat4: the camera matrix
	//   - bool: false in flat mode
	CameraMatrix() (mgl64.Mat4, bool)

	// ContainerPoint maps a map-space point at zoom to container pixels.
	//
	// Parameters:
	//   - p: map-space point
	//   - zoom: the zoom p is expressed at
	//
	// Returns:
	//   - orb.Point: container pixel
	ContainerPoint(p orb.Point, zoom float64) orb.Point

	// Point maps a container pixel to a map-space point at zoom.
	//
	// Parameters:
	//   - cp: container pixel
	//   - zoom: the zoom of the result
	//
	// Returns:
	//   - orb.Point: map-space point on the ground plane
	Point(cp orb.Point, zoom float64) orb.Point

	// LonLatToContainerPoint maps lon/lat degrees to container pixels.
	LonLatToContainerPoint(lonlat orb.Point) orb.Point

	// ContainerPointToLonLat maps a container pixel to lon/lat degrees on the ground.
	ContainerPointToLonLat(cp orb.Point) orb.Point

	// SpatialReference returns the view's spatial reference.
	SpatialReference() *crs.SpatialReference

	// Layers returns the layer registry. Changes apply from the next render pass.
	Layers() *layer.Registry

	// Renderer returns the drawing surface.
	Renderer() renderer.Renderer

	// Render redraws every visible layer and presents the frame.
	//
	// Returns:
	//   - error: ErrReentrantUpdate or the combined layer errors
	Render() error

	// On registers an event handler.
	//
	// Parameters:
	//   - t: the event type
	//   - h: the handler, called synchronously after the change has been rendered
	//
	// Returns:
	//   - uint64: id to pass to Off
	On(t events.Type, h events.Handler) uint64

	// Off removes an event handler.
	Off(t events.Type, id uint64)

	// Version returns a counter that changes with every transform change.
	Version() uint64

	// Profiler returns the view's profiler.
	Profiler() *profiler.Profiler
}

var _ View = &viewImpl{}

// NewView creates a View. Without WithRenderer a raster renderer of the viewport size is created.
//
// Parameters:
//   - options: functional options to configure the view
//
// Returns:
//   - View: the view
//   - error: ErrRotationUnsupported if the initial pitch or bearing cannot be drawn,
//     or camera.ErrSingularMatrix (wrapped) for an invalid initial state
func NewView(options ...ViewBuilderOption) (View, error) {
	v := &viewImpl{
		mu:       &sync.Mutex{},
		sr:       crs.NewSpatialReference(),
		layers:   layer.NewRegistry(),
		emitter:  events.NewEmitter(),
		profiler: profiler.NewProfiler(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		opt(v)
	}
	v.zoom = common.Clamp(v.zoom, v.sr.MinZoom(), v.sr.MaxZoom())

	size := common.Size{Width: 800, Height: 600}
	if v.pendingSize != nil {
		size = *v.pendingSize
	} else if v.renderer != nil && !v.renderer.Size().IsEmpty() {
		size = v.renderer.Size()
	}

	if v.renderer == nil {
		r, err := renderer.NewRenderer(renderer.BackendTypeRaster,
			renderer.WithSize(int(size.Width), int(size.Height)),
			renderer.WithLogger(v.logger.Named("renderer")),
		)
		if err != nil {
			return nil, err
		}
		v.renderer = r
	}

	tilted := (v.pendingPitch != nil && *v.pendingPitch != 0) || (v.pendingBearing != nil && *v.pendingBearing != 0)
	if tilted && !v.renderer.Capabilities().Rotation {
		return nil, errors.Wrapf(ErrRotationUnsupported, "%s renderer", v.renderer.Name())
	}

	v.prjCenter = v.sr.Projection().Project(v.pendingCenter)
	camOptions := []camera.CameraBuilderOption{
		camera.WithSize(size.Width, size.Height),
		camera.WithCenter(v.sr.PrjToPoint(v.prjCenter, v.zoom)),
		camera.WithLogger(v.logger.Named("camera")),
		camera.WithProfiler(v.profiler),
	}
	if v.pendingFov != nil {
		camOptions = append(camOptions, camera.WithFov(*v.pendingFov))
	}
	if v.pendingPitch != nil {
		camOptions = append(camOptions, camera.WithPitch(*v.pendingPitch))
	}
	if v.pendingBearing != nil {
		camOptions = append(camOptions, camera.WithBearing(*v.pendingBearing))
	}
	cam, err := camera.NewCamera(camOptions...)
	if err != nil {
		return nil, err
	}
	v.camera = cam

	if v.pendingBase != nil {
		if err := v.layers.SetBase(v.pendingBase); err != nil {
			return nil, err
		}
	}
	if err := v.layers.Add(v.pendingLayers...); err != nil {
		return nil, err
	}
	v.pendingBase, v.pendingLayers = nil, nil

	v.logger.Debug("view created",
		zap.String("renderer", v.renderer.Name()),
		zap.Float64("zoom", v.zoom),
		zap.Float64("fov", cam.Fov()),
		zap.Float64("pitch", cam.Pitch()),
		zap.Float64("bearing", cam.Bearing()),
	)
	return v, nil
}

func (v *viewImpl) Fov() float64 {
	return v.camera.Fov()
}

func (v *viewImpl) Pitch() float64 {
	return v.camera.Pitch()
}

func (v *viewImpl) Bearing() float64 {
	return v.camera.Bearing()
}

func (v *viewImpl) SetFov(fov float64) error {
	return v.updateAngle(events.TypeFov, func() (camera.Change, bool, error) {
		return v.camera.SetFov(fov)
	})
}

func (v *viewImpl) SetPitch(pitch float64) error {
	if err := v.checkRotation("pitch"); err != nil {
		return err
	}
	return v.updateAngle(events.TypePitch, func() (camera.Change, bool, error) {
		return v.camera.SetPitch(pitch)
	})
}

func (v *viewImpl) SetBearing(bearing float64) error {
	if err := v.checkRotation("bearing"); err != nil {
		return err
	}
	return v.updateAngle(events.TypeRotate, func() (camera.Change, bool, error) {
		return v.camera.SetBearing(bearing)
	})
}

func (v *viewImpl) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

func (v *viewImpl) SetZoom(zoom float64) error {
	if math.IsNaN(zoom) {
		return nil
	}
	if err := v.enter(); err != nil {
		return err
	}
	defer v.leave()

	v.mu.Lock()
	from := v.zoom
	to := common.Clamp(zoom, v.sr.MinZoom(), v.sr.MaxZoom())
	if to == from {
		v.mu.Unlock()
		return nil
	}
	if _, err := v.camera.SetCenter(v.sr.PrjToPoint(v.prjCenter, to)); err != nil {
		v.mu.Unlock()
		return errors.Wrapf(err, "zoom to %v", to)
	}
	v.zoom = to
	v.version++
	v.mu.Unlock()

	err := v.renderLayers()
	v.emitter.Fire(events.Event{Type: events.TypeZoom, From: from, To: to})
	return err
}

func (v *viewImpl) Center() orb.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sr.Projection().Unproject(v.prjCenter)
}

func (v *viewImpl) SetCenter(lonlat orb.Point) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.leave()

	prj := v.sr.Projection().Project(lonlat)
	v.mu.Lock()
	changed, err := v.camera.SetCenter(v.sr.PrjToPoint(prj, v.zoom))
	if err == nil && changed {
		v.prjCenter = prj
		v.version++
	}
	v.mu.Unlock()
	if err != nil || !changed {
		return err
	}

	err = v.renderLayers()
	v.emitter.Fire(events.Event{Type: events.TypeMove})
	return err
}

func (v *viewImpl) Size() common.Size {
	return v.camera.Size()
}

func (v *viewImpl) Resize(width, height float64) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.leave()

	v.mu.Lock()
	from := v.camera.Size()
	changed, err := v.camera.SetSize(width, height)
	if err == nil && changed {
		v.version++
	}
	v.mu.Unlock()
	if err != nil || !changed {
		return err
	}
	v.renderer.Resize(int(width), int(height))

	err = v.renderLayers()
	v.emitter.Fire(events.Event{Type: events.TypeResize, From: from.Height, To: height, Width: width, Height: height})
	return err
}

func (v *viewImpl) IsTransforming() bool {
	return v.camera.IsTransforming()
}

func (v *viewImpl) Snapshot() projector.Snapshot {
	// writers update the camera and zoom/version under v.mu, so this read is one state
	v.mu.Lock()
	zoom, version := v.zoom, v.version
	st := v.camera.State()
	v.mu.Unlock()

	return projector.New(projector.Params{
		Projection: st.Projection,
		Center:     st.Center,
		Zoom:       zoom,
		Size:       st.Size,
		Resolver:   v.sr,
		Version:    version,
	})
}

func (v *viewImpl) CameraMatrix() (mgl64.Mat4, bool) {
	return v.camera.CameraMatrix()
}

func (v *viewImpl) ContainerPoint(p orb.Point, zoom float64) orb.Point {
	return v.Snapshot().ContainerPointAtZoom(p, zoom)
}

func (v *viewImpl) Point(cp orb.Point, zoom float64) orb.Point {
	return v.Snapshot().PointAtZoom(cp, zoom)
}

func (v *viewImpl) LonLatToContainerPoint(lonlat orb.Point) orb.Point {
	s := v.Snapshot()
	return s.ContainerPoint(v.sr.LonLatToPoint(lonlat, s.Zoom()))
}

func (v *viewImpl) ContainerPointToLonLat(cp orb.Point) orb.Point {
	s := v.Snapshot()
	return v.sr.PointToLonLat(s.Point(cp), s.Zoom())
}

func (v *viewImpl) SpatialReference() *crs.SpatialReference {
	return v.sr
}

func (v *viewImpl) Layers() *layer.Registry {
	return v.layers
}

func (v *viewImpl) Renderer() renderer.Renderer {
	return v.renderer
}

func (v *viewImpl) Render() error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.leave()
	return v.renderLayers()
}

func (v *viewImpl) On(t events.Type, h events.Handler) uint64 {
	return v.emitter.On(t, h)
}

func (v *viewImpl) Off(t events.Type, id uint64) {
	v.emitter.Off(t, id)
}

func (v *viewImpl) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.version
}

func (v *viewImpl) Profiler() *profiler.Profiler {
	return v.profiler
}

// checkRotation fails when the renderer cannot draw a rotated or tilted view.
func (v *viewImpl) checkRotation(param string) error {
	if v.renderer.Capabilities().Rotation {
		return nil
	}
	v.logger.Warn("rotation not supported by renderer",
		zap.String("param", param),
		zap.String("renderer", v.renderer.Name()),
	)
	return errors.Wrapf(ErrRotationUnsupported, "set %s on %s renderer", param, v.renderer.Name())
}

// updateAngle runs one camera angle change: zoom guard, camera update, render pass, event.
func (v *viewImpl) updateAngle(t events.Type, set func() (camera.Change, bool, error)) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.leave()

	if v.zoomState != nil && v.zoomState.IsZooming() {
		v.logger.Debug("camera change ignored while zooming", zap.String("event", string(t)))
		return nil
	}

	v.mu.Lock()
	change, changed, err := set()
	if err == nil && changed {
		v.version++
	}
	v.mu.Unlock()
	if err != nil || !changed {
		return err
	}

	err = v.renderLayers()
	v.emitter.Fire(events.Event{Type: t, From: change.From, To: change.To})
	return err
}

// enter marks the view busy, failing if it already is.
func (v *viewImpl) enter() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.busy {
		return ErrReentrantUpdate
	}
	v.busy = true
	return nil
}

func (v *viewImpl) leave() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
}

// renderLayers draws every visible layer, base first, onto a cleared surface and presents it.
// A failing layer does not stop the others; all errors are returned together.
func (v *viewImpl) renderLayers() error {
	start := time.Now()

	v.mu.Lock()
	offset := v.containerOffset
	v.mu.Unlock()
	ctx := symbolizer.RenderContext{Snapshot: v.Snapshot(), ContainerOffset: offset}

	v.renderer.Clear()
	var errs error
	for _, l := range v.layers.Ordered() {
		if !l.Visible() {
			continue
		}
		if err := l.Render(ctx, v.renderer); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "render layer %s", l.ID()))
		}
	}
	if err := v.renderer.Present(); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "present"))
	}
	v.profiler.RenderPass(time.Since(start))

	if errs != nil {
		v.logger.Error("render pass failed", zap.Error(errs), zap.Uint64("version", ctx.Snapshot.Version()))
	}
	return errs
}
