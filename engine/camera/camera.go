package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/Carmen-Shannon/oxy-map/engine/profiler"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultFov is the default vertical field of view in radians (about 36.87 degrees).
	DefaultFov = 0.6435011087932844

	// MinFov and MaxFov bound the public field of view value.
	MinFov = 0.01
	MaxFov = 60.0

	// MaxPitch is the steepest tilt in degrees.
	MaxPitch = 60.0
)

type cameraImpl struct {
	mu *sync.Mutex

	// internal radians; bearing is stored with the sign flipped
	fov     float64
	pitch   float64
	bearing float64

	size   common.Size
	center orb.Point

	projection Projection

	logger   *zap.Logger
	profiler *profiler.Profiler
}

// Change describes a parameter transition in public units.
type Change struct {
	From float64
	To   float64
}

// State is a consistent copy of the camera fields a projection snapshot needs.
type State struct {
	Projection Projection
	Center     orb.Point
	Size       common.Size
}

// Camera defines the interface for the map view camera.
// The camera owns field of view, pitch, bearing, viewport size and the map-space center,
// and recomputes its Projection synchronously on every genuine change.
type Camera interface {
	// Fov returns the field of view in public units (degrees).
	//
	// Returns:
	//   - float64: field of view
	Fov() float64

	// Pitch returns the tilt in degrees, 0 being straight down.
	//
	// Returns:
	//   - float64: pitch in degrees
	Pitch() float64

	// Bearing returns the rotation in degrees: the compass direction at the top of the screen.
	// At bearing 90 east points up.
	//
	// Returns:
	//   - float64: bearing in degrees
	Bearing() float64

	// Angles returns the internal radian state. Bearing is sign-flipped relative to Bearing().
	//
	// Returns:
	//   - fov, pitch, bearing: angles in radians
	Angles() (fov, pitch, bearing float64)

	// Size returns the viewport size in pixels.
	//
	// Returns:
	//   - common.Size: the viewport size
	Size() common.Size

	// Center returns the map-space point at the viewport center.
	//
	// Returns:
	//   - orb.Point: the center in map-space units at the current zoom
	Center() orb.Point

	// Projection returns the current derived transform.
	// Never nil; FlatProjection until a viewport is set and the view is tilted or rotated.
	//
	// Returns:
	//   - Projection: FlatProjection or PerspectiveProjection
	Projection() Projection

	// State returns projection, center and size read under one lock.
	//
	// Returns:
	//   - State: the current state
	State() State

	// CameraMatrix returns the pixel-scaled camera matrix without the center translation.
	//
	// Returns:
	//   - mgl64.Mat4: the camera matrix
	//   - bool: false in flat mode, where no matrix exists
	CameraMatrix() (mgl64.Mat4, bool)

	// IsTransforming reports whether the camera is tilted or rotated.
	//
	// Returns:
	//   - bool: true when pitch or bearing is non-zero
	IsTransforming() bool

	// SetFov clamps fov to [MinFov, MaxFov] and recomputes matrices if it changed.
	//
	// Parameters:
	//   - fov: field of view in public units
	//
	// Returns:
	//   - Change: previous and new value in public units
	//   - bool: false if the value was unchanged (no-op)
	//   - error: wraps ErrSingularMatrix if the new state cannot be inverted; the old state is kept
	SetFov(fov float64) (Change, bool, error)

	// SetPitch clamps pitch to [0, MaxPitch] degrees and recomputes matrices if it changed.
	//
	// Parameters:
	//   - pitch: tilt in degrees
	//
	// Returns:
	//   - Change: previous and new value in degrees
	//   - bool: false if the value was unchanged (no-op)
	//   - error: wraps ErrSingularMatrix if the new state cannot be inverted; the old state is kept
	SetPitch(pitch float64) (Change, bool, error)

	// SetBearing wraps bearing into [-180, 180] degrees and recomputes matrices if it changed.
	//
	// Parameters:
	//   - bearing: rotation in degrees
	//
	// Returns:
	//   - Change: previous and new value in degrees
	//   - bool: false if the value was unchanged (no-op)
	//   - error: wraps ErrSingularMatrix if the new state cannot be inverted; the old state is kept
	SetBearing(bearing float64) (Change, bool, error)

	// SetSize sets the viewport size and recomputes matrices if it changed.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - bool: false if the size was unchanged (no-op)
	//   - error: wraps ErrSingularMatrix if the new state cannot be inverted; the old state is kept
	SetSize(width, height float64) (bool, error)

	// SetCenter sets the map-space center point and recomputes matrices if it changed.
	//
	// Parameters:
	//   - p: center in map-space units at the current zoom
	//
	// Returns:
	//   - bool: false if the center was unchanged (no-op)
	//   - error: wraps ErrSingularMatrix if the new state cannot be inverted; the old state is kept
	SetCenter(p orb.Point) (bool, error)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the default field of view, no tilt and no rotation.
// Matrices are computed once all options are applied.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
//   - error: wraps ErrSingularMatrix if the configured state cannot be inverted
func NewCamera(options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		fov:        DefaultFov,
		projection: FlatProjection{},
		logger:     zap.NewNop(),
	}
	for _, option := range options {
		option(c)
	}
	if err := c.updateMatrices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cameraImpl) Fov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publicFov()
}

func (c *cameraImpl) Pitch() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publicPitch()
}

func (c *cameraImpl) Bearing() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publicBearing()
}

func (c *cameraImpl) Angles() (fov, pitch, bearing float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov, c.pitch, c.bearing
}

func (c *cameraImpl) Size() common.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *cameraImpl) Center() orb.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.center
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Projection: c.projection, Center: c.center, Size: c.size}
}

func (c *cameraImpl) CameraMatrix() (mgl64.Mat4, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.projection.(PerspectiveProjection); ok {
		return p.CameraMatrix, true
	}
	return mgl64.Mat4{}, false
}

func (c *cameraImpl) IsTransforming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !IsFlat(c.pitch, c.bearing)
}

func (c *cameraImpl) SetFov(fov float64) (Change, bool, error) {
	if math.IsNaN(fov) {
		return Change{}, false, nil
	}
	next := mgl64.DegToRad(common.Clamp(fov, MinFov, MaxFov))

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setAngle(&c.fov, next, c.publicFov, "fov")
}

func (c *cameraImpl) SetPitch(pitch float64) (Change, bool, error) {
	if math.IsNaN(pitch) {
		return Change{}, false, nil
	}
	next := mgl64.DegToRad(common.Clamp(pitch, 0, MaxPitch))

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setAngle(&c.pitch, next, c.publicPitch, "pitch")
}

func (c *cameraImpl) SetBearing(bearing float64) (Change, bool, error) {
	if math.IsNaN(bearing) || math.IsInf(bearing, 0) {
		return Change{}, false, nil
	}
	next := -mgl64.DegToRad(common.Wrap(bearing, -180, 180))

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setAngle(&c.bearing, next, c.publicBearing, "bearing")
}

func (c *cameraImpl) SetSize(width, height float64) (bool, error) {
	next := common.Size{Width: width, Height: height}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.size == next {
		return false, nil
	}
	prev := c.size
	c.size = next
	if err := c.updateMatrices(); err != nil {
		c.size = prev
		return false, errors.Wrapf(err, "resize to %vx%v", width, height)
	}
	return true, nil
}

func (c *cameraImpl) SetCenter(p orb.Point) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.center.Equal(p) {
		return false, nil
	}
	prev := c.center
	c.center = p
	if err := c.updateMatrices(); err != nil {
		c.center = prev
		return false, errors.Wrapf(err, "center on %v", p)
	}
	return true, nil
}

// setAngle stores next into field and rebuilds the matrices, restoring the previous value on failure.
// Caller must hold the mutex.
func (c *cameraImpl) setAngle(field *float64, next float64, public func() float64, name string) (Change, bool, error) {
	if *field == next {
		return Change{}, false, nil
	}
	from := public()
	prev := *field
	*field = next
	if err := c.updateMatrices(); err != nil {
		*field = prev
		return Change{}, false, errors.Wrapf(err, "set %s", name)
	}
	return Change{From: from, To: public()}, true, nil
}

func (c *cameraImpl) publicFov() float64 {
	return mgl64.RadToDeg(c.fov)
}

func (c *cameraImpl) publicPitch() float64 {
	return mgl64.RadToDeg(c.pitch)
}

func (c *cameraImpl) publicBearing() float64 {
	// -0 reads as 0
	return 0 - mgl64.RadToDeg(c.bearing)
}

// updateMatrices recalculates the projection from the current state.
// A missing viewport leaves the previous projection in place unless the camera is level,
// which always clears the matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() error {
	proj, err := BuildProjection(Params{
		Fov:     c.fov,
		Pitch:   c.pitch,
		Bearing: c.bearing,
		Size:    c.size,
		Center:  c.center,
	})
	if errors.Is(err, ErrEmptyViewport) {
		return nil
	}
	if err != nil {
		c.logger.Warn("camera matrix rebuild failed", zap.Error(err))
		return err
	}
	c.projection = proj
	c.profiler.MatrixRebuilt()

	if p, ok := proj.(PerspectiveProjection); ok {
		c.logger.Debug("camera matrices rebuilt",
			zap.Float64("fov", c.fov),
			zap.Float64("pitch", c.pitch),
			zap.Float64("bearing", c.bearing),
			zap.Float64("width", c.size.Width),
			zap.Float64("height", c.size.Height),
			zap.Float64("camera_to_center", p.CameraToCenterDistance),
			zap.Float64("far_z", p.FarZ),
		)
	} else {
		c.logger.Debug("camera flat", zap.Float64("width", c.size.Width), zap.Float64("height", c.size.Height))
	}
	return nil
}
