package camera

import (
	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/Carmen-Shannon/oxy-map/engine/profiler"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's field of view, clamped to [MinFov, MaxFov].
//
// Parameters:
//   - fov: field of view in public units (degrees)
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = mgl64.DegToRad(common.Clamp(fov, MinFov, MaxFov))
	}
}

// WithPitch sets the camera's initial tilt, clamped to [0, MaxPitch].
//
// Parameters:
//   - pitch: tilt in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pitch
func WithPitch(pitch float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = mgl64.DegToRad(common.Clamp(pitch, 0, MaxPitch))
	}
}

// WithBearing sets the camera's initial rotation, wrapped into [-180, 180].
//
// Parameters:
//   - bearing: rotation in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's bearing
func WithBearing(bearing float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bearing = -mgl64.DegToRad(common.Wrap(bearing, -180, 180))
	}
}

// WithSize sets the viewport size in pixels.
//
// Parameters:
//   - width, height: viewport size
//
// Returns:
//   - CameraBuilderOption: a function that sets the viewport size
func WithSize(width, height float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.size = common.Size{Width: width, Height: height}
	}
}

// WithCenter sets the map-space point at the viewport center.
//
// Parameters:
//   - p: center in map-space units at the current zoom
//
// Returns:
//   - CameraBuilderOption: a function that sets the center
func WithCenter(p orb.Point) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.center = p
	}
}

// WithLogger sets the logger for matrix rebuild diagnostics.
//
// Parameters:
//   - l: the zap logger
//
// Returns:
//   - CameraBuilderOption: a function that sets the logger
func WithLogger(l *zap.Logger) CameraBuilderOption {
	return func(c *cameraImpl) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProfiler records matrix rebuilds into p.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - CameraBuilderOption: a function that sets the profiler
func WithProfiler(p *profiler.Profiler) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.profiler = p
	}
}
