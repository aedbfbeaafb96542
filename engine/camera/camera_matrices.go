package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

var (
	// ErrSingularMatrix is returned when the pixel matrix cannot be inverted.
	ErrSingularMatrix = errors.New("camera: pixel matrix is not invertible")
	// ErrEmptyViewport is returned by BuildProjection when there is no viewport height to project onto.
	ErrEmptyViewport = errors.New("camera: viewport has no height")
)

const (
	// nearZ is the near clip plane distance in pixels.
	nearZ = 1.0
	// farZMargin pads the far clip plane so the horizon itself is not clipped by rounding.
	farZMargin = 1.01
	// minHorizonAngle floors the far angle of the camera/center/top-edge triangle.
	// At fov 60 and pitch 60 the angle reaches zero and the top edge looks past the horizon.
	minHorizonAngle = 0.01
)

// Params are the inputs to BuildProjection. Angles are internal radians.
type Params struct {
	// Fov is the vertical field of view.
	Fov float64
	// Pitch is the tilt away from straight down.
	Pitch float64
	// Bearing is the internal (sign-flipped) rotation about the vertical axis.
	Bearing float64
	// Size is the viewport in pixels.
	Size common.Size
	// Center is the map-space point at the viewport center, at the current zoom.
	Center orb.Point
}

// Projection is the derived transform state of a camera. It is either FlatProjection
// (no pitch and no bearing, plain 2D offset math) or PerspectiveProjection.
// Consumers switch on the concrete type.
type Projection interface {
	isProjection()
}

// FlatProjection marks a camera with zero pitch and zero bearing. No matrices exist in this mode.
type FlatProjection struct{}

// PerspectiveProjection holds the matrices of a tilted or rotated camera.
type PerspectiveProjection struct {
	// ProjMatrix maps map-space coordinates to clip space.
	ProjMatrix mgl64.Mat4
	// PixelMatrix maps map-space coordinates straight to container pixels (after the perspective divide).
	PixelMatrix mgl64.Mat4
	// PixelMatrixInverse is the inverse of PixelMatrix.
	PixelMatrixInverse mgl64.Mat4
	// CameraMatrix is the pixel-scaled camera transform without the center translation,
	// for consumers that position their own content.
	CameraMatrix mgl64.Mat4
	// CameraToCenterDistance is the distance in pixels from the eye to the viewport center.
	CameraToCenterDistance float64
	// FarZ is the far clip plane distance.
	FarZ float64
}

func (FlatProjection) isProjection()        {}
func (PerspectiveProjection) isProjection() {}

// IsFlat reports whether the given internal pitch and bearing select flat mode.
func IsFlat(pitch, bearing float64) bool {
	return pitch == 0 && bearing == 0
}

// CameraToCenterDistance returns the distance from the eye to the viewport center at which
// the vertical field of view exactly spans the viewport height.
//
// Parameters:
//   - fov: vertical field of view in radians
//   - height: viewport height in pixels
//
// Returns:
//   - float64: the distance in pixels
func CameraToCenterDistance(fov, height float64) float64 {
	return 0.5 / math.Tan(fov/2) * height
}

// BuildProjection derives the camera matrices from fov, pitch, bearing, viewport and center.
// Returns FlatProjection when pitch and bearing are both zero, whatever the viewport,
// ErrEmptyViewport when the viewport has no height, and an error wrapping ErrSingularMatrix
// when the pixel matrix cannot be inverted.
//
// Parameters:
//   - p: the camera parameters
//
// Returns:
//   - Projection: FlatProjection or PerspectiveProjection
//   - error: ErrEmptyViewport or ErrSingularMatrix (wrapped)
func BuildProjection(p Params) (Projection, error) {
	if IsFlat(p.Pitch, p.Bearing) {
		return FlatProjection{}, nil
	}
	if !(p.Size.Height > 0) {
		return nil, ErrEmptyViewport
	}

	w := p.Size.Width
	if !(w > 0) {
		w = 1
	}
	h := p.Size.Height

	halfFov := p.Fov / 2
	cameraToCenter := CameraToCenterDistance(p.Fov, h)

	// Law of sines on the triangle eye / viewport center / viewport top edge gives the
	// ground distance from the center to the furthest visible point.
	groundAngle := math.Pi/2 + p.Pitch
	horizonAngle := max(math.Pi-groundAngle-halfFov, minHorizonAngle)
	topHalfSurfaceDistance := math.Sin(halfFov) * cameraToCenter / math.Sin(horizonAngle)
	furthestDistance := math.Cos(math.Pi/2-p.Pitch)*topHalfSurfaceDistance + cameraToCenter
	farZ := furthestDistance * farZMargin

	// Each step post-multiplies, so a point sees them bottom-up: center offset, bearing,
	// pitch, push away from the eye, flip y, then project.
	m := common.Perspective(p.Fov, w/h, nearZ, farZ)
	m = common.Scale(m, 1, -1, 1)
	m = common.Translate(m, 0, 0, -cameraToCenter)
	m = common.RotateX(m, p.Pitch)
	m = common.RotateZ(m, p.Bearing)

	basis := m

	m = common.Translate(m, -p.Center.X(), -p.Center.Y(), 0)

	pixel := common.Mul4(screenMatrix(w, h), m)
	inverse, ok := common.Invert4(pixel)
	if !ok {
		return nil, errors.Wrapf(ErrSingularMatrix, "fov=%v pitch=%v bearing=%v viewport=%vx%v",
			p.Fov, p.Pitch, p.Bearing, w, h)
	}

	return PerspectiveProjection{
		ProjMatrix:             m,
		PixelMatrix:            pixel,
		PixelMatrixInverse:     inverse,
		CameraMatrix:           common.Mul4(common.Scale(common.Identity(), w/2, -h/2, 1), basis),
		CameraToCenterDistance: cameraToCenter,
		FarZ:                   farZ,
	}, nil
}

// screenMatrix maps normalized device coordinates in [-1, 1] to container pixels
// with the origin at the top-left corner.
func screenMatrix(w, h float64) mgl64.Mat4 {
	m := common.Scale(common.Identity(), w/2, -h/2, 1)
	return common.Translate(m, 1, -1, 0)
}
