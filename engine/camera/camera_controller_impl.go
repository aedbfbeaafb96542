package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-map/common"
	"go.uber.org/multierr"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	target Rotatable

	rotateSpeed      float64
	tiltSpeed        float64
	mouseSensitivity float64
	pitchSensitivity float64
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with sensible defaults.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		rotateSpeed:      15.0,
		tiltSpeed:        10.0,
		mouseSensitivity: 0.6,
		pitchSensitivity: 0.4,
	}

	for _, option := range options {
		option(cc)
	}
	return cc
}

// --- CameraController interface implementation ---

func (cc *cameraControllerImpl) Drag(dx, dy float64) error {
	t := cc.Target()
	if t == nil {
		return nil
	}
	var err error
	if dx != 0 {
		err = multierr.Append(err, t.SetBearing(t.Bearing()+dx*cc.MouseSensitivity()))
	}
	if dy != 0 {
		err = multierr.Append(err, t.SetPitch(t.Pitch()-dy*cc.PitchSensitivity()))
	}
	return err
}

func (cc *cameraControllerImpl) RotateLeft() error {
	return cc.rotate(-cc.RotateSpeed())
}

func (cc *cameraControllerImpl) RotateRight() error {
	return cc.rotate(cc.RotateSpeed())
}

func (cc *cameraControllerImpl) TiltUp() error {
	return cc.tilt(cc.TiltSpeed())
}

func (cc *cameraControllerImpl) TiltDown() error {
	return cc.tilt(-cc.TiltSpeed())
}

func (cc *cameraControllerImpl) Reset() error {
	t := cc.Target()
	if t == nil {
		return nil
	}
	return multierr.Append(t.SetPitch(0), t.SetBearing(0))
}

func (cc *cameraControllerImpl) HandleKey(key int) (bool, error) {
	switch key {
	case common.KeyQ:
		return true, cc.RotateLeft()
	case common.KeyE:
		return true, cc.RotateRight()
	case common.KeyW:
		return true, cc.TiltUp()
	case common.KeyS:
		return true, cc.TiltDown()
	case common.Key0:
		return true, cc.Reset()
	}
	return false, nil
}

func (cc *cameraControllerImpl) Target() Rotatable {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(t Rotatable) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
}

func (cc *cameraControllerImpl) RotateSpeed() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotateSpeed
}

func (cc *cameraControllerImpl) TiltSpeed() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.tiltSpeed
}

func (cc *cameraControllerImpl) MouseSensitivity() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) PitchSensitivity() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitchSensitivity
}

// --- internal helpers ---

func (cc *cameraControllerImpl) rotate(delta float64) error {
	t := cc.Target()
	if t == nil {
		return nil
	}
	return t.SetBearing(t.Bearing() + delta)
}

func (cc *cameraControllerImpl) tilt(delta float64) error {
	t := cc.Target()
	if t == nil {
		return nil
	}
	return t.SetPitch(t.Pitch() + delta)
}
