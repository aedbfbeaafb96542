package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithTarget attaches the controller to a view at construction.
//
// Parameters:
//   - t: the view to drive
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(t Rotatable) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = t
	}
}

// WithRotateSpeed sets the keyboard rotate step.
//
// Parameters:
//   - degrees: bearing change per step
//
// Returns:
//   - CameraControllerOption: functional option to set the rotate speed
func WithRotateSpeed(degrees float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateSpeed = degrees
	}
}

// WithTiltSpeed sets the keyboard tilt step.
//
// Parameters:
//   - degrees: pitch change per step
//
// Returns:
//   - CameraControllerOption: functional option to set the tilt speed
func WithTiltSpeed(degrees float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.tiltSpeed = degrees
	}
}

// WithMouseSensitivity sets degrees of bearing per horizontally dragged pixel.
//
// Parameters:
//   - sensitivity: multiplier for horizontal drag
//
// Returns:
//   - CameraControllerOption: functional option to set the mouse sensitivity
func WithMouseSensitivity(sensitivity float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithPitchSensitivity sets degrees of pitch per vertically dragged pixel.
//
// Parameters:
//   - sensitivity: multiplier for vertical drag
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch sensitivity
func WithPitchSensitivity(sensitivity float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pitchSensitivity = sensitivity
	}
}
