package camera

// Rotatable is anything whose bearing and pitch a CameraController can drive.
// The map view implements it, so controller input passes the same capability and
// zoom-animation checks as direct calls.
type Rotatable interface {
	// Bearing returns the rotation in degrees.
	Bearing() float64
	// Pitch returns the tilt in degrees.
	Pitch() float64
	// SetBearing rotates to the given bearing in degrees.
	SetBearing(bearing float64) error
	// SetPitch tilts to the given pitch in degrees.
	SetPitch(pitch float64) error
}

// CameraController defines the interface for interactive rotate/tilt control.
// Pointer drags map horizontally onto bearing and vertically onto pitch; keyboard
// steps rotate or tilt by a fixed amount. Out-of-range results are clamped by the target.
type CameraController interface {
	// Drag applies a pointer drag in container pixels.
	// Positive dx rotates clockwise, negative dy (dragging up) tilts further.
	//
	// Parameters:
	//   - dx, dy: drag delta in pixels
	//
	// Returns:
	//   - error: errors from the target's setters
	Drag(dx, dy float64) error

	// RotateLeft rotates counter-clockwise by one rotate speed step.
	//
	// Returns:
	//   - error: errors from the target's setter
	RotateLeft() error

	// RotateRight rotates clockwise by one rotate speed step.
	//
	// Returns:
	//   - error: errors from the target's setter
	RotateRight() error

	// TiltUp increases pitch by one tilt speed step.
	//
	// Returns:
	//   - error: errors from the target's setter
	TiltUp() error

	// TiltDown decreases pitch by one tilt speed step.
	//
	// Returns:
	//   - error: errors from the target's setter
	TiltDown() error

	// Reset returns the target to north-up with no tilt.
	//
	// Returns:
	//   - error: errors from the target's setters
	Reset() error

	// HandleKey dispatches a key code (see common.Key*) to the matching step.
	//
	// Parameters:
	//   - key: the key code
	//
	// Returns:
	//   - bool: true if the key is bound
	//   - error: errors from the target's setters
	HandleKey(key int) (bool, error)

	// Target returns the controlled view, or nil.
	//
	// Returns:
	//   - Rotatable: the target
	Target() Rotatable

	// SetTarget attaches the controller to a view.
	//
	// Parameters:
	//   - t: the target
	SetTarget(t Rotatable)

	// RotateSpeed returns the keyboard rotate step in degrees.
	//
	// Returns:
	//   - float64: degrees per step
	RotateSpeed() float64

	// TiltSpeed returns the keyboard tilt step in degrees.
	//
	// Returns:
	//   - float64: degrees per step
	TiltSpeed() float64

	// MouseSensitivity returns degrees of bearing per dragged pixel.
	//
	// Returns:
	//   - float64: multiplier for horizontal drag
	MouseSensitivity() float64

	// PitchSensitivity returns degrees of pitch per dragged pixel.
	//
	// Returns:
	//   - float64: multiplier for vertical drag
	PitchSensitivity() float64
}
