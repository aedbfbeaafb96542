package common

// Virtual key codes for camera keyboard input.
// Printable keys use their upper-case ASCII value, so a terminal rune maps over after unicode.ToUpper.
const (
	KeyW = 87 // W key (ASCII)
	KeyS = 83 // S key (ASCII)
	KeyQ = 81 // Q key (ASCII)
	KeyE = 69 // E key (ASCII)

	Key0 = 48 // 0 key (ASCII)
)
