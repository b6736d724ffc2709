// Package input drives the pointer and reads key state. Only Windows has a
// real backend; elsewhere moves and clicks are logged and no key is held.
package input

import (
	"image"
	"math"

	"github.com/rs/zerolog"
)

// Relative converts an absolute aim point into a relative pointer motion
// from center. Sensitivity in (0, 1] scales the motion down; values outside
// that range are treated as 1.
func Relative(target, center image.Point, sensitivity float64) image.Point {
	if sensitivity <= 0 || sensitivity > 1 || math.IsNaN(sensitivity) {
		sensitivity = 1
	}
	d := target.Sub(center)
	return image.Pt(
		int(math.Round(float64(d.X)*sensitivity)),
		int(math.Round(float64(d.Y)*sensitivity)),
	)
}

// Mouse moves the system pointer toward aim points given in screen space.
// The crosshair is assumed to sit at the screen center.
type Mouse struct {
	center      image.Point
	sensitivity func() float64
	logger      zerolog.Logger
}

// NewMouse returns a Mouse for a screen of the given size. sensitivity is
// read on every move; nil means 1.
func NewMouse(screen image.Point, sensitivity func() float64, logger zerolog.Logger) *Mouse {
	if sensitivity == nil {
		sensitivity = func() float64 { return 1 }
	}
	return &Mouse{
		center:      image.Pt(screen.X/2, screen.Y/2),
		sensitivity: sensitivity,
		logger:      logger,
	}
}

// MoveTo moves the pointer toward (x, y).
func (m *Mouse) MoveTo(x, y int) {
	d := Relative(image.Pt(x, y), m.center, m.sensitivity())
	if d == (image.Point{}) {
		return
	}
	m.logger.Trace().Int("dx", d.X).Int("dy", d.Y).Msg("Pointer move")
	if err := sendMove(d.X, d.Y); err != nil {
		m.logger.Warn().Err(err).Msg("Pointer move failed")
	}
}

// Click presses and releases the left button.
func (m *Mouse) Click() {
	m.logger.Trace().Msg("Pointer click")
	if err := sendClick(); err != nil {
		m.logger.Warn().Err(err).Msg("Pointer click failed")
	}
}

// Keyboard reports key and mouse button state by name, for example
// "Right", "LMenu" or "F".
type Keyboard struct{}

// IsHeld reports whether the named key is down.
func (Keyboard) IsHeld(key string) bool {
	return keyDown(key)
}

// SystemCursor reads the current pointer position.
type SystemCursor struct{}

// Position returns the pointer position in screen coordinates.
func (SystemCursor) Position() image.Point {
	return cursorPos()
}
