// Package capture grabs screen regions into a reusable frame buffer.
package capture

import (
	"image"
	"sync"

	"github.com/kbinani/screenshot"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-aim/images"
)

// GrabFunc captures a screen rectangle.
type GrabFunc func(region image.Rectangle) (*image.RGBA, error)

// Screen captures from the desktop. The returned frame is reused between
// calls and only reallocated when the region size changes.
type Screen struct {
	mu    sync.Mutex
	grab  GrabFunc
	frame *images.Frame
}

// NewScreen returns a Screen backed by the system screenshot API.
func NewScreen() *Screen {
	return &Screen{grab: screenshot.CaptureRect}
}

// NewScreenWith returns a Screen backed by grab.
func NewScreenWith(grab GrabFunc) *Screen {
	return &Screen{grab: grab}
}

// Capture grabs region into the shared frame.
//
// Arguments:
//   - region: The screen rectangle; it must not be empty.
//
// Returns:
//   - *images.Frame: The frame, valid until the next call.
//   - error: An error if the region is empty or the grab fails.
func (s *Screen) Capture(region image.Rectangle) (*images.Frame, error) {
	if region.Empty() {
		return nil, errors.Errorf("empty capture region %v", region)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.grab(region)
	if err != nil {
		return nil, errors.Wrapf(err, "capturing %v", region)
	}
	if img == nil {
		return nil, errors.Errorf("capture of %v returned no image", region)
	}

	s.frame = s.frame.Ensure(region.Dx(), region.Dy())
	s.frame.CopyFrom(img)
	return s.frame, nil
}

// PrimaryDisplay returns the bounds of display 0.
func PrimaryDisplay() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, errors.New("no active display")
	}
	return screenshot.GetDisplayBounds(0), nil
}
