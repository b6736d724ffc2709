package controller

import (
	"errors"
	"image"

	"github.com/nvr-ai/go-aim/images"
)

// Reasons a cycle ends before actuation. None of them stop the loop.
var (
	// ErrModelUnavailable means the engine has no model or inference failed.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrEmptyFrame means capture returned nothing usable.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrNoCandidates means nothing survived extraction and selection.
	ErrNoCandidates = errors.New("no candidates")
	// ErrShutdownTimeout means the loop did not exit within the join timeout.
	ErrShutdownTimeout = errors.New("aim loop did not stop in time")
	// ErrRunning is returned by Start when the loop is already running.
	ErrRunning = errors.New("aim loop already running")
)

// Capturer grabs a screen region into a frame it owns. The frame is only
// valid until the next call.
type Capturer interface {
	Capture(region image.Rectangle) (*images.Frame, error)
}

// Pointer moves the pointing device and clicks. Both calls are
// fire-and-forget.
type Pointer interface {
	MoveTo(x, y int)
	Click()
}

// Cursor reports the current pointer position in screen coordinates.
type Cursor interface {
	Position() image.Point
}

// Source is the read-only view of user settings.
type Source interface {
	Toggle(name string) bool
	Keybind(name string) bool
	Slider(name string) float64
	Dropdown(name string) string
}

// Overlay displays the selected detection. Implementations marshal to
// their own UI context and must not block the caller.
type Overlay interface {
	Show(box images.Rect, confidence float32)
	Clear()
}

// Persister stores frames and labels for training data.
type Persister interface {
	// SaveFrame stores frame and returns its id, or an empty id when the
	// frame was skipped.
	SaveFrame(frame *images.Frame) (string, error)
	// SaveLabel writes a label for a box in a previously saved frame.
	SaveLabel(id string, frame *images.Frame, box images.Rect) error
}
