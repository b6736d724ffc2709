// Package overlay reports the selected detection. The Log overlay writes it
// to the logger in place of a drawn box.
package overlay

import (
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nvr-ai/go-aim/images"
)

// Log is an overlay that logs detections. Repeated clears are collapsed
// into one line.
type Log struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	visible bool
	shown   int64
}

// NewLog returns a Log overlay.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

// Show logs box with its confidence as a percentage.
func (l *Log) Show(box images.Rect, confidence float32) {
	l.mu.Lock()
	l.visible = true
	l.shown++
	l.mu.Unlock()

	l.logger.Debug().
		Stringer("box", box).
		Float64("confidence", Percent(confidence)).
		Msg("Target")
}

// Clear logs the loss of the target once.
func (l *Log) Clear() {
	l.mu.Lock()
	was := l.visible
	l.visible = false
	l.mu.Unlock()

	if was {
		l.logger.Debug().Msg("Target lost")
	}
}

// Visible reports whether a detection is currently shown.
func (l *Log) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// Shown returns how many detections have been shown.
func (l *Log) Shown() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shown
}

// Percent converts a confidence to a percentage rounded to two decimals.
func Percent(confidence float32) float64 {
	return math.Round(float64(confidence)*100*100) / 100
}
