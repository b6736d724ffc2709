package predict

import "time"

// LinearConfig tunes the short-history extrapolator.
type LinearConfig struct {
	// History is the number of frame-to-frame deltas kept per axis, at most
	// MaxLinearHistory.
	History int `json:"history" yaml:"history"`
}

// MaxLinearHistory caps the delta queue.
const MaxLinearHistory = 5

// DefaultLinearConfig keeps the last five deltas.
func DefaultLinearConfig() LinearConfig {
	return LinearConfig{History: MaxLinearHistory}
}

// Linear extrapolates horizontal motion from the mean of the most recent
// frame-to-frame deltas. Y is returned unchanged.
type Linear struct {
	size   int
	dx, dy []float64

	prevX, prevY float64
	hasPrev      bool
}

// NewLinear creates an empty extrapolator.
func NewLinear(cfg LinearConfig) *Linear {
	size := cfg.History
	if size <= 0 || size > MaxLinearHistory {
		size = MaxLinearHistory
	}
	return &Linear{
		size: size,
		dx:   make([]float64, 0, size+1),
		dy:   make([]float64, 0, size+1),
	}
}

// Reset implements Smoother.
func (l *Linear) Reset() {
	l.dx = l.dx[:0]
	l.dy = l.dy[:0]
	l.hasPrev = false
}

// Observe implements Smoother. The first observation of a track records a
// zero delta.
func (l *Linear) Observe(x, y float64, _ time.Time) (float64, float64) {
	if !l.hasPrev {
		l.prevX, l.prevY = x, y
		l.hasPrev = true
	}

	l.dx = push(l.dx, x-l.prevX, l.size)
	l.dy = push(l.dy, y-l.prevY, l.size)
	l.prevX, l.prevY = x, y

	return x + mean(l.dx), y
}

// Deltas returns a copy of the horizontal delta queue, oldest first.
func (l *Linear) Deltas() []float64 {
	return append([]float64(nil), l.dx...)
}

// push appends v and drops the oldest entries beyond size.
func push(q []float64, v float64, size int) []float64 {
	q = append(q, v)
	if over := len(q) - size; over > 0 {
		q = append(q[:0], q[over:]...)
	}
	return q
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, d := range v {
		sum += d
	}
	return sum / float64(len(v))
}
