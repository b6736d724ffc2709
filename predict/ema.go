package predict

import (
	"math"
	"time"
)

// EMAConfig tunes the exponential moving average.
type EMAConfig struct {
	// Alpha is the weight of a new observation arriving exactly one
	// Interval after the previous one (0-1].
	Alpha float64 `json:"alpha" yaml:"alpha"`
	// Interval is the reference spacing Alpha is defined for. Longer gaps
	// weight the new observation more heavily.
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// DefaultEMAConfig weights each observation by half at a 10ms cadence.
func DefaultEMAConfig() EMAConfig {
	return EMAConfig{Alpha: 0.5, Interval: 10 * time.Millisecond}
}

// EMA smooths the horizontal axis with a time-aware exponential moving
// average. Y is returned unchanged.
type EMA struct {
	cfg EMAConfig

	estimate    float64
	last        time.Time
	initialized bool
}

// NewEMA creates an empty average.
func NewEMA(cfg EMAConfig) *EMA {
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = DefaultEMAConfig().Alpha
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultEMAConfig().Interval
	}
	return &EMA{cfg: cfg}
}

// Reset implements Smoother.
func (e *EMA) Reset() {
	e.initialized = false
	e.estimate = 0
}

// Observe implements Smoother.
func (e *EMA) Observe(x, y float64, t time.Time) (float64, float64) {
	if !e.initialized {
		e.estimate = x
		e.last = t
		e.initialized = true
		return x, y
	}

	elapsed := t.Sub(e.last)
	if elapsed < 0 {
		elapsed = 0
	}
	e.last = t

	e.estimate += e.weight(elapsed) * (x - e.estimate)
	return e.estimate, y
}

// weight is the fraction of the gap between estimate and observation that
// is closed after elapsed: 1 - (1-alpha)^(elapsed/interval).
func (e *EMA) weight(elapsed time.Duration) float64 {
	steps := float64(elapsed) / float64(e.cfg.Interval)
	return 1 - math.Pow(1-e.cfg.Alpha, steps)
}
