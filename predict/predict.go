// Package predict smooths per-frame aim points into motion-compensated ones.
//
// Three interchangeable filters share the Smoother contract. Kalman tracks
// both axes. Linear and EMA only predict the horizontal axis and pass Y
// through unchanged; that asymmetry is intended for strafe and recoil
// patterns.
package predict

import (
	"fmt"
	"strings"
	"time"
)

// Smoother turns raw aim points into smoothed ones. Implementations are not
// safe for concurrent use; the aim loop owns a single instance per track.
type Smoother interface {
	// Observe feeds a raw point seen at t and returns the smoothed point.
	Observe(x, y float64, t time.Time) (float64, float64)
	// Reset drops all history, starting a new track.
	Reset()
}

// Method selects a Smoother implementation.
type Method int

const (
	// MethodKalman is a constant-velocity Kalman filter.
	MethodKalman Method = iota
	// MethodLinear extrapolates from the last few frame-to-frame deltas.
	MethodLinear
	// MethodEMA is a time-aware exponential moving average.
	MethodEMA
)

// Dropdown labels used by the settings UI.
const (
	LabelKalman = "Kalman Filter"
	LabelLinear = "Shall0e's Prediction"
	LabelEMA    = "wisethef0x's EMA Prediction"
)

func (m Method) String() string {
	switch m {
	case MethodKalman:
		return LabelKalman
	case MethodLinear:
		return LabelLinear
	case MethodEMA:
		return LabelEMA
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a dropdown label (or a short name such as "kalman",
// "linear", "ema") to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case strings.ToLower(LabelKalman), "kalman":
		return MethodKalman, nil
	case strings.ToLower(LabelLinear), "linear", "shalloe":
		return MethodLinear, nil
	case strings.ToLower(LabelEMA), "ema", "wisethefox":
		return MethodEMA, nil
	default:
		return MethodKalman, fmt.Errorf("unknown prediction method %q", s)
	}
}

// Config holds the tuning of every method.
type Config struct {
	Kalman KalmanConfig `json:"kalman" yaml:"kalman"`
	Linear LinearConfig `json:"linear" yaml:"linear"`
	EMA    EMAConfig    `json:"ema" yaml:"ema"`
}

// DefaultConfig returns the tuning used when no settings file overrides it.
func DefaultConfig() Config {
	return Config{
		Kalman: DefaultKalmanConfig(),
		Linear: DefaultLinearConfig(),
		EMA:    DefaultEMAConfig(),
	}
}

// New builds the smoother for m.
func New(m Method, cfg Config) Smoother {
	switch m {
	case MethodLinear:
		return NewLinear(cfg.Linear)
	case MethodEMA:
		return NewEMA(cfg.EMA)
	default:
		return NewKalman(cfg.Kalman)
	}
}
