package predict

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(step int, interval time.Duration) time.Time {
	return t0.Add(time.Duration(step) * interval)
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"Kalman Filter", MethodKalman},
		{"Shall0e's Prediction", MethodLinear},
		{"wisethef0x's EMA Prediction", MethodEMA},
		{"ema", MethodEMA},
		{" LINEAR ", MethodLinear},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		if tt.in == tt.want.String() {
			assert.Equal(t, tt.in, got.String())
		}
	}

	_, err := ParseMethod("crystal ball")
	assert.Error(t, err)
}

func TestNewSelectsVariant(t *testing.T) {
	cfg := DefaultConfig()
	assert.IsType(t, &Kalman{}, New(MethodKalman, cfg))
	assert.IsType(t, &Linear{}, New(MethodLinear, cfg))
	assert.IsType(t, &EMA{}, New(MethodEMA, cfg))
}

func TestKalmanBootstrap(t *testing.T) {
	k := NewKalman(DefaultKalmanConfig())

	x, y := k.Observe(100, 50, t0)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 50.0, y)

	vx, vy := k.Velocity()
	assert.Zero(t, vx)
	assert.Zero(t, vy)
}

// TestKalmanConvergesToTrueVelocity feeds noise-free constant-velocity
// observations and checks the velocity error shrinks.
func TestKalmanConvergesToTrueVelocity(t *testing.T) {
	const (
		trueVX = 300.0
		trueVY = -120.0
	)
	interval := 10 * time.Millisecond
	k := NewKalman(DefaultKalmanConfig())

	velErr := func() float64 {
		vx, vy := k.Velocity()
		return math.Hypot(vx-trueVX, vy-trueVY)
	}

	var errs []float64
	for i := range 100 {
		dt := (time.Duration(i) * interval).Seconds()
		k.Observe(100+trueVX*dt, 50+trueVY*dt, at(i, interval))
		errs = append(errs, velErr())
	}

	// Strictly shrinking while the filter is still far from the truth.
	for i := 1; i < 20; i++ {
		assert.Less(t, errs[i], errs[i-1], "step %d", i)
	}
	assert.Less(t, errs[10], 5.0)
	assert.Less(t, errs[99], 0.01)

	px, py := k.Position()
	assert.InDelta(t, 100+trueVX*0.99, px, 0.01)
	assert.InDelta(t, 50+trueVY*0.99, py, 0.01)
}

func TestKalmanLeadTimeProjectsForward(t *testing.T) {
	cfg := DefaultKalmanConfig()
	cfg.LeadTime = 100 * time.Millisecond
	k := NewKalman(cfg)

	interval := 10 * time.Millisecond
	var x float64
	for i := range 100 {
		x, _ = k.Observe(float64(i)*2, 0, at(i, interval)) // 200 px/s
	}
	// Last raw x is 198; 100ms ahead at 200 px/s is 218.
	assert.InDelta(t, 218, x, 0.5)
}

func TestKalmanToleratesGapsAndReset(t *testing.T) {
	k := NewKalman(DefaultKalmanConfig())
	k.Observe(0, 0, t0)
	k.Observe(10, 0, t0.Add(10*time.Millisecond))

	// A long gap is clamped and must not produce NaN.
	x, y := k.Observe(20, 0, t0.Add(time.Hour))
	assert.False(t, math.IsNaN(x) || math.IsNaN(y))

	// Out-of-order timestamps are treated as no elapsed time.
	x, y = k.Observe(21, 0, t0)
	assert.False(t, math.IsNaN(x) || math.IsNaN(y))

	k.Reset()
	x, y = k.Observe(500, 400, t0)
	assert.Equal(t, 500.0, x)
	assert.Equal(t, 400.0, y)
}

func TestLinearBoundedHistory(t *testing.T) {
	l := NewLinear(DefaultLinearConfig())
	interval := 10 * time.Millisecond

	var x, y float64
	for i, raw := range []float64{10, 20, 30, 40, 50} {
		x, y = l.Observe(raw, 0, at(i, interval))
		assert.LessOrEqual(t, len(l.Deltas()), 5)
	}
	// First observation of a track contributes a zero delta.
	assert.Equal(t, []float64{0, 10, 10, 10, 10}, l.Deltas())
	assert.Equal(t, 58.0, x)
	assert.Equal(t, 0.0, y, "vertical axis passes through")

	x, _ = l.Observe(60, 0, at(5, interval))
	assert.Equal(t, []float64{10, 10, 10, 10, 10}, l.Deltas())
	assert.Equal(t, 70.0, x)

	// Only the last five deltas matter.
	x, _ = l.Observe(60, 0, at(6, interval))
	assert.Equal(t, []float64{10, 10, 10, 10, 0}, l.Deltas())
	assert.Equal(t, 68.0, x)
}

func TestNewLinearClampsHistory(t *testing.T) {
	tests := []struct {
		history int
		want    int
	}{
		{history: 0, want: MaxLinearHistory},
		{history: -1, want: MaxLinearHistory},
		{history: 3, want: 3},
		{history: 50, want: MaxLinearHistory},
	}

	for _, tt := range tests {
		l := NewLinear(LinearConfig{History: tt.history})
		for i := 0; i < 20; i++ {
			l.Observe(float64(i*10), 0, at(i, 10*time.Millisecond))
		}
		assert.Len(t, l.Deltas(), tt.want, "history %d", tt.history)
	}
}

func TestLinearYPassesThrough(t *testing.T) {
	l := NewLinear(LinearConfig{})
	for i := range 10 {
		_, y := l.Observe(float64(i), float64(i*i), t0)
		assert.Equal(t, float64(i*i), y)
	}
}

func TestLinearReset(t *testing.T) {
	l := NewLinear(DefaultLinearConfig())
	l.Observe(10, 0, t0)
	l.Observe(500, 0, t0)
	l.Reset()

	x, _ := l.Observe(100, 0, t0)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, []float64{0}, l.Deltas())
}

func TestEMA(t *testing.T) {
	e := NewEMA(EMAConfig{Alpha: 0.5, Interval: 10 * time.Millisecond})

	x, y := e.Observe(100, 7, t0)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 7.0, y)

	// One interval: half way.
	x, y = e.Observe(200, 9, t0.Add(10*time.Millisecond))
	assert.InDelta(t, 150, x, 1e-9)
	assert.Equal(t, 9.0, y, "vertical axis passes through")

	// Two intervals: weight 1 - 0.25 = 0.75.
	x, _ = e.Observe(250, 0, t0.Add(30*time.Millisecond))
	assert.InDelta(t, 150+0.75*100, x, 1e-9)

	// No elapsed time: estimate unchanged.
	x, _ = e.Observe(1000, 0, t0.Add(30*time.Millisecond))
	assert.InDelta(t, 225, x, 1e-9)
}

func TestEMAGapAndReset(t *testing.T) {
	e := NewEMA(DefaultEMAConfig())
	e.Observe(0, 0, t0)

	// A long gap lets the new observation dominate.
	x, _ := e.Observe(100, 0, t0.Add(time.Second))
	assert.InDelta(t, 100, x, 1e-6)

	e.Reset()
	x, _ = e.Observe(-40, 0, t0)
	assert.Equal(t, -40.0, x)
}

func TestNewEMAFixesInvalidConfig(t *testing.T) {
	e := NewEMA(EMAConfig{Alpha: 3, Interval: -1})
	assert.Equal(t, DefaultEMAConfig(), e.cfg)
}
