package predict

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// KalmanConfig tunes the constant-velocity filter. Noise values are
// per-second and scaled by the elapsed time of each step.
type KalmanConfig struct {
	ProcessNoisePos  float64 `json:"process_noise_pos" yaml:"process_noise_pos"`
	ProcessNoiseVel  float64 `json:"process_noise_vel" yaml:"process_noise_vel"`
	MeasurementNoise float64 `json:"measurement_noise" yaml:"measurement_noise"`

	// InitialPosVar and InitialVelVar seed the covariance diagonal of a new
	// track.
	InitialPosVar float64 `json:"initial_pos_var" yaml:"initial_pos_var"`
	InitialVelVar float64 `json:"initial_vel_var" yaml:"initial_vel_var"`

	// MaxPredictDt caps the prediction step so a long gap does not blow up
	// the covariance.
	MaxPredictDt time.Duration `json:"max_predict_dt" yaml:"max_predict_dt"`

	// LeadTime projects the corrected position forward along the velocity
	// estimate. Zero returns the corrected position.
	LeadTime time.Duration `json:"lead_time" yaml:"lead_time"`
}

// DefaultKalmanConfig returns tuning for pixel coordinates sampled at a few
// hundred hertz.
func DefaultKalmanConfig() KalmanConfig {
	return KalmanConfig{
		ProcessNoisePos:  1,
		ProcessNoiseVel:  500,
		MeasurementNoise: 1,
		InitialPosVar:    10,
		InitialVelVar:    10000,
		MaxPredictDt:     500 * time.Millisecond,
	}
}

// Kalman is a 2-d constant-velocity Kalman filter with state [x y vx vy].
type Kalman struct {
	cfg KalmanConfig

	x *mat.VecDense
	p *mat.Dense
	h *mat.Dense
	r *mat.Dense

	last        time.Time
	initialized bool
}

// NewKalman creates an empty filter; the first observation starts the track.
func NewKalman(cfg KalmanConfig) *Kalman {
	return &Kalman{
		cfg: cfg,
		x:   mat.NewVecDense(4, nil),
		p:   mat.NewDense(4, 4, nil),
		h: mat.NewDense(2, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
		}),
		r: mat.NewDense(2, 2, []float64{
			cfg.MeasurementNoise, 0,
			0, cfg.MeasurementNoise,
		}),
	}
}

// Reset implements Smoother.
func (k *Kalman) Reset() {
	k.x.Zero()
	k.p.Zero()
	k.initialized = false
}

// Observe implements Smoother. The first observation after a reset sets the
// position with zero velocity and returns it unchanged.
func (k *Kalman) Observe(x, y float64, t time.Time) (float64, float64) {
	if !k.initialized {
		k.bootstrap(x, y, t)
		return x, y
	}

	dt := t.Sub(k.last)
	if dt < 0 {
		dt = 0
	}
	if k.cfg.MaxPredictDt > 0 && dt > k.cfg.MaxPredictDt {
		dt = k.cfg.MaxPredictDt
	}
	k.last = t

	k.predict(dt.Seconds())
	if !k.correct(x, y) {
		// Singular innovation covariance: start over from this point.
		k.bootstrap(x, y, t)
		return x, y
	}

	lead := k.cfg.LeadTime.Seconds()
	return k.x.AtVec(0) + k.x.AtVec(2)*lead, k.x.AtVec(1) + k.x.AtVec(3)*lead
}

// Velocity returns the current velocity estimate in units per second.
func (k *Kalman) Velocity() (float64, float64) {
	return k.x.AtVec(2), k.x.AtVec(3)
}

// Position returns the current position estimate.
func (k *Kalman) Position() (float64, float64) {
	return k.x.AtVec(0), k.x.AtVec(1)
}

func (k *Kalman) bootstrap(x, y float64, t time.Time) {
	k.x.SetVec(0, x)
	k.x.SetVec(1, y)
	k.x.SetVec(2, 0)
	k.x.SetVec(3, 0)

	k.p.Zero()
	k.p.Set(0, 0, k.cfg.InitialPosVar)
	k.p.Set(1, 1, k.cfg.InitialPosVar)
	k.p.Set(2, 2, k.cfg.InitialVelVar)
	k.p.Set(3, 3, k.cfg.InitialVelVar)

	k.last = t
	k.initialized = true
}

// predict advances the state by dt seconds: x' = F x, P' = F P Fᵀ + Q dt.
func (k *Kalman) predict(dt float64) {
	f := mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	var x mat.VecDense
	x.MulVec(f, k.x)
	k.x.CopyVec(&x)

	var fp, fpft mat.Dense
	fp.Mul(f, k.p)
	fpft.Mul(&fp, f.T())

	q := mat.NewDiagDense(4, []float64{
		k.cfg.ProcessNoisePos * dt,
		k.cfg.ProcessNoisePos * dt,
		k.cfg.ProcessNoiseVel * dt,
		k.cfg.ProcessNoiseVel * dt,
	})
	k.p.Add(&fpft, q)
}

// correct folds the measurement (x, y) into the state. It reports false when
// the innovation covariance cannot be inverted.
func (k *Kalman) correct(zx, zy float64) bool {
	var hx mat.VecDense
	hx.MulVec(k.h, k.x)

	innov := mat.NewVecDense(2, []float64{zx - hx.AtVec(0), zy - hx.AtVec(1)})

	// S = H P Hᵀ + R
	var hp, s mat.Dense
	hp.Mul(k.h, k.p)
	s.Mul(&hp, k.h.T())
	s.Add(&s, k.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return false
	}

	// K = P Hᵀ S⁻¹
	var pht, gain mat.Dense
	pht.Mul(k.p, k.h.T())
	gain.Mul(&pht, &sInv)

	var dx mat.VecDense
	dx.MulVec(&gain, innov)
	k.x.AddVec(k.x, &dx)

	// P = (I - K H) P
	var kh mat.Dense
	kh.Mul(&gain, k.h)
	ikh := mat.NewDense(4, 4, nil)
	for i := range 4 {
		ikh.Set(i, i, 1)
	}
	ikh.Sub(ikh, &kh)

	var p mat.Dense
	p.Mul(ikh, k.p)
	k.p.Copy(&p)

	return true
}
