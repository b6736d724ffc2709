// Package controller runs the aim loop: capture, detect, select, transform,
// smooth and actuate, once per cycle on a dedicated goroutine.
package controller

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/nvr-ai/go-aim/images"
	"github.com/nvr-ai/go-aim/inference"
	"github.com/nvr-ai/go-aim/inference/detectors"
	"github.com/nvr-ai/go-aim/predict"
	"github.com/nvr-ai/go-aim/profiler"
	"github.com/nvr-ai/go-aim/spatial"
	"github.com/nvr-ai/go-aim/transform"
)

// InputSide is the side of the square detection crop.
const InputSide = images.ImageSize

// Deps are the collaborators of the loop. Persister may be nil.
type Deps struct {
	Engine    inference.Engine
	Capturer  Capturer
	Pointer   Pointer
	Settings  Source
	Overlay   Overlay
	Persister Persister
	Cursor    Cursor
	Logger    zerolog.Logger
}

// Options tune the loop.
type Options struct {
	// ScreenWidth, ScreenHeight are the primary display size in pixels.
	ScreenWidth  int `json:"screen_width" yaml:"screen_width"`
	ScreenHeight int `json:"screen_height" yaml:"screen_height"`
	// CycleDelay is the pause between cycles (default: 1ms).
	CycleDelay time.Duration `json:"cycle_delay" yaml:"cycle_delay"`
	// JoinTimeout bounds how long Stop waits (default: 1s).
	JoinTimeout time.Duration `json:"join_timeout" yaml:"join_timeout"`
	// Predict tunes the smoothers.
	Predict predict.Config `json:"predict" yaml:"predict"`
	// Now is the clock; defaults to time.Now.
	Now func() time.Time `json:"-" yaml:"-"`
}

// Stats summarizes completed cycles.
type Stats struct {
	// Iterations counts cycles that reached a target.
	Iterations int64
	// AverageCycle is the mean duration of those cycles.
	AverageCycle time.Duration
	// Timings holds per-stage timings.
	Timings []profiler.Timing
}

// Controller owns the aim loop and all cross-cycle state.
type Controller struct {
	deps    Deps
	opts    Options
	tracker *profiler.Tracker

	current atomic.Pointer[run]
	lifeMu  sync.Mutex

	// Loop state, touched only by the loop goroutine or by Cycle callers.
	smoother predict.Smoother
	method   predict.Method

	statsMu    sync.Mutex
	iterations int64
	totalTime  time.Duration
	region     images.FOV
	lastBox    images.Rect
	hasLastBox bool
}

// run is one Start..Stop span of the loop.
type run struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New validates deps and returns an idle controller.
//
// Arguments:
//   - deps: The collaborators; every field except Persister is required.
//   - opts: Loop tuning; zero fields take defaults.
//
// Returns:
//   - *Controller: The controller, not yet started.
//   - error: An error naming the first missing collaborator.
func New(deps Deps, opts Options) (*Controller, error) {
	switch {
	case deps.Engine == nil:
		return nil, errors.New("controller: engine is required")
	case deps.Capturer == nil:
		return nil, errors.New("controller: capturer is required")
	case deps.Pointer == nil:
		return nil, errors.New("controller: pointer is required")
	case deps.Settings == nil:
		return nil, errors.New("controller: settings source is required")
	case deps.Overlay == nil:
		return nil, errors.New("controller: overlay is required")
	case deps.Cursor == nil:
		return nil, errors.New("controller: cursor is required")
	}
	if opts.ScreenWidth <= 0 || opts.ScreenHeight <= 0 {
		return nil, fmt.Errorf("controller: invalid screen size %dx%d", opts.ScreenWidth, opts.ScreenHeight)
	}

	if opts.CycleDelay <= 0 {
		opts.CycleDelay = time.Millisecond
	}
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Predict == (predict.Config{}) {
		opts.Predict = predict.DefaultConfig()
	}

	return &Controller{
		deps:     deps,
		opts:     opts,
		tracker:  profiler.New(profiler.Options{}),
		smoother: predict.New(predict.MethodKalman, opts.Predict),
		method:   predict.MethodKalman,
	}, nil
}

// Tracker returns the stage timing tracker.
func (c *Controller) Tracker() *profiler.Tracker {
	return c.tracker
}

// Start launches the loop on its own goroutine. It runs until Stop is
// called or ctx ends.
func (c *Controller) Start(ctx context.Context) error {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if c.current.Load() != nil {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &run{cancel: cancel, done: make(chan struct{})}
	c.current.Store(r)

	go c.loop(ctx, r)

	c.deps.Logger.Info().
		Int("screen_width", c.opts.ScreenWidth).
		Int("screen_height", c.opts.ScreenHeight).
		Msg("Aim loop started")
	return nil
}

// Stop asks the loop to exit and waits up to JoinTimeout. On timeout the
// goroutine is abandoned, not killed, and ErrShutdownTimeout is returned.
// An abandoned run never actuates again and cannot affect a later Start.
func (c *Controller) Stop() error {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	r := c.current.Swap(nil)
	if r == nil {
		return nil
	}
	r.cancel()

	select {
	case <-r.done:
		c.deps.Logger.Info().Msg("Aim loop stopped")
		return nil
	case <-time.After(c.opts.JoinTimeout):
		c.deps.Logger.Warn().Dur("timeout", c.opts.JoinTimeout).Msg("Aim loop did not stop in time, abandoning it")
		return ErrShutdownTimeout
	}
}

// Running reports whether the loop is active.
func (c *Controller) Running() bool {
	return c.current.Load() != nil
}

func (c *Controller) loop(ctx context.Context, r *run) {
	defer close(r.done)
	// Only the current run may mark the controller idle.
	defer c.current.CompareAndSwap(r, nil)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for ctx.Err() == nil {
		if err := c.Cycle(ctx); err != nil {
			switch {
			case errors.Is(err, ErrNoCandidates):
			case errors.Is(err, context.Canceled):
			default:
				c.deps.Logger.Debug().Err(err).Msg("Cycle skipped")
			}
		}

		timer.Reset(c.opts.CycleDelay)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Cycle runs one iteration of the loop. It returns nil when the cycle ran
// to completion (or had nothing to do), and otherwise the reason it ended
// early: ErrEmptyFrame, ErrModelUnavailable or ErrNoCandidates.
func (c *Controller) Cycle(ctx context.Context) error {
	start := c.opts.Now()
	snap := ReadSnapshot(c.deps.Settings)

	fov := c.updateRegion(snap)

	if !snap.ShouldProcess() || !snap.ShouldPredict() {
		return nil
	}

	cand, frame, err := c.detect(ctx, snap, fov)
	// A cancelled run must not touch the track or the pointer.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		if errors.Is(err, ErrNoCandidates) || errors.Is(err, ErrModelUnavailable) {
			c.lose()
			if frame != nil && snap.CollectData && !snap.ConstantTracking && !snap.AutoLabel {
				c.persist(frame, nil)
			}
		}
		return err
	}

	screenBox := cand.Box.Add(fov.Crop.Min)
	c.statsMu.Lock()
	c.lastBox = screenBox
	c.hasLastBox = true
	c.statsMu.Unlock()

	if snap.CollectData {
		var label *images.Rect
		if snap.AutoLabel {
			label = &cand.Box
		}
		c.persist(frame, label)
	}

	if snap.ShowDetected {
		c.deps.Overlay.Show(screenBox, cand.Confidence)
	}

	if snap.ShouldTrigger() {
		c.deps.Pointer.Click()
	}

	target := transform.ComputeTarget(cand.Box, cand.Confidence, snap.TransformParams(c.opts.ScreenWidth, c.opts.ScreenHeight))

	if snap.ShouldAim() {
		x, y := c.smooth(snap, target, start)
		c.deps.Pointer.MoveTo(x, y)
	}

	elapsed := c.opts.Now().Sub(start)
	c.tracker.Record(profiler.OpCycle, elapsed)

	c.statsMu.Lock()
	c.iterations++
	c.totalTime += elapsed
	c.statsMu.Unlock()
	return nil
}

// detect captures the crop, runs the engine and selects the candidate
// nearest the crop center. The frame is returned whenever capture worked.
func (c *Controller) detect(ctx context.Context, snap Snapshot, fov images.FOV) (detectors.Candidate, *images.Frame, error) {
	doneCapture := c.tracker.StartOperation(profiler.OpCapture)
	frame, err := c.deps.Capturer.Capture(fov.Crop)
	doneCapture()
	if err != nil {
		return detectors.Candidate{}, nil, fmt.Errorf("%w: %v", ErrEmptyFrame, err)
	}
	if !frame.Valid() {
		return detectors.Candidate{}, nil, ErrEmptyFrame
	}

	doneInference := c.tracker.StartOperation(profiler.OpInference)
	out, err := c.deps.Engine.Detect(ctx, frame)
	doneInference()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return detectors.Candidate{}, nil, err
		}
		return detectors.Candidate{}, frame, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if !out.Ready() {
		return detectors.Candidate{}, frame, ErrModelUnavailable
	}

	doneExtract := c.tracker.StartOperation(profiler.OpExtract)
	res := detectors.Extract(out, detectors.ExtractConfig{
		MinConfidence: snap.MinConfidence,
		FOV:           fov.Filter,
		ImageSize:     InputSide,
	})
	cx, cy := fov.Center()
	cand, _, ok := spatial.Nearest(res, [2]float64{cx, cy})
	doneExtract()

	if !ok {
		return detectors.Candidate{}, frame, ErrNoCandidates
	}
	return cand, frame, nil
}

// updateRegion derives this cycle's FOV from the settings and the cursor.
func (c *Controller) updateRegion(snap Snapshot) images.FOV {
	ref := image.Pt(c.opts.ScreenWidth/2, c.opts.ScreenHeight/2)
	if snap.ClosestToMouse {
		ref = c.deps.Cursor.Position()
	}
	fov := images.NewFOV(ref, snap.FOVSize)

	c.statsMu.Lock()
	c.region = fov
	c.statsMu.Unlock()
	return fov
}

// lose drops the current track.
func (c *Controller) lose() {
	c.deps.Overlay.Clear()
	c.statsMu.Lock()
	c.hasLastBox = false
	c.lastBox = images.Rect{}
	c.statsMu.Unlock()
	c.smoother.Reset()
}

func (c *Controller) smooth(snap Snapshot, target transform.Target, now time.Time) (int, int) {
	if !snap.Predictions || !snap.MethodKnown {
		return target.X, target.Y
	}

	if snap.Method != c.method {
		c.method = snap.Method
		c.smoother = predict.New(snap.Method, c.opts.Predict)
	}

	x, y := c.smoother.Observe(float64(target.X), float64(target.Y), now)
	return int(x), int(y)
}

func (c *Controller) persist(frame *images.Frame, label *images.Rect) {
	if c.deps.Persister == nil {
		return
	}

	id, err := c.deps.Persister.SaveFrame(frame)
	if err != nil {
		c.deps.Logger.Warn().Err(err).Msg("Failed to save frame")
		return
	}
	if id == "" || label == nil {
		return
	}
	if err := c.deps.Persister.SaveLabel(id, frame, *label); err != nil {
		c.deps.Logger.Warn().Err(err).Str("id", id).Msg("Failed to save label")
	}
}

// LastBox returns the last selected box in screen coordinates.
func (c *Controller) LastBox() (images.Rect, bool) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.lastBox, c.hasLastBox
}

// Region returns the FOV used by the most recent cycle.
func (c *Controller) Region() images.FOV {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.region
}

// Stats returns the iteration count and timings.
func (c *Controller) Stats() Stats {
	c.statsMu.Lock()
	s := Stats{Iterations: c.iterations}
	if c.iterations > 0 {
		s.AverageCycle = c.totalTime / time.Duration(c.iterations)
	}
	c.statsMu.Unlock()

	s.Timings = c.tracker.Timings()
	return s
}
