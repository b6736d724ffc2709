// Package profiler keeps rolling timing statistics for the aim loop and
// reports them through the logger.
package profiler

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Operation names recorded by the aim loop.
const (
	OpCycle     = "cycle"
	OpCapture   = "capture"
	OpInference = "inference"
	OpExtract   = "extract"
)

// TimeTracker tracks timing statistics for one operation over a rolling
// window of samples.
type TimeTracker struct {
	name      string
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Timing is a snapshot of a TimeTracker.
type Timing struct {
	Name  string        `json:"name"`
	Avg   time.Duration `json:"avg"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Count int64         `json:"count"`
}

func (t *TimeTracker) record(d time.Duration, maxSamples int) {
	if t.count == 0 {
		t.minTime, t.maxTime = d, d
	}

	t.durations = append(t.durations, d)
	if len(t.durations) > maxSamples {
		// Remove oldest sample
		t.totalTime -= t.durations[0]
		t.durations = t.durations[1:]
	}

	t.totalTime += d
	t.count++

	if d < t.minTime {
		t.minTime = d
	}
	if d > t.maxTime {
		t.maxTime = d
	}
}

func (t *TimeTracker) snapshot() Timing {
	s := Timing{Name: t.name, Min: t.minTime, Max: t.maxTime, Count: t.count}
	if n := len(t.durations); n > 0 {
		s.Avg = t.totalTime / time.Duration(n)
	}
	return s
}

// Options configures a Tracker.
type Options struct {
	// ReportInterval specifies how often Run logs a report (default: 5s).
	ReportInterval time.Duration
	// MaxSamples bounds the rolling window per operation (default: 1000).
	MaxSamples int
}

// Tracker records operation durations. It is safe for concurrent use.
type Tracker struct {
	mu             sync.RWMutex
	opts           Options
	startTime      time.Time
	operationTimes map[string]*TimeTracker
}

// New creates a Tracker with the given options.
//
// Arguments:
//   - opts: Configuration options; zero fields take defaults.
//
// Returns:
//   - *Tracker: An empty tracker.
func New(opts Options) *Tracker {
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = 5 * time.Second
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 1000
	}
	return &Tracker{
		opts:           opts,
		startTime:      time.Now(),
		operationTimes: make(map[string]*TimeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
//   - name: The name of the operation to track.
//
// Returns:
//   - func(): Call when the operation completes.
func (t *Tracker) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		t.Record(name, time.Since(start))
	}
}

// Record adds one duration sample for name.
func (t *Tracker) Record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracker, ok := t.operationTimes[name]
	if !ok {
		tracker = &TimeTracker{name: name}
		t.operationTimes[name] = tracker
	}
	tracker.record(d, t.opts.MaxSamples)
}

// Timing returns the statistics for name and whether any sample exists.
func (t *Tracker) Timing(name string) (Timing, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tracker, ok := t.operationTimes[name]
	if !ok {
		return Timing{Name: name}, false
	}
	return tracker.snapshot(), true
}

// Timings returns every operation, sorted by name.
func (t *Tracker) Timings() []Timing {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Timing, 0, len(t.operationTimes))
	for _, tracker := range t.operationTimes {
		out = append(out, tracker.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report logs one line per operation plus runtime memory figures.
func (t *Tracker) Report(logger zerolog.Logger) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	logger.Info().
		Dur("uptime", time.Since(t.startTime).Truncate(time.Millisecond)).
		Int("goroutines", runtime.NumGoroutine()).
		Uint64("heap_alloc", mem.HeapAlloc).
		Uint32("gc_cycles", mem.NumGC).
		Msg("Runtime status")

	for _, s := range t.Timings() {
		logger.Info().
			Str("operation", s.Name).
			Dur("avg", s.Avg.Truncate(time.Microsecond)).
			Dur("min", s.Min.Truncate(time.Microsecond)).
			Dur("max", s.Max.Truncate(time.Microsecond)).
			Int64("count", s.Count).
			Msg("Operation timing")
	}
}

// Run logs a report every ReportInterval until ctx ends.
func (t *Tracker) Run(ctx context.Context, logger zerolog.Logger) {
	ticker := time.NewTicker(t.opts.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Report(logger)
		}
	}
}
