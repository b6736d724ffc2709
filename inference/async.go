package inference

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nvr-ai/go-aim/images"
	"github.com/nvr-ai/go-aim/inference/detectors"
)

// LoadFunc loads an engine. It may block for seconds.
type LoadFunc func() (Engine, error)

// AsyncEngine loads a model in the background. Until loading finishes, and
// forever if it fails, Detect returns ErrNotReady so callers can keep
// running without a model.
type AsyncEngine struct {
	mu     sync.RWMutex
	engine Engine
	err    error
	done   chan struct{}
}

// LoadAsync starts load in a new goroutine.
func LoadAsync(load LoadFunc, logger zerolog.Logger) *AsyncEngine {
	a := &AsyncEngine{done: make(chan struct{})}

	go func() {
		defer close(a.done)

		engine, err := load()

		a.mu.Lock()
		a.engine, a.err = engine, err
		a.mu.Unlock()

		if err != nil {
			logger.Error().Err(err).Msg("Model failed to load, detection is disabled")
		}
	}()

	return a
}

// Wait blocks until loading finishes or ctx ends, and returns the load error.
func (a *AsyncEngine) Wait(ctx context.Context) error {
	select {
	case <-a.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// Detect implements Engine.
func (a *AsyncEngine) Detect(ctx context.Context, frame *images.Frame) (detectors.Output, error) {
	a.mu.RLock()
	engine := a.engine
	a.mu.RUnlock()

	if engine == nil {
		return detectors.Output{}, ErrNotReady
	}
	return engine.Detect(ctx, frame)
}

// Ready implements Engine.
func (a *AsyncEngine) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine != nil && a.engine.Ready()
}

// Close waits for loading to finish and closes the loaded engine.
func (a *AsyncEngine) Close() error {
	<-a.done

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		return nil
	}
	err := a.engine.Close()
	a.engine = nil
	return err
}
