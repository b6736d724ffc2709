package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-aim/images"
	"github.com/nvr-ai/go-aim/inference/detectors"
	"github.com/nvr-ai/go-aim/inference/providers"
)

// OutputShape is the output layout of a single-class YOLOv8 export.
var OutputShape = []int64{1, detectors.Channels, detectors.Slots}

// ErrNotReady is returned while no model is loaded.
var ErrNotReady = errors.New("inference engine not ready")

// Engine runs the detector on one frame at a time.
type Engine interface {
	// Detect blocks until inference on frame completes. The returned
	// output may alias engine memory and is only valid until the next call.
	Detect(ctx context.Context, frame *images.Frame) (detectors.Output, error)
	// Ready reports whether a model is loaded.
	Ready() bool
	Close() error
}

// Config describes the model and how to run it.
type Config struct {
	// ModelPath is the path of the .onnx file.
	ModelPath string `json:"model_path" yaml:"model_path"`
	// LibraryPath is the onnxruntime shared library; empty uses the default.
	LibraryPath string `json:"library_path" yaml:"library_path"`
	// Backend is the preferred execution provider; CPU is the fallback.
	Backend providers.Backend `json:"backend" yaml:"backend"`
	// Optimization holds session settings.
	Optimization providers.OptimizationConfig `json:"optimization" yaml:"optimization"`
	// InputName and OutputName override the tensor names read from the
	// model metadata.
	InputName  string `json:"input_name" yaml:"input_name"`
	OutputName string `json:"output_name" yaml:"output_name"`
}

// DefaultConfig returns a configuration for the platform's preferred
// accelerator.
func DefaultConfig() Config {
	return Config{
		Backend:      providers.DefaultBackend(),
		Optimization: providers.DefaultOptimizationConfig(),
	}
}

// ValidateOutputShape checks dims against OutputShape.
func ValidateOutputShape(dims []int64) error {
	if !slices.Equal(dims, OutputShape) {
		return fmt.Errorf("output shape %v does not match the expected %v; use a YOLOv8 model exported to ONNX", dims, OutputShape)
	}
	return nil
}

// ONNXEngine runs a YOLOv8 ONNX model through onnxruntime.
type ONNXEngine struct {
	mu      sync.Mutex
	session *Session
	logger  zerolog.Logger
}

var envMu sync.Mutex

// initEnvironment loads the onnxruntime library once per process.
func initEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if _, err := os.Stat(libPath); err != nil {
		return fmt.Errorf("ONNX Runtime library not found at %s: %w", libPath, err)
	}
	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("error initializing ORT environment: %w", err)
	}
	return nil
}

// NewONNXEngine loads the model, trying the preferred backend first and
// falling back to CPU. A model whose output shape differs from OutputShape
// is still loaded, with a warning.
//
// Arguments:
//   - cfg: The model configuration.
//   - logger: Receives load progress and fallback warnings.
//
// Returns:
//   - *ONNXEngine: A ready engine.
//   - error: An error if no backend could load the model.
func NewONNXEngine(cfg Config, logger zerolog.Logger) (*ONNXEngine, error) {
	if err := initEnvironment(providers.SharedLibPath(cfg.LibraryPath)); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("error reading model metadata: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model %s declares no inputs or outputs", cfg.ModelPath)
	}
	if cfg.InputName == "" {
		cfg.InputName = inputs[0].Name
	}
	if cfg.OutputName == "" {
		cfg.OutputName = outputs[0].Name
	}
	for _, out := range outputs {
		if err := ValidateOutputShape(out.Dimensions); err != nil {
			logger.Warn().Err(err).Str("output", out.Name).Msg("Unexpected model output shape")
		}
	}

	var errs []error
	for _, backend := range providers.Chain(cfg.Backend) {
		session, err := newSession(cfg, backend)
		if err != nil {
			logger.Warn().Err(err).Str("backend", string(backend)).Msg("Failed to start model, trying next provider")
			errs = append(errs, fmt.Errorf("%s: %w", backend, err))
			continue
		}

		logger.Info().
			Str("model", cfg.ModelPath).
			Str("backend", string(backend)).
			Str("input", cfg.InputName).
			Str("output", cfg.OutputName).
			Msg("Model loaded")
		return &ONNXEngine{session: session, logger: logger}, nil
	}

	return nil, fmt.Errorf("no execution provider could load %s: %w", cfg.ModelPath, errors.Join(errs...))
}

// Detect implements Engine.
func (e *ONNXEngine) Detect(ctx context.Context, frame *images.Frame) (detectors.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return detectors.Output{}, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return detectors.Output{}, err
	}

	if err := PrepareInput(frame, e.session.Input.GetData()); err != nil {
		return detectors.Output{}, fmt.Errorf("failed to prepare input: %w", err)
	}
	if err := e.session.Session.Run(); err != nil {
		return detectors.Output{}, fmt.Errorf("failed to run inference: %w", err)
	}

	return detectors.NewOutput(e.session.Output.GetData(), detectors.Slots)
}

// Ready implements Engine.
func (e *ONNXEngine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// Backend returns the execution provider in use.
func (e *ONNXEngine) Backend() providers.Backend {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ""
	}
	return e.session.Backend
}

// Close implements Engine.
func (e *ONNXEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	err := e.session.Close()
	e.session = nil
	return err
}
