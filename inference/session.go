package inference

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-aim/inference/providers"
)

// Session is an ONNX Runtime session bound to preallocated input and output
// tensors.
type Session struct {
	Session *ort.AdvancedSession
	Input   *ort.Tensor[float32]
	Output  *ort.Tensor[float32]
	Backend providers.Backend
}

// Close releases the resources associated with the Session.
func (s *Session) Close() error {
	var firstErr error
	if s.Session != nil {
		if err := s.Session.Destroy(); err != nil {
			firstErr = fmt.Errorf("error destroying ORT session: %w", err)
		}
		s.Session = nil
	}
	if s.Input != nil {
		s.Input.Destroy()
		s.Input = nil
	}
	if s.Output != nil {
		s.Output.Destroy()
		s.Output = nil
	}
	return firstErr
}

// newSession creates a session for the model on one backend.
//
// Arguments:
//   - cfg: Model path, tensor names and session settings.
//   - backend: The execution provider to use.
//
// Returns:
//   - *Session: The session with its tensors.
//   - error: An error if any native resource cannot be created.
func newSession(cfg Config, backend providers.Backend) (*Session, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, InputSize, InputSize))
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}

	options, err := providers.SessionOptions(cfg.Optimization, backend)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, err
	}
	defer options.Destroy()

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("error creating ORT session: %w", err)
	}

	return &Session{
		Session: session,
		Input:   inputTensor,
		Output:  outputTensor,
		Backend: backend,
	}, nil
}
