// Package providers - ONNX Runtime execution provider selection.
package providers

import (
	"fmt"
	"runtime"
	"strings"
)

// Backend is an ONNX Runtime execution provider.
type Backend string

const (
	// DirectMLBackend runs on any DirectX 12 GPU (Windows).
	DirectMLBackend Backend = "directml"
	// CUDABackend runs on NVIDIA GPUs.
	CUDABackend Backend = "cuda"
	// CoreMLBackend runs on Apple hardware.
	CoreMLBackend Backend = "coreml"
	// OpenVINOBackend runs on Intel hardware.
	OpenVINOBackend Backend = "openvino"
	// CPUBackend is always available.
	CPUBackend Backend = "cpu"
)

// Backends lists every supported backend.
var Backends = []Backend{DirectMLBackend, CUDABackend, CoreMLBackend, OpenVINOBackend, CPUBackend}

// ParseBackend maps a name to a Backend.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Backends {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown execution provider %q", s)
}

// DefaultBackend returns the preferred accelerator for the running platform.
func DefaultBackend() Backend {
	switch runtime.GOOS {
	case "windows":
		return DirectMLBackend
	case "darwin":
		return CoreMLBackend
	default:
		return CPUBackend
	}
}

// Chain returns the order in which backends are tried: the preferred one,
// then CPU.
func Chain(preferred Backend) []Backend {
	if preferred == "" || preferred == CPUBackend {
		return []Backend{CPUBackend}
	}
	return []Backend{preferred, CPUBackend}
}
