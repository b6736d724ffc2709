package providers

import (
	"fmt"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"
)

// OptimizationConfig contains ONNX Runtime session settings.
type OptimizationConfig struct {
	// GraphOptimizationLevel controls the level of graph optimization
	GraphOptimizationLevel ort.GraphOptimizationLevel `json:"graph_optimization_level" yaml:"graph_optimization_level"`

	// ExecutionMode controls sequential vs parallel execution
	ExecutionMode ort.ExecutionMode `json:"execution_mode" yaml:"execution_mode"`

	// EnableMemoryPattern enables memory pattern optimization
	EnableMemoryPattern bool `json:"enable_memory_pattern" yaml:"enable_memory_pattern"`

	// EnableCPUMemArena enables the CPU memory arena
	EnableCPUMemArena bool `json:"enable_cpu_mem_arena" yaml:"enable_cpu_mem_arena"`

	// IntraOpNumThreads sets threads for parallelizing ops (0 = runtime default)
	IntraOpNumThreads int `json:"intra_op_num_threads" yaml:"intra_op_num_threads"`

	// InterOpNumThreads sets threads for parallelizing independent ops
	InterOpNumThreads int `json:"inter_op_num_threads" yaml:"inter_op_num_threads"`

	// DeviceID selects the GPU for DirectML and CUDA.
	DeviceID int `json:"device_id" yaml:"device_id"`

	// OpenVINO holds provider options passed through to OpenVINO.
	OpenVINO map[string]string `json:"openvino,omitempty" yaml:"openvino,omitempty"`
}

// DefaultOptimizationConfig enables every graph optimization with parallel
// execution, the settings a latency-bound single-stream detector wants.
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		GraphOptimizationLevel: ort.GraphOptimizationLevelEnableAll,
		ExecutionMode:          ort.ExecutionModeParallel,
		EnableMemoryPattern:    true,
		EnableCPUMemArena:      true,
		IntraOpNumThreads:      max(1, runtime.NumCPU()/2),
		InterOpNumThreads:      max(1, runtime.NumCPU()/4),
		OpenVINO: map[string]string{
			"device_type": "CPU",
			"precision":   "FP32",
		},
	}
}

// SessionOptions builds session options for backend. The caller owns the
// result and must Destroy it.
//
// Arguments:
//   - config: Optimization settings applied to every backend.
//   - backend: The execution provider to append.
//
// Returns:
//   - *ort.SessionOptions: The configured options.
//   - error: An error if the provider cannot be enabled.
func SessionOptions(config OptimizationConfig, backend Backend) (*ort.SessionOptions, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}

	if err := applyOptimization(options, config); err != nil {
		options.Destroy()
		return nil, err
	}

	if err := appendProvider(options, config, backend); err != nil {
		options.Destroy()
		return nil, fmt.Errorf("failed to enable %s provider: %w", backend, err)
	}

	return options, nil
}

func applyOptimization(options *ort.SessionOptions, config OptimizationConfig) error {
	if err := options.SetGraphOptimizationLevel(config.GraphOptimizationLevel); err != nil {
		return fmt.Errorf("error setting graph optimization level: %w", err)
	}
	if err := options.SetExecutionMode(config.ExecutionMode); err != nil {
		return fmt.Errorf("error setting execution mode: %w", err)
	}
	if err := options.SetMemPattern(config.EnableMemoryPattern); err != nil {
		return fmt.Errorf("error setting memory pattern: %w", err)
	}
	if err := options.SetCpuMemArena(config.EnableCPUMemArena); err != nil {
		return fmt.Errorf("error setting CPU memory arena: %w", err)
	}
	if err := options.SetIntraOpNumThreads(config.IntraOpNumThreads); err != nil {
		return fmt.Errorf("error setting intra-op threads: %w", err)
	}
	if err := options.SetInterOpNumThreads(config.InterOpNumThreads); err != nil {
		return fmt.Errorf("error setting inter-op threads: %w", err)
	}
	return nil
}

func appendProvider(options *ort.SessionOptions, config OptimizationConfig, backend Backend) error {
	switch backend {
	case DirectMLBackend:
		return options.AppendExecutionProviderDirectML(config.DeviceID)
	case CUDABackend:
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return err
		}
		defer cuda.Destroy()
		if err := cuda.Update(map[string]string{"device_id": fmt.Sprintf("%d", config.DeviceID)}); err != nil {
			return err
		}
		return options.AppendExecutionProviderCUDA(cuda)
	case CoreMLBackend:
		return options.AppendExecutionProviderCoreML(0)
	case OpenVINOBackend:
		return options.AppendExecutionProviderOpenVINO(config.OpenVINO)
	case CPUBackend:
		// The CPU provider is always registered.
		return nil
	default:
		return fmt.Errorf("unsupported execution provider: %s", backend)
	}
}
