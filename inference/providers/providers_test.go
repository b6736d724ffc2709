package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	for _, b := range Backends {
		got, err := ParseBackend(string(b))
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}

	got, err := ParseBackend(" DirectML ")
	require.NoError(t, err)
	assert.Equal(t, DirectMLBackend, got)

	_, err = ParseBackend("tpu")
	assert.Error(t, err)
}

func TestChainFallsBackToCPU(t *testing.T) {
	assert.Equal(t, []Backend{DirectMLBackend, CPUBackend}, Chain(DirectMLBackend))
	assert.Equal(t, []Backend{CUDABackend, CPUBackend}, Chain(CUDABackend))
	assert.Equal(t, []Backend{CPUBackend}, Chain(CPUBackend))
	assert.Equal(t, []Backend{CPUBackend}, Chain(""))
}

func TestDefaultBackendIsKnown(t *testing.T) {
	assert.Contains(t, Backends, DefaultBackend())
}

func TestSharedLibPath(t *testing.T) {
	assert.Equal(t, "/opt/ort.so", SharedLibPath("/opt/ort.so"))

	t.Setenv(LibraryPathEnv, "/env/ort.so")
	assert.Equal(t, "/env/ort.so", SharedLibPath(""))

	t.Setenv(LibraryPathEnv, "")
	assert.NotEmpty(t, SharedLibPath(""))
}

func TestDefaultOptimizationConfig(t *testing.T) {
	cfg := DefaultOptimizationConfig()
	assert.GreaterOrEqual(t, cfg.IntraOpNumThreads, 1)
	assert.GreaterOrEqual(t, cfg.InterOpNumThreads, 1)
	assert.True(t, cfg.EnableMemoryPattern)
}
