package detectors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-aim/images"
)

// slot is one detection in center/size form.
type slot struct {
	xc, yc, w, h, conf float32
}

// buildOutput lays slots out channel-major the way the model does, padding
// the remaining slots with zeros.
func buildOutput(t *testing.T, n int, slots ...slot) Output {
	t.Helper()
	data := make([]float32, Channels*n)
	for i, s := range slots {
		data[0*n+i] = s.xc
		data[1*n+i] = s.yc
		data[2*n+i] = s.w
		data[3*n+i] = s.h
		data[4*n+i] = s.conf
	}
	out, err := NewOutput(data, n)
	require.NoError(t, err)
	return out
}

func fovConfig(minConf float32, lo, hi float32) ExtractConfig {
	return ExtractConfig{
		MinConfidence: minConf,
		FOV:           images.RectFromBounds(lo, lo, hi, hi),
		ImageSize:     images.ImageSize,
	}
}

func TestNewOutput(t *testing.T) {
	out, err := NewOutput(make([]float32, Channels*Slots), Slots)
	require.NoError(t, err)
	assert.True(t, out.Ready())
	assert.Equal(t, Slots, out.Slots())
	assert.Equal(t, []int{1, Channels, Slots}, []int(out.Shape()))

	_, err = NewOutput(make([]float32, 10), Slots)
	assert.Error(t, err)

	_, err = NewOutput(nil, 0)
	assert.Error(t, err)
}

func TestOutputAtMatchesTensor(t *testing.T) {
	const n = 7
	data := make([]float32, Channels*n)
	for i := range data {
		data[i] = float32(i)
	}
	out, err := NewOutput(data, n)
	require.NoError(t, err)

	for ch := 0; ch < Channels; ch++ {
		for i := 0; i < n; i++ {
			v, err := out.t.At(0, ch, i)
			require.NoError(t, err)
			assert.Equal(t, v, out.At(ch, i), "channel %d slot %d", ch, i)
		}
	}
}

func TestExtractAllBelowThreshold(t *testing.T) {
	out := buildOutput(t, Slots,
		slot{320, 320, 50, 50, 0.10},
		slot{300, 300, 20, 20, 0.44},
		slot{100, 100, 30, 30, 0.0},
	)

	res := Extract(out, fovConfig(0.45, 0, 640))
	assert.Zero(t, res.Len())
	assert.Empty(t, res.Points)
}

func TestExtractEmptyOutput(t *testing.T) {
	res := Extract(Output{}, DefaultExtractConfig())
	assert.Zero(t, res.Len())
}

func TestExtractFOVContainment(t *testing.T) {
	// FOV of 400 centered in the crop: [120, 520] on both axes.
	tests := []struct {
		name string
		s    slot
		keep bool
	}{
		{"fully inside", slot{320, 320, 50, 50, 0.9}, true},
		{"exactly on every edge", slot{320, 320, 400, 400, 0.9}, true},
		{"min edge touching", slot{145, 320, 50, 50, 0.9}, true},
		{"max edge touching", slot{495, 495, 50, 50, 0.9}, true},
		{"left edge out by one", slot{144, 320, 50, 50, 0.9}, false},
		{"bottom edge out by one", slot{320, 496, 50, 50, 0.9}, false},
		{"entirely outside", slot{20, 20, 10, 10, 0.9}, false},
		{"larger than fov", slot{320, 320, 402, 10, 0.9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(buildOutput(t, 16, tt.s), fovConfig(0.5, 120, 520))
			if tt.keep {
				require.Equal(t, 1, res.Len())
			} else {
				assert.Zero(t, res.Len())
			}
		})
	}
}

func TestExtractDecodesCandidate(t *testing.T) {
	out := buildOutput(t, 8,
		slot{125, 125, 50, 50, 0.8},
		slot{0, 0, 0, 0, 0},
		slot{400, 320, 20, 40, 0.6},
	)

	res := Extract(out, fovConfig(0.5, 0, 640))
	require.Equal(t, 2, res.Len())
	require.Len(t, res.Points, 2)

	c := res.Candidates[0]
	assert.Equal(t, images.Rect{X: 100, Y: 100, Width: 50, Height: 50}, c.Box)
	assert.Equal(t, float32(0.8), c.Confidence)
	assert.InDelta(t, 125.0/640, c.CenterX, 1e-6)
	assert.InDelta(t, 125.0/640, c.CenterY, 1e-6)
	assert.Equal(t, [2]float64{125, 125}, res.Points[0])

	assert.Equal(t, images.Rect{X: 390, Y: 300, Width: 20, Height: 40}, res.Candidates[1].Box)
	assert.Equal(t, [2]float64{400, 320}, res.Points[1])
}

func TestExtractSkipsNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	out := buildOutput(t, 4,
		slot{nan, 320, 10, 10, 0.9},
		slot{320, 320, 10, 10, nan},
		slot{320, 320, float32(math.Inf(1)), 10, 0.9},
	)
	assert.Zero(t, Extract(out, fovConfig(0.1, 0, 640)).Len())
}
