package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-aim/images"
)

func TestPrepareInputChannelOrder(t *testing.T) {
	frame := images.NewFrame(InputSize, InputSize)
	frame.SetRGB(0, 0, 255, 0, 0)
	frame.SetRGB(1, 0, 0, 255, 0)
	frame.SetRGB(0, 1, 0, 0, 255)

	dst := make([]float32, InputLen)
	require.NoError(t, PrepareInput(frame, dst))

	plane := InputSize * InputSize
	red, green, blue := dst[:plane], dst[plane:2*plane], dst[2*plane:]

	assert.Equal(t, float32(1), red[0])
	assert.Equal(t, float32(0), green[0])
	assert.Equal(t, float32(0), blue[0])

	assert.Equal(t, float32(0), red[1])
	assert.Equal(t, float32(1), green[1])

	assert.Equal(t, float32(1), blue[InputSize])
	assert.Equal(t, float32(0), red[InputSize])
}

func TestPrepareInputSkipsStridePadding(t *testing.T) {
	frame := images.NewFrame(InputSize, InputSize)
	// Widen each row with junk padding bytes.
	stride := InputSize*images.BytesPerPixel + 4
	pix := make([]byte, stride*InputSize)
	for y := 0; y < InputSize; y++ {
		for p := InputSize * images.BytesPerPixel; p < stride; p++ {
			pix[y*stride+p] = 0xff
		}
	}
	frame.Pix, frame.Stride = pix, stride
	frame.SetRGB(0, 1, 51, 102, 204)

	dst := make([]float32, InputLen)
	require.NoError(t, PrepareInput(frame, dst))

	plane := InputSize * InputSize
	for i := 0; i < InputSize; i++ {
		require.Zero(t, dst[i], "row 0 pixel %d", i)
	}
	assert.InDelta(t, 0.2, dst[InputSize], 1e-6)
	assert.InDelta(t, 0.4, dst[plane+InputSize], 1e-6)
	assert.InDelta(t, 0.8, dst[2*plane+InputSize], 1e-6)
}

func TestPrepareInputResizes(t *testing.T) {
	frame := images.NewFrame(320, 320)
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			frame.SetRGB(x, y, 255, 128, 0)
		}
	}

	dst := make([]float32, InputLen)
	require.NoError(t, PrepareInput(frame, dst))

	plane := InputSize * InputSize
	center := InputSize/2*InputSize + InputSize/2
	assert.InDelta(t, 1.0, dst[center], 0.01)
	assert.InDelta(t, 128.0/255.0, dst[plane+center], 0.01)
	assert.InDelta(t, 0.0, dst[2*plane+center], 0.01)
}

func TestPrepareInputErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame *images.Frame
		dst   []float32
	}{
		{name: "nil frame", frame: nil, dst: make([]float32, InputLen)},
		{name: "empty frame", frame: &images.Frame{}, dst: make([]float32, InputLen)},
		{name: "short buffer", frame: images.NewFrame(InputSize, InputSize), dst: make([]float32, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, PrepareInput(tt.frame, tt.dst))
		})
	}
}

func TestValidateOutputShape(t *testing.T) {
	assert.NoError(t, ValidateOutputShape([]int64{1, 5, 8400}))
	assert.Error(t, ValidateOutputShape([]int64{1, 84, 8400}))
	assert.Error(t, ValidateOutputShape([]int64{1, 5}))
	assert.Error(t, ValidateOutputShape(nil))
}
