package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFramePadsStride(t *testing.T) {
	f := NewFrame(5, 2)
	assert.Equal(t, 16, f.Stride, "5*3=15 bytes padded to a 4-byte boundary")
	assert.Len(t, f.Pix, 32)
	assert.True(t, f.Valid())

	f = NewFrame(640, 640)
	assert.Equal(t, 1920, f.Stride)
}

func TestFrameEnsureReusesBuffer(t *testing.T) {
	f := NewFrame(640, 640)
	assert.Same(t, f, f.Ensure(640, 640))

	g := f.Ensure(320, 640)
	assert.NotSame(t, f, g)
	assert.Equal(t, 320, g.Width)

	var nilFrame *Frame
	assert.NotNil(t, nilFrame.Ensure(10, 10))
}

func TestFrameValid(t *testing.T) {
	var nilFrame *Frame
	assert.False(t, nilFrame.Valid())
	assert.False(t, (&Frame{}).Valid())
	assert.False(t, (&Frame{Width: 10, Height: 10, Stride: 30, Pix: make([]byte, 10)}).Valid())
}

func TestFrameCopyFromAndAt(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.Set(2, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	f := NewFrame(3, 2)
	f.CopyFrom(src)

	require.Equal(t, byte(30), f.Pix[0], "blue is stored first")
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, f.At(0, 0))
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, f.At(2, 1))
	assert.Equal(t, color.RGBA{}, f.At(5, 5))
}
