package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(c color.RGBA) GrabFunc {
	return func(region image.Rectangle) (*image.RGBA, error) {
		img := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
		return img, nil
	}
}

func TestCaptureReusesFrame(t *testing.T) {
	s := NewScreenWith(solid(color.RGBA{R: 10, G: 20, B: 30, A: 255}))

	a, err := s.Capture(image.Rect(100, 100, 740, 740))
	require.NoError(t, err)
	assert.Equal(t, 640, a.Width)
	assert.Equal(t, 640, a.Height)

	// BGR order.
	assert.Equal(t, []byte{30, 20, 10}, a.Pix[:3])

	b, err := s.Capture(image.Rect(0, 0, 640, 640))
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := s.Capture(image.Rect(0, 0, 33, 17))
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 33, c.Width)
	assert.Equal(t, 0, c.Stride%4)
	assert.True(t, c.Valid())
}

func TestCaptureErrors(t *testing.T) {
	s := NewScreenWith(solid(color.RGBA{}))
	_, err := s.Capture(image.Rectangle{})
	assert.Error(t, err)

	failing := NewScreenWith(func(image.Rectangle) (*image.RGBA, error) {
		return nil, errors.New("access denied")
	})
	_, err = failing.Capture(image.Rect(0, 0, 10, 10))
	assert.ErrorContains(t, err, "access denied")

	empty := NewScreenWith(func(image.Rectangle) (*image.RGBA, error) { return nil, nil })
	_, err = empty.Capture(image.Rect(0, 0, 10, 10))
	assert.Error(t, err)
}
