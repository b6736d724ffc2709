// Package inference - Detector input preparation and ONNX sessions.
package inference

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-aim/images"
)

// InputSize is the model input side length.
const InputSize = images.ImageSize

// InputLen is the number of floats in a [1, 3, 640, 640] input tensor.
const InputLen = 3 * InputSize * InputSize

// PrepareInput writes frame into dst as a channel-first [1, 3, 640, 640]
// tensor with R, G, B planes scaled to [0, 1]. Row padding in the frame is
// skipped. Frames of any other size are resized first.
//
// Arguments:
//   - frame: A 24-bit BGR frame.
//   - dst: The destination tensor data, at least InputLen long.
//
// Returns:
//   - error: An error if the frame is unusable or dst is too small.
func PrepareInput(frame *images.Frame, dst []float32) error {
	if !frame.Valid() {
		return errors.New("frame is empty or malformed")
	}
	if len(dst) < InputLen {
		return errors.Errorf("destination tensor only holds %d floats, needs %d", len(dst), InputLen)
	}

	if frame.Width != InputSize || frame.Height != InputSize {
		resized := resize.Resize(InputSize, InputSize, frame.RGBA(), resize.Bilinear)
		rgba, ok := resized.(*image.RGBA)
		if !ok {
			return errors.Errorf("unexpected resize output %T", resized)
		}
		frame = images.NewFrame(InputSize, InputSize)
		frame.CopyFrom(rgba)
	}

	const scale = float32(1.0 / 255.0)
	plane := InputSize * InputSize
	red := dst[0:plane]
	green := dst[plane : 2*plane]
	blue := dst[2*plane : 3*plane]

	i := 0
	for y := 0; y < frame.Height; y++ {
		row := frame.Pix[y*frame.Stride : y*frame.Stride+frame.Width*images.BytesPerPixel]
		for x := 0; x < len(row); x += images.BytesPerPixel {
			blue[i] = float32(row[x]) * scale
			green[i] = float32(row[x+1]) * scale
			red[i] = float32(row[x+2]) * scale
			i++
		}
	}
	return nil
}
