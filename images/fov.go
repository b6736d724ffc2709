package images

import "image"

// ImageSize is the side length of the square detection crop and of the model
// input.
const ImageSize = 640

// FOV describes where a cycle looks: the square screen crop handed to the
// detector and the sub-rectangle of that crop in which candidates are
// eligible.
type FOV struct {
	// Reference is the screen point the crop is centered on.
	Reference image.Point
	// Crop is the captured region in screen coordinates.
	Crop image.Rectangle
	// Filter bounds eligible candidates, in crop-local coordinates.
	Filter Rect
}

// NewFOV derives the crop and filter rectangle for a reference point and a
// configured FOV size. The filter is centered in the crop with side size.
func NewFOV(reference image.Point, size float32) FOV {
	if size < 0 {
		size = 0
	}
	half := ImageSize / 2
	lo := (ImageSize - size) / 2
	hi := (ImageSize + size) / 2
	return FOV{
		Reference: reference,
		Crop:      image.Rect(reference.X-half, reference.Y-half, reference.X+half, reference.Y+half),
		Filter:    RectFromBounds(lo, lo, hi, hi),
	}
}

// Center returns the crop center in crop-local coordinates.
func (f FOV) Center() (float64, float64) {
	return float64(f.Crop.Dx()) / 2, float64(f.Crop.Dy()) / 2
}
