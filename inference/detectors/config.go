// Package detectors - Decoding of single-class YOLOv8 detection tensors.
package detectors

import "github.com/nvr-ai/go-aim/images"

const (
	// Channels is the number of values per detection slot: center-x,
	// center-y, width, height and objectness.
	Channels = 5
	// Slots is the number of detection slots of a 640x640 YOLOv8 head.
	Slots = 8400
)

// ExtractConfig controls which detection slots survive decoding.
type ExtractConfig struct {
	// MinConfidence drops slots whose objectness is below it (0-1).
	MinConfidence float32 `json:"min_confidence" yaml:"min_confidence"`

	// FOV bounds eligible boxes in crop-local pixels. A box must lie
	// entirely inside it.
	FOV images.Rect `json:"fov" yaml:"fov"`

	// ImageSize is the crop side length used to normalize centers.
	ImageSize int `json:"image_size" yaml:"image_size"`
}

// DefaultExtractConfig returns a configuration that accepts boxes anywhere
// in the crop with at least 45% confidence.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		MinConfidence: 0.45,
		FOV:           images.Rect{Width: images.ImageSize, Height: images.ImageSize},
		ImageSize:     images.ImageSize,
	}
}
