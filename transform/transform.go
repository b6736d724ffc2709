// Package transform maps a selected detection box to a single aim point.
package transform

import (
	"strings"

	"github.com/nvr-ai/go-aim/images"
)

// Alignment picks the vertical anchor inside the box.
type Alignment int

const (
	// AlignCenter aims at the vertical middle of the box.
	AlignCenter Alignment = iota
	// AlignTop aims at the top edge.
	AlignTop
	// AlignBottom aims at the bottom edge.
	AlignBottom
)

// ParseAlignment maps the dropdown text to an Alignment. Unknown values
// give AlignTop, a zero vertical adjustment.
func ParseAlignment(s string) Alignment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center":
		return AlignCenter
	case "bottom":
		return AlignBottom
	default:
		return AlignTop
	}
}

func (a Alignment) String() string {
	switch a {
	case AlignTop:
		return "Top"
	case AlignBottom:
		return "Bottom"
	default:
		return "Center"
	}
}

// Params holds the scale factors and offset policy of the transform.
type Params struct {
	// ScaleX, ScaleY convert crop pixels to screen pixels (screen size / 640).
	ScaleX float64 `json:"scale_x" yaml:"scale_x"`
	ScaleY float64 `json:"scale_y" yaml:"scale_y"`

	// UsePercentX, UsePercentY switch an axis from pixel offsets to a
	// percentage of the box size.
	UsePercentX bool `json:"use_percent_x" yaml:"use_percent_x"`
	UsePercentY bool `json:"use_percent_y" yaml:"use_percent_y"`

	// OffsetX, OffsetY are pixel offsets added after scaling.
	OffsetX float64 `json:"offset_x" yaml:"offset_x"`
	OffsetY float64 `json:"offset_y" yaml:"offset_y"`

	// PercentX is measured from the left edge, PercentY from the bottom edge.
	PercentX float64 `json:"percent_x" yaml:"percent_x"`
	PercentY float64 `json:"percent_y" yaml:"percent_y"`

	Alignment Alignment `json:"alignment" yaml:"alignment"`
}

// Target is an aim point in screen space.
type Target struct {
	X, Y       int
	Confidence float32
}

// Compute turns box into an aim point. It is a pure function: the float
// result is truncated toward zero, so identical inputs always give identical
// integers.
//
// box is crop-local: the crop's screen origin is not added. Scaling by
// screen/640 then maps the centered crop onto the screen-center reference
// the pointer moves relative to.
//
// Horizontal:
//
//	percent: (x + w*pct/100) * scaleX
//	pixel:   (x + w/2) * scaleX + offsetX
//
// Vertical:
//
//	percent: (y + h - h*pct/100) * scaleY + offsetY
//	pixel:   (y + adj) * scaleY + offsetY, adj = 0 | h/2 | h for Top | Center | Bottom
func Compute(box images.Rect, p Params) (int, int) {
	x, y := float64(box.X), float64(box.Y)
	w, h := float64(box.Width), float64(box.Height)

	var tx float64
	if p.UsePercentX {
		tx = (x + w*(p.PercentX/100)) * p.ScaleX
	} else {
		tx = (x+w/2)*p.ScaleX + p.OffsetX
	}

	var ty float64
	if p.UsePercentY {
		ty = (y+h-h*(p.PercentY/100))*p.ScaleY + p.OffsetY
	} else {
		var adj float64
		switch p.Alignment {
		case AlignCenter:
			adj = h / 2
		case AlignBottom:
			adj = h
		}
		ty = (y+adj)*p.ScaleY + p.OffsetY
	}

	return int(tx), int(ty)
}

// ComputeTarget is Compute for a scored box.
func ComputeTarget(box images.Rect, confidence float32, p Params) Target {
	x, y := Compute(box, p)
	return Target{X: x, Y: y, Confidence: confidence}
}
