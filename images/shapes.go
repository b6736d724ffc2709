// Package images - Geometry, frame buffers and detection regions.
package images

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// Rect is an axis-aligned box in pixel units with a top-left origin.
type Rect struct {
	X      float32 `json:"x" yaml:"x"`
	Y      float32 `json:"y" yaml:"y"`
	Width  float32 `json:"width" yaml:"width"`
	Height float32 `json:"height" yaml:"height"`
}

// RectFromCenter builds a Rect from a center point and a size, the layout
// YOLO-style detectors emit.
//
// Arguments:
//   - cx, cy: The center of the box.
//   - w, h: The width and height of the box.
//
// Returns:
//   - Rect: The box with its top-left corner at (cx-w/2, cy-h/2).
func RectFromCenter(cx, cy, w, h float32) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

// RectFromBounds builds a Rect from min/max extents.
func RectFromBounds(minX, minY, maxX, maxY float32) Rect {
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float32 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float32 { return r.Y + r.Height }

// Center returns the center point of the box.
func (r Rect) Center() (float32, float32) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether o lies entirely inside r. Edges are inclusive, so
// a box touching the boundary is still contained.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.MaxX() <= r.MaxX() && o.Y >= r.Y && o.MaxY() <= r.MaxY()
}

// Add translates the box by p.
func (r Rect) Add(p image.Point) Rect {
	r.X += float32(p.X)
	r.Y += float32(p.Y)
	return r
}

// Empty reports whether the box has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Finite reports whether every field is a finite number.
func (r Rect) Finite() bool {
	for _, v := range [...]float32{r.X, r.Y, r.Width, r.Height} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ToRectangle converts the box to an integral image.Rectangle. Fractional
// pixels are truncated.
func (r Rect) ToRectangle() image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.MaxX()), int(r.MaxY())).Canon()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.1f, %.1f) %.1fx%.1f", r.X, r.Y, r.Width, r.Height)
}

// IoU measures the overlap between two boxes as
// Area(Intersection) / Area(Union), a value in [0, 1].
//
// Arguments:
//   - o: The other box.
//
// Returns:
//   - float32: 0 for disjoint boxes, 1 for identical boxes.
func (r Rect) IoU(o Rect) float32 {
	ix1 := math32.Max(r.X, o.X)
	iy1 := math32.Max(r.Y, o.Y)
	ix2 := math32.Min(r.MaxX(), o.MaxX())
	iy2 := math32.Min(r.MaxY(), o.MaxY())

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := interW * interH
	union := r.Width*r.Height + o.Width*o.Height - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
