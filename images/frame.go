package images

import (
	"image"
	"image/color"
)

// BytesPerPixel is the pixel size of a Frame (8-bit B, G, R).
const BytesPerPixel = 3

// Frame is a 24-bit BGR pixel buffer. Rows are padded to a 4-byte boundary,
// so Stride may be larger than Width*3 and consumers must index rows by
// Stride.
//
// A Frame is owned by the capture side and reused between cycles; callers
// that borrow it must not keep a reference once the cycle ends.
type Frame struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
}

// NewFrame allocates a zeroed frame of the given size.
func NewFrame(width, height int) *Frame {
	stride := (width*BytesPerPixel + 3) &^ 3
	return &Frame{
		Pix:    make([]byte, stride*height),
		Stride: stride,
		Width:  width,
		Height: height,
	}
}

// Ensure returns f when it already has the requested size, otherwise a newly
// allocated frame. A nil f always allocates.
func (f *Frame) Ensure(width, height int) *Frame {
	if f != nil && f.Width == width && f.Height == height {
		return f
	}
	return NewFrame(width, height)
}

// Valid reports whether the frame holds a usable, non-degenerate image.
func (f *Frame) Valid() bool {
	return f != nil && f.Width > 0 && f.Height > 0 &&
		f.Stride >= f.Width*BytesPerPixel &&
		len(f.Pix) >= f.Stride*(f.Height-1)+f.Width*BytesPerPixel
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (f *Frame) PixOffset(x, y int) int {
	return y*f.Stride + x*BytesPerPixel
}

// SetRGB stores a pixel.
func (f *Frame) SetRGB(x, y int, r, g, b uint8) {
	i := f.PixOffset(x, y)
	f.Pix[i+0] = b
	f.Pix[i+1] = g
	f.Pix[i+2] = r
}

// CopyFrom fills the frame from src, which must have the frame's size.
func (f *Frame) CopyFrom(src *image.RGBA) {
	b := src.Bounds()
	for y := 0; y < f.Height && y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		dst := f.Pix[y*f.Stride:]
		for x := 0; x < f.Width && x < b.Dx(); x++ {
			dst[x*3+0] = row[x*4+2]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4+0]
		}
	}
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{}
	}
	i := f.PixOffset(x, y)
	return color.RGBA{R: f.Pix[i+2], G: f.Pix[i+1], B: f.Pix[i], A: 0xff}
}

// RGBA returns a copy of the frame as an *image.RGBA.
func (f *Frame) RGBA() *image.RGBA {
	dst := image.NewRGBA(f.Bounds())
	for y := 0; y < f.Height; y++ {
		src := f.Pix[y*f.Stride:]
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < f.Width; x++ {
			row[x*4+0] = src[x*3+2]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3+0]
			row[x*4+3] = 0xff
		}
	}
	return dst
}
