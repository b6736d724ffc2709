package input

import (
	"image"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	center := image.Pt(960, 540)

	tests := []struct {
		name        string
		target      image.Point
		sensitivity float64
		want        image.Point
	}{
		{name: "on center", target: center, sensitivity: 1, want: image.Point{}},
		{name: "full", target: image.Pt(1000, 500), sensitivity: 1, want: image.Pt(40, -40)},
		{name: "half", target: image.Pt(1000, 500), sensitivity: 0.5, want: image.Pt(20, -20)},
		{name: "rounds", target: image.Pt(963, 540), sensitivity: 0.5, want: image.Pt(2, 0)},
		{name: "zero is full", target: image.Pt(970, 550), sensitivity: 0, want: image.Pt(10, 10)},
		{name: "above one is full", target: image.Pt(970, 550), sensitivity: 3, want: image.Pt(10, 10)},
		{name: "nan is full", target: image.Pt(970, 550), sensitivity: math.NaN(), want: image.Pt(10, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(tt.target, center, tt.sensitivity))
		})
	}
}

func TestMouseDoesNotPanic(t *testing.T) {
	m := NewMouse(image.Pt(1920, 1080), nil, zerolog.Nop())
	assert.Equal(t, image.Pt(960, 540), m.center)
	assert.Equal(t, 1.0, m.sensitivity())

	assert.NotPanics(t, func() {
		m.MoveTo(960, 540)
	})
}

func TestKeyboardUnknownKey(t *testing.T) {
	assert.False(t, Keyboard{}.IsHeld("no such key"))
	assert.False(t, Keyboard{}.IsHeld(""))
}
