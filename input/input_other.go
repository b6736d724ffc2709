//go:build !windows

package input

import "image"

func sendMove(dx, dy int) error { return nil }

func sendClick() error { return nil }

func cursorPos() image.Point { return image.Point{} }

func keyDown(string) bool { return false }
