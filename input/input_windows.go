//go:build windows

package input

import (
	"errors"
	"image"
	"strings"
	"unsafe"

	"github.com/lxn/win"
)

var errInputBlocked = errors.New("SendInput inserted no events")

var keyCodes = map[string]int32{
	"left":     win.VK_LBUTTON,
	"right":    win.VK_RBUTTON,
	"middle":   win.VK_MBUTTON,
	"xbutton1": win.VK_XBUTTON1,
	"xbutton2": win.VK_XBUTTON2,
	"lmenu":    win.VK_LMENU,
	"rmenu":    win.VK_RMENU,
	"lshift":   win.VK_LSHIFT,
	"rshift":   win.VK_RSHIFT,
	"lcontrol": win.VK_LCONTROL,
	"rcontrol": win.VK_RCONTROL,
	"capital":  win.VK_CAPITAL,
	"tab":      win.VK_TAB,
	"space":    win.VK_SPACE,
}

func send(inputs ...win.MOUSE_INPUT) error {
	n := win.SendInput(uint32(len(inputs)), unsafe.Pointer(&inputs[0]), int32(unsafe.Sizeof(inputs[0])))
	if n == 0 {
		return errInputBlocked
	}
	return nil
}

func sendMove(dx, dy int) error {
	return send(win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:      int32(dx),
			Dy:      int32(dy),
			DwFlags: win.MOUSEEVENTF_MOVE,
		},
	})
}

func sendClick() error {
	return send(
		win.MOUSE_INPUT{Type: win.INPUT_MOUSE, Mi: win.MOUSEINPUT{DwFlags: win.MOUSEEVENTF_LEFTDOWN}},
		win.MOUSE_INPUT{Type: win.INPUT_MOUSE, Mi: win.MOUSEINPUT{DwFlags: win.MOUSEEVENTF_LEFTUP}},
	)
}

func cursorPos() image.Point {
	var p win.POINT
	if !win.GetCursorPos(&p) {
		return image.Point{}
	}
	return image.Pt(int(p.X), int(p.Y))
}

func keyCode(key string) (int32, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if vk, ok := keyCodes[key]; ok {
		return vk, true
	}
	// Single letters and digits map to their ASCII code.
	if len(key) == 1 {
		c := strings.ToUpper(key)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return int32(c), true
		}
	}
	return 0, false
}

func keyDown(key string) bool {
	vk, ok := keyCode(key)
	if !ok {
		return false
	}
	return win.GetKeyState(vk)&-0x8000 != 0
}
