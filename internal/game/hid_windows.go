//go:build windows

package game

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procMapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
)

const mapvkVkToVsc = 0

var namedKeys = map[string]uint16{
	"enter":  win.VK_RETURN,
	"esc":    win.VK_ESCAPE,
	"escape": win.VK_ESCAPE,
	"space":  win.VK_SPACE,
	"tab":    win.VK_TAB,
	"shift":  win.VK_SHIFT,
	"ctrl":   win.VK_CONTROL,
	"alt":    win.VK_MENU,
	"up":     win.VK_UP,
	"down":   win.VK_DOWN,
	"left":   win.VK_LEFT,
	"right":  win.VK_RIGHT,
}

// HID sends input through SendInput. Keys go out as scan codes because games reading raw
// input ignore virtual-key only events.
type HID struct{}

func NewHID() *HID {
	return &HID{}
}

func (h *HID) MovePointer(x, y int) error {
	if !win.SetCursorPos(int32(x), int32(y)) {
		return fmt.Errorf("SetCursorPos(%d, %d) failed", x, y)
	}
	return nil
}

func (h *HID) CursorPosition() (Point, error) {
	var p win.POINT
	if !win.GetCursorPos(&p) {
		return Point{}, fmt.Errorf("GetCursorPos failed")
	}
	return Point{X: int(p.X), Y: int(p.Y)}, nil
}

func (h *HID) LeftClick() error {
	if err := sendMouse(win.MOUSEEVENTF_LEFTDOWN, 0); err != nil {
		return err
	}
	return sendMouse(win.MOUSEEVENTF_LEFTUP, 0)
}

func (h *HID) Wheel(x, y, delta int) error {
	if err := h.MovePointer(x, y); err != nil {
		return err
	}
	return sendMouse(win.MOUSEEVENTF_WHEEL, uint32(int32(delta)))
}

func (h *HID) KeyDown(key string) error {
	return sendKey(key, 0)
}

func (h *HID) KeyUp(key string) error {
	return sendKey(key, win.KEYEVENTF_KEYUP)
}

func sendMouse(flags uint32, data uint32) error {
	in := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&in), int32(unsafe.Sizeof(in))) != 1 {
		return fmt.Errorf("SendInput mouse flags=%#x rejected", flags)
	}
	return nil
}

func sendKey(key string, flags uint32) error {
	vk, err := virtualKey(key)
	if err != nil {
		return err
	}

	scan, _, _ := procMapVirtualKeyW.Call(uintptr(vk), mapvkVkToVsc)
	in := win.KEYBD_INPUT{
		Type: win.INPUT_KEYBOARD,
		Ki: win.KEYBDINPUT{
			WScan:   uint16(scan),
			DwFlags: flags | win.KEYEVENTF_SCANCODE,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&in), int32(unsafe.Sizeof(in))) != 1 {
		return fmt.Errorf("SendInput key %q rejected", key)
	}
	return nil
}

func virtualKey(key string) (uint16, error) {
	k := strings.ToLower(key)
	if vk, ok := namedKeys[k]; ok {
		return vk, nil
	}

	if len(k) == 1 {
		c := k[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint16(c - 'a' + 'A'), nil
		case c >= '0' && c <= '9':
			return uint16(c), nil
		}
	}

	if len(k) >= 2 && k[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(k[1:], "%d", &n); err == nil && n >= 1 && n <= 12 {
			return uint16(win.VK_F1 + n - 1), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKey, key)
}
