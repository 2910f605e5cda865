//go:build !windows

package game

import (
	"github.com/go-vgo/robotgo"
)

// HID drives the pointer and keyboard through robotgo on platforms without SendInput.
type HID struct{}

func NewHID() *HID {
	return &HID{}
}

func (h *HID) MovePointer(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (h *HID) CursorPosition() (Point, error) {
	x, y := robotgo.Location()
	return Point{X: x, Y: y}, nil
}

func (h *HID) LeftClick() error {
	robotgo.Click("left")
	return nil
}

func (h *HID) KeyDown(key string) error {
	return robotgo.KeyToggle(key, "down")
}

func (h *HID) KeyUp(key string) error {
	return robotgo.KeyToggle(key, "up")
}

func (h *HID) Wheel(x, y, delta int) error {
	robotgo.Move(x, y)

	notches := delta / WheelDelta
	switch {
	case notches > 0:
		robotgo.ScrollDir(notches, "up")
	case notches < 0:
		robotgo.ScrollDir(-notches, "down")
	}
	return nil
}
