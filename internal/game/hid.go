package game

import (
	"errors"
	"image"

	"github.com/kbinani/screenshot"
)

// WheelDelta is one notch of the mouse wheel.
const WheelDelta = 120

var ErrUnsupportedKey = errors.New("unsupported key")

// InputBackend injects synthetic input. Calls are synchronous and return once the OS accepted
// the event.
type InputBackend interface {
	MovePointer(x, y int) error
	CursorPosition() (Point, error)
	LeftClick() error
	KeyDown(key string) error
	KeyUp(key string) error
	// Wheel sends delta wheel units at (x, y); positive scrolls up.
	Wheel(x, y, delta int) error
}

// Capturer grabs a rectangle of the current display.
type Capturer interface {
	Grab(r Region) (*image.RGBA, error)
}

// ScreenCapturer reads the primary display through the platform screenshot API.
type ScreenCapturer struct{}

func (ScreenCapturer) Grab(r Region) (*image.RGBA, error) {
	if r.Empty() {
		return nil, errors.New("empty capture region")
	}

	return screenshot.CaptureRect(r.Rect())
}
