package action

import (
	"fmt"
	"time"

	"github.com/filipesarturi/summoner/internal/game"
	"github.com/filipesarturi/summoner/internal/motion"
	"github.com/filipesarturi/summoner/internal/utils"
)

type ScrollDirection int

const (
	ScrollDown ScrollDirection = iota
	ScrollUp
)

func (d ScrollDirection) String() string {
	if d == ScrollUp {
		return "up"
	}
	return "down"
}

const wheelTickPause = 100 * time.Millisecond

// Actions turns intents into synthetic input. It tracks no cursor state: every move starts
// from the cursor position the backend reports.
type Actions struct {
	hid    game.InputBackend
	motion *motion.Synthesizer
	clock  *utils.Clock
	home   game.Point
}

func New(hid game.InputBackend, m *motion.Synthesizer, clock *utils.Clock) *Actions {
	return &Actions{hid: hid, motion: m, clock: clock}
}

// WithDefaultCursor sets where MoveToDefault parks the pointer.
func (a *Actions) WithDefaultCursor(p game.Point) *Actions {
	a.home = p
	return a
}

// MoveHumanlike walks the pointer along a synthesized path. A cleared running flag stops the
// walk where it is and is not an error.
func (a *Actions) MoveHumanlike(to game.Point) error {
	from, err := a.hid.CursorPosition()
	if err != nil {
		return fmt.Errorf("reading cursor position: %w", err)
	}

	for _, st := range a.motion.Path(from, to) {
		if !a.clock.Running() {
			return nil
		}
		if err = a.hid.MovePointer(st.Point.X, st.Point.Y); err != nil {
			return fmt.Errorf("moving pointer to %s: %w", st.Point, err)
		}
		a.clock.Sleep(st.Duration)
	}

	return nil
}

func (a *Actions) Click() error {
	if err := a.hid.LeftClick(); err != nil {
		return fmt.Errorf("click: %w", err)
	}
	return nil
}

// ClickAt moves humanlike to p and clicks, unless the run was stopped during the move.
func (a *Actions) ClickAt(p game.Point) error {
	if err := a.MoveHumanlike(p); err != nil {
		return err
	}
	if !a.clock.Running() {
		return nil
	}
	return a.Click()
}

// MoveTo jumps the pointer without a trajectory, then settles briefly.
func (a *Actions) MoveTo(p game.Point) error {
	if err := a.hid.MovePointer(p.X, p.Y); err != nil {
		return fmt.Errorf("moving pointer to %s: %w", p, err)
	}
	a.clock.Sleep(100 * time.Millisecond)
	return nil
}

// MoveToDefault parks the pointer at the default cursor location.
func (a *Actions) MoveToDefault() error {
	return a.MoveTo(a.home)
}

// ScrollAt moves to p and sends clicks wheel notches, pausing between each.
func (a *Actions) ScrollAt(p game.Point, dir ScrollDirection, clicks int) error {
	if err := a.MoveHumanlike(p); err != nil {
		return err
	}

	delta := -game.WheelDelta
	if dir == ScrollUp {
		delta = game.WheelDelta
	}

	for range clicks {
		if !a.clock.Running() {
			return nil
		}
		if err := a.hid.Wheel(p.X, p.Y, delta); err != nil {
			return fmt.Errorf("scrolling %s: %w", dir, err)
		}
		a.clock.Sleep(wheelTickPause)
	}

	return nil
}

// PressKeyHumanlike holds key for a randomized human keystroke duration. Once pressed the release
// is always sent, so a stop request never leaves the key held down.
func (a *Actions) PressKeyHumanlike(key string) error {
	if !a.clock.Running() {
		return nil
	}
	if err := a.hid.KeyDown(key); err != nil {
		return fmt.Errorf("key down %q: %w", key, err)
	}
	a.clock.Sleep(a.motion.KeyHold())
	if err := a.hid.KeyUp(key); err != nil {
		return fmt.Errorf("key up %q: %w", key, err)
	}
	return nil
}

// Jitter returns p displaced randomly by up to r pixels per axis.
func (a *Actions) Jitter(p game.Point, r int) game.Point {
	return a.motion.Jitter(p, r)
}
