// Package gametest provides in-memory input backends for tests.
package gametest

import (
	"sync"

	"github.com/filipesarturi/summoner/internal/game"
)

type OpKind string

const (
	OpMove    OpKind = "move"
	OpClick   OpKind = "click"
	OpKeyDown OpKind = "keydown"
	OpKeyUp   OpKind = "keyup"
	OpWheel   OpKind = "wheel"
)

type Op struct {
	Kind  OpKind
	Point game.Point
	Key   string
	Delta int
}

// HID records every injected input and tracks the cursor like a real backend would.
type HID struct {
	mu     sync.Mutex
	cursor game.Point
	ops    []Op
	// OnOp, when set, is called after each recorded op.
	OnOp func(Op)
}

func NewHID(cursor game.Point) *HID {
	return &HID{cursor: cursor}
}

func (h *HID) record(op Op) {
	h.mu.Lock()
	h.ops = append(h.ops, op)
	hook := h.OnOp
	h.mu.Unlock()

	if hook != nil {
		hook(op)
	}
}

func (h *HID) MovePointer(x, y int) error {
	h.mu.Lock()
	h.cursor = game.Point{X: x, Y: y}
	h.mu.Unlock()
	h.record(Op{Kind: OpMove, Point: game.Point{X: x, Y: y}})
	return nil
}

func (h *HID) CursorPosition() (game.Point, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor, nil
}

func (h *HID) LeftClick() error {
	h.mu.Lock()
	p := h.cursor
	h.mu.Unlock()
	h.record(Op{Kind: OpClick, Point: p})
	return nil
}

func (h *HID) KeyDown(key string) error {
	h.record(Op{Kind: OpKeyDown, Key: key})
	return nil
}

func (h *HID) KeyUp(key string) error {
	h.record(Op{Kind: OpKeyUp, Key: key})
	return nil
}

func (h *HID) Wheel(x, y, delta int) error {
	h.mu.Lock()
	h.cursor = game.Point{X: x, Y: y}
	h.mu.Unlock()
	h.record(Op{Kind: OpWheel, Point: game.Point{X: x, Y: y}, Delta: delta})
	return nil
}

// Ops returns a copy of the recorded operations.
func (h *HID) Ops() []Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Op(nil), h.ops...)
}

// Filter returns the recorded operations of one kind.
func (h *HID) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range h.Ops() {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}
