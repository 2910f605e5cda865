package action

import (
	"testing"
	"time"

	"github.com/filipesarturi/summoner/internal/game"
	"github.com/filipesarturi/summoner/internal/game/gametest"
	"github.com/filipesarturi/summoner/internal/motion"
	"github.com/filipesarturi/summoner/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActions(start game.Point) (*Actions, *gametest.HID, *utils.Flag) {
	flag := &utils.Flag{}
	flag.Set()
	hid := gametest.NewHID(start)
	clock := utils.NewClock(flag.IsSet).WithSleepFunc(func(time.Duration) {})
	return New(hid, motion.NewSeededSynthesizer(5), clock), hid, flag
}

func TestMoveHumanlikeStartsFromBackendCursor(t *testing.T) {
	a, hid, _ := newTestActions(game.Point{X: 10, Y: 10})
	target := game.Point{X: 900, Y: 500}

	require.NoError(t, a.MoveHumanlike(target))

	moves := hid.Filter(gametest.OpMove)
	require.Len(t, moves, motion.StepCount(game.Distance(game.Point{X: 10, Y: 10}, target)))
	assert.Equal(t, target, moves[len(moves)-1].Point)

	// the cursor was moved behind our back, the next path must start from there
	require.NoError(t, hid.MovePointer(900, 100))
	next := game.Point{X: 900, Y: 110}
	require.NoError(t, a.MoveHumanlike(next))

	moves = hid.Filter(gametest.OpMove)
	assert.Equal(t, next, moves[len(moves)-1].Point)
}

func TestMoveHumanlikeStopsWhenFlagCleared(t *testing.T) {
	a, hid, flag := newTestActions(game.Point{})

	hid.OnOp = func(op gametest.Op) {
		if op.Kind == gametest.OpMove && len(hid.Filter(gametest.OpMove)) == 3 {
			flag.Clear()
		}
	}

	require.NoError(t, a.MoveHumanlike(game.Point{X: 1500, Y: 800}))
	assert.Len(t, hid.Filter(gametest.OpMove), 3)

	require.NoError(t, a.ClickAt(game.Point{X: 5, Y: 5}))
	assert.Empty(t, hid.Filter(gametest.OpClick))
}

func TestClickAt(t *testing.T) {
	a, hid, _ := newTestActions(game.Point{X: 100, Y: 100})
	p := game.Point{X: 931, Y: 824}

	require.NoError(t, a.ClickAt(p))

	clicks := hid.Filter(gametest.OpClick)
	require.Len(t, clicks, 1)
	assert.Equal(t, p, clicks[0].Point)
}

func TestScrollAt(t *testing.T) {
	a, hid, _ := newTestActions(game.Point{})
	p := game.Point{X: 404, Y: 569}

	require.NoError(t, a.ScrollAt(p, ScrollUp, 3))
	require.NoError(t, a.ScrollAt(p, ScrollDown, 2))

	wheel := hid.Filter(gametest.OpWheel)
	require.Len(t, wheel, 5)
	for i, op := range wheel {
		assert.Equal(t, p, op.Point)
		if i < 3 {
			assert.Equal(t, game.WheelDelta, op.Delta)
		} else {
			assert.Equal(t, -game.WheelDelta, op.Delta)
		}
	}
}

func TestPressKeyHumanlike(t *testing.T) {
	a, hid, _ := newTestActions(game.Point{})

	require.NoError(t, a.PressKeyHumanlike("e"))

	ops := hid.Ops()
	require.Len(t, ops, 2)
	assert.Equal(t, gametest.Op{Kind: gametest.OpKeyDown, Key: "e"}, ops[0])
	assert.Equal(t, gametest.Op{Kind: gametest.OpKeyUp, Key: "e"}, ops[1])
}

func TestScrollDirectionString(t *testing.T) {
	assert.Equal(t, "up", ScrollUp.String())
	assert.Equal(t, "down", ScrollDown.String())
}

func TestMoveToDefault(t *testing.T) {
	a, hid, _ := newTestActions(game.Point{X: 3, Y: 4})
	a.WithDefaultCursor(game.Point{X: 799, Y: 824})

	require.NoError(t, a.MoveToDefault())

	assert.Equal(t, []gametest.Op{{Kind: gametest.OpMove, Point: game.Point{X: 799, Y: 824}}}, hid.Ops())
}

func TestPressKeySkippedWhenStopped(t *testing.T) {
	a, hid, flag := newTestActions(game.Point{})
	flag.Clear()

	require.NoError(t, a.PressKeyHumanlike("e"))
	assert.Empty(t, hid.Ops())
}
