// Package shoptest simulates the summon shop screen for controller tests. Clicks and wheel
// events recorded by a gametest.HID drive the simulated state, and the simulation answers
// template lookups the way the live screen would.
package shoptest

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/filipesarturi/summoner/internal/config"
	botCtx "github.com/filipesarturi/summoner/internal/context"
	"github.com/filipesarturi/summoner/internal/event"
	"github.com/filipesarturi/summoner/internal/game"
	"github.com/filipesarturi/summoner/internal/game/gametest"
	"github.com/filipesarturi/summoner/internal/motion"
	"github.com/filipesarturi/summoner/internal/shop"
	"github.com/filipesarturi/summoner/internal/utils"
	"github.com/filipesarturi/summoner/internal/vision"
)

var (
	SummonButtonAt = game.Point{X: 600, Y: 130}
	SellButtonAt   = game.Point{X: 1200, Y: 130}
	XButtonAt      = game.Point{X: 1500, Y: 240}
)

// VisibleRows is how many packs fit in the pack frame at once.
const VisibleRows = 3

// RowAt is where the pack shown in the given visible row is clicked.
func RowAt(row int) game.Point {
	return game.Point{X: 404, Y: 320 + row*200}
}

type Game struct {
	mu sync.Mutex

	ShopOpen     bool
	SummonHidden bool
	XHidden      bool
	SellHidden   bool
	// NeverOpens keeps the shop closed whatever is clicked.
	NeverOpens bool
	// HiddenPacks are never matched on the shelf.
	HiddenPacks map[int]bool

	// ScrollTicks is the shelf scroll position in wheel notches from the top.
	ScrollTicks int
	Selected    int
	Stock       map[int]int
	Purchases   map[int]int
	SellClicks  int
	Sold        int
	Lookups     map[string]int

	cfg         *config.Config
	pendingOpen bool
	pendingSell bool
}

func NewGame(cfg *config.Config) *Game {
	return &Game{
		Selected:    -1,
		HiddenPacks: map[int]bool{},
		Stock:       map[int]int{},
		Purchases:   map[int]int{},
		Lookups:     map[string]int{},
		cfg:         cfg,
	}
}

func maxTicks() int {
	return (len(shop.Catalog) - VisibleRows) * 3
}

// FirstVisible is the canonical index of the pack in the top visible row.
func (g *Game) FirstVisible() int {
	return min(g.ScrollTicks, maxTicks()) / 3
}

func (g *Game) Locate(key string, region game.Region, _ float64) vision.MatchResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Lookups[key]++
	found := func(p game.Point) vision.MatchResult {
		return vision.MatchResult{Found: true, Point: p, Confidence: 0.95}
	}

	switch key {
	case config.SummonScreen:
		if g.ShopOpen {
			return found(region.Center())
		}
	case config.SummonButton:
		if !g.ShopOpen && !g.SummonHidden {
			return found(SummonButtonAt)
		}
	case config.XButton:
		if g.ShopOpen && !g.XHidden {
			return found(XButtonAt)
		}
	case config.SellButton:
		if !g.ShopOpen && !g.SellHidden {
			return found(SellButtonAt)
		}
	case config.NoStock:
		if g.ShopOpen && g.Selected >= 0 && g.Stock[g.Selected] == 0 {
			return found(region.Center())
		}
	default:
		if !g.ShopOpen {
			return vision.NotFound
		}
		for _, p := range shop.Catalog {
			if p.TemplateKey() != key || g.HiddenPacks[p.Index] {
				continue
			}
			row := p.Index - g.FirstVisible()
			if row >= 0 && row < VisibleRows {
				return found(RowAt(row))
			}
		}
	}

	return vision.NotFound
}

// Handle applies one input operation to the simulated screen.
func (g *Game) Handle(op gametest.Op) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch op.Kind {
	case gametest.OpWheel:
		if op.Delta < 0 {
			g.ScrollTicks = min(g.ScrollTicks+1, maxTicks())
		} else {
			g.ScrollTicks = max(g.ScrollTicks-1, 0)
		}
	case gametest.OpKeyUp:
		if g.pendingOpen && op.Key == g.cfg.Keys.OpenShop && !g.NeverOpens {
			g.ShopOpen = true
		}
		if g.pendingSell && op.Key == g.cfg.Keys.ConfirmSell {
			g.Sold++
		}
		g.pendingOpen, g.pendingSell = false, false
	case gametest.OpClick:
		g.click(op.Point)
	}
}

func (g *Game) click(p game.Point) {
	switch {
	case p == SummonButtonAt && !g.ShopOpen:
		g.pendingOpen = true
	case p == SellButtonAt && !g.ShopOpen:
		g.pendingSell = true
	case p == XButtonAt && g.ShopOpen:
		g.ShopOpen = false
		g.Selected = -1
	case p == g.cfg.Region(config.PurchaseLocation).Center() && g.ShopOpen:
		if g.Selected >= 0 && g.Stock[g.Selected] > 0 {
			g.Stock[g.Selected]--
			g.Purchases[g.Selected]++
		}
	case near(p, g.cfg.SellConfirmPoint, 3):
		g.SellClicks++
	default:
		if !g.ShopOpen {
			return
		}
		for row := range VisibleRows {
			if p == RowAt(row) {
				g.Selected = g.FirstVisible() + row
			}
		}
	}
}

func near(a, b game.Point, r int) bool {
	return abs(a.X-b.X) <= r && abs(a.Y-b.Y) <= r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Snapshot runs fn with the simulation locked.
func (g *Game) Snapshot(fn func(g *Game)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g)
}

// Events records emitted events and lets a test react to them.
type Events struct {
	mu     sync.Mutex
	events []event.Event
	OnEmit func(event.Event)
}

func (e *Events) Emit(c event.Category, msg string) {
	ev := event.Event{Category: c, Message: msg}
	e.mu.Lock()
	e.events = append(e.events, ev)
	hook := e.OnEmit
	e.mu.Unlock()

	if hook != nil {
		hook(ev)
	}
}

func (e *Events) All() []event.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]event.Event(nil), e.events...)
}

func (e *Events) Messages() []string {
	var out []string
	for _, ev := range e.All() {
		out = append(out, ev.Message)
	}
	return out
}

// Harness bundles a simulated game with a ready context running against it.
type Harness struct {
	Game    *Game
	HID     *gametest.HID
	Events  *Events
	Running *utils.Flag
	Ctx     *botCtx.Context
	Slept   time.Duration
}

// NewHarness builds a running context whose sleeps take no wall time. The run is stopped and
// the test failed when simulated time exceeds budget, which catches loops that never end.
func NewHarness(t testing.TB, budget time.Duration) *Harness {
	t.Helper()

	cfg := config.Default()
	h := &Harness{
		Game:    NewGame(cfg),
		HID:     gametest.NewHID(cfg.DefaultCursor),
		Events:  &Events{},
		Running: &utils.Flag{},
	}
	h.HID.OnOp = h.Game.Handle
	h.Running.Set()

	var mu sync.Mutex
	sleep := func(d time.Duration) {
		mu.Lock()
		h.Slept += d
		over := h.Slept > budget
		mu.Unlock()
		if over && h.Running.IsSet() {
			t.Errorf("simulated time budget %v exceeded", budget)
			h.Running.Clear()
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.Ctx = botCtx.New("test-run", cfg, logger, h.Events, h.HID, h.Game, h.Running,
		botCtx.WithSleepFunc(sleep),
		botCtx.WithSynthesizer(motion.NewSeededSynthesizer(1)),
	)

	return h
}

// StopOn clears the running flag once an event with the message is emitted.
func (h *Harness) StopOn(msg string) {
	h.Events.OnEmit = func(e event.Event) {
		if e.Message == msg {
			h.Running.Clear()
		}
	}
}
