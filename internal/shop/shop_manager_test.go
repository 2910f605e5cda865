package shop_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/filipesarturi/summoner/internal/config"
	"github.com/filipesarturi/summoner/internal/event"
	"github.com/filipesarturi/summoner/internal/game/gametest"
	"github.com/filipesarturi/summoner/internal/shop"
	"github.com/filipesarturi/summoner/internal/shop/shoptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseClicks(h *shoptest.Harness) int {
	target := h.Ctx.Config.Region(config.PurchaseLocation).Center()
	n := 0
	for _, op := range h.HID.Filter(gametest.OpClick) {
		if op.Point == target {
			n++
		}
	}
	return n
}

func TestOpenShop(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)

	require.NoError(t, shop.OpenShop(h.Ctx))

	assert.True(t, h.Game.ShopOpen)
	assert.Contains(t, h.Events.Messages(), "Opening Shop...")
	assert.Len(t, h.HID.Filter(gametest.OpKeyUp), 1)
}

func TestOpenShopAlreadyOpen(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.ShopOpen = true

	require.NoError(t, shop.OpenShop(h.Ctx))
	assert.Empty(t, h.HID.Ops())
}

func TestOpenShopGivesUpAfterThreeAttempts(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.SummonHidden = true

	err := shop.OpenShop(h.Ctx)
	require.ErrorIs(t, err, shop.ErrShopNotOpened)

	var misses []string
	for _, e := range h.Events.All() {
		if e.Category == event.Error {
			misses = append(misses, e.Message)
		}
	}
	assert.Equal(t, []string{
		"Cannot find Summon Button (attempt 1)",
		"Cannot find Summon Button (attempt 2)",
		"Cannot find Summon Button (attempt 3)",
	}, misses)
	assert.Empty(t, h.HID.Filter(gametest.OpClick))
}

func TestOpenShopClickedButNeverOpens(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.NeverOpens = true

	require.ErrorIs(t, shop.OpenShop(h.Ctx), shop.ErrShopNotOpened)
	assert.Len(t, h.HID.Filter(gametest.OpClick), 3)
}

func TestSearchPackFirstSearchScrollsDown(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.ShopOpen = true
	hunter, _ := shop.FindPack("Hunter")

	found, err := shop.SearchPack(h.Ctx, hunter)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, hunter.Index, h.Game.Selected)
	msgs := h.Events.Messages()
	assert.Contains(t, msgs, "Initial search failed. Resetting to top...")
	assert.Contains(t, msgs, "Scrolling down...")
	assert.NotContains(t, msgs, "Scrolling up...")
}

func TestSearchPackVisibleOnFirstLook(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.ShopOpen = true
	sorcerer, _ := shop.FindPack("Sorcerer")

	found, err := shop.SearchPack(h.Ctx, sorcerer)
	require.NoError(t, err)
	require.True(t, found)

	assert.Empty(t, h.HID.Filter(gametest.OpWheel))
	assert.Len(t, h.HID.Filter(gametest.OpClick), 1)
}

func TestSearchPackScrollsUpTowardsEarlierPack(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.ShopOpen = true
	h.Game.ScrollTicks = 9
	h.Ctx.Cycle.InitialSearchDone = true
	h.Ctx.Cycle.LastClickedIndex = 5

	dragon, _ := shop.FindPack("Dragon")
	found, err := shop.SearchPack(h.Ctx, dragon)
	require.NoError(t, err)
	require.True(t, found)

	assert.Contains(t, h.Events.Messages(), "Scrolling up...")
	assert.NotContains(t, h.Events.Messages(), "Initial search failed. Resetting to top...")
	assert.Equal(t, 0, h.Game.Selected)
}

func TestSearchPackGivesUpAfterTenScrolls(t *testing.T) {
	h := shoptest.NewHarness(t, 5*time.Minute)
	h.Game.ShopOpen = true
	h.Ctx.Cycle.InitialSearchDone = true
	h.Game.HiddenPacks[3] = true
	demon, _ := shop.FindPack("Demon")

	found, err := shop.SearchPack(h.Ctx, demon)
	require.NoError(t, err)
	assert.False(t, found)

	scrolls := 0
	for _, m := range h.Events.Messages() {
		if m == "Scrolling down..." {
			scrolls++
		}
	}
	assert.Equal(t, 10, scrolls)
	assert.Len(t, h.HID.Filter(gametest.OpWheel), 30)
	assert.Empty(t, h.HID.Filter(gametest.OpClick))
}

func TestPurchaseUntilSoldOut(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.ShopOpen = true
	h.Game.Selected = 2
	h.Game.Stock[2] = 4

	require.NoError(t, shop.Purchase(h.Ctx, shop.Catalog[2]))

	assert.Equal(t, 4, h.Game.Purchases[2])
	assert.Equal(t, 4, purchaseClicks(h))
	assert.Contains(t, h.Events.Messages(), "Buying Pirate...")
}

func TestPurchaseStopsWhenCancelled(t *testing.T) {
	h := shoptest.NewHarness(t, time.Hour)
	h.Game.ShopOpen = true
	h.Game.Selected = 0
	h.Game.Stock[0] = 1_000_000

	clicks := 0
	h.HID.OnOp = func(op gametest.Op) {
		h.Game.Handle(op)
		if op.Kind == gametest.OpClick {
			clicks++
			if clicks == 7 {
				h.Running.Clear()
			}
		}
	}

	require.NoError(t, shop.Purchase(h.Ctx, shop.Catalog[0]))
	assert.Equal(t, 7, purchaseClicks(h))
}

func TestCloseShop(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.ShopOpen = true

	require.NoError(t, shop.CloseShop(h.Ctx))
	assert.False(t, h.Game.ShopOpen)
	assert.Contains(t, h.Events.Messages(), "Closing shop...")
}

func TestCloseShopGivesUp(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.ShopOpen = true
	h.Game.XHidden = true

	require.NoError(t, shop.CloseShop(h.Ctx))
	assert.True(t, h.Game.ShopOpen)
	assert.Equal(t, 5, h.Game.Lookups[config.XButton])
	assert.Contains(t, h.Events.Messages(), "Could not find the close button, leaving shop open.")
}

func TestSellItems(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)

	require.NoError(t, shop.SellItems(h.Ctx))

	assert.Equal(t, 1, h.Game.Sold)
	assert.Equal(t, 3, h.Game.SellClicks)
	assert.Equal(t, []string{"Selling items...", "Confirming sale...", "Items sold."}, h.Events.Messages())
}

func TestSellItemsWithoutButton(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.SellHidden = true

	require.ErrorIs(t, shop.SellItems(h.Ctx), shop.ErrSellNotFound)
	assert.Contains(t, h.Events.Messages(), "Cannot find Sell Button.")
	assert.Empty(t, h.HID.Ops())
}

func TestWaitForRestock(t *testing.T) {
	h := shoptest.NewHarness(t, 10*time.Minute)
	h.Ctx.Cycle.InitialSearchDone = true
	h.Ctx.Cycle.LastClickedIndex = 2

	polls := 0
	h.Events.OnEmit = func(e event.Event) {
		if e.Message != "Watching Pirate..." {
			return
		}
		polls++
		if polls == 3 {
			h.Game.Snapshot(func(g *shoptest.Game) { g.Stock[2] = 10 })
		}
	}

	require.NoError(t, shop.WaitForRestock(h.Ctx))

	assert.Equal(t, 3, polls)
	assert.True(t, h.Game.ShopOpen)
	assert.Equal(t, 2, h.Game.Selected)
	msgs := h.Events.Messages()
	assert.Equal(t, "SHOP RESTOCKED!", msgs[len(msgs)-1])
	for _, e := range h.Events.All() {
		if e.Message == "Watching Pirate..." {
			assert.Equal(t, event.Wait, e.Category)
		}
	}
}

func TestWaitForRestockCannotOpen(t *testing.T) {
	h := shoptest.NewHarness(t, time.Minute)
	h.Game.SummonHidden = true
	h.Ctx.Cycle.InitialSearchDone = true

	require.NoError(t, shop.WaitForRestock(h.Ctx))
	assert.Contains(t, h.Events.Messages(), "Failed to open shop for restock check.")
	assert.GreaterOrEqual(t, h.Slept, 5*time.Second)
}

func TestWaitForRestockStopsWhenCancelled(t *testing.T) {
	h := shoptest.NewHarness(t, time.Hour)
	h.Game.ShopOpen = true
	h.Ctx.Cycle.InitialSearchDone = true
	h.Ctx.Cycle.LastClickedIndex = 1
	h.StopOn(fmt.Sprintf("Watching %s...", shop.Catalog[1].Short))

	require.NoError(t, shop.WaitForRestock(h.Ctx))
	assert.NotContains(t, h.Events.Messages(), "SHOP RESTOCKED!")
}
