package shop

import (
	"errors"
	"fmt"

	"github.com/filipesarturi/summoner/internal/action"
	"github.com/filipesarturi/summoner/internal/config"
	"github.com/filipesarturi/summoner/internal/context"
	"github.com/filipesarturi/summoner/internal/event"
)

const (
	maxOpenAttempts  = 3
	maxCloseAttempts = 5
	maxScrollSearch  = 10
	shelfScrollTicks = 3
	sellConfirmJit   = 3
	sellConfirmClick = 3
	restockPollSecs  = 5
)

var (
	ErrShopNotOpened = errors.New("shop did not open")
	ErrSellNotFound  = errors.New("sell button not found")
)

// IsOpen reports whether the summon screen is showing.
func IsOpen(ctx *context.Context) bool {
	return ctx.Locate(config.SummonScreen, config.SummonScreen).Found
}

// IsOutOfStock reports whether the no-stock overlay covers the purchase button.
func IsOutOfStock(ctx *context.Context) bool {
	return ctx.Locate(config.NoStock, config.PurchaseLocation).Found
}

// OpenShop opens the summon screen, returning ErrShopNotOpened after maxOpenAttempts tries.
func OpenShop(ctx *context.Context) error {
	ctx.Emit(event.Action, "Opening Shop...")

	for attempt := 1; attempt <= maxOpenAttempts && ctx.IsRunning(); attempt++ {
		if IsOpen(ctx) {
			return nil
		}

		btn := ctx.Locate(config.SummonButton, config.SummonButton)
		if !btn.Found {
			ctx.Emit(event.Error, fmt.Sprintf("Cannot find Summon Button (attempt %d)", attempt))
			ctx.Sleep(1)
			continue
		}

		if err := ctx.Actions.ClickAt(btn.Point); err != nil {
			return err
		}
		ctx.Sleep(0.5)
		if err := ctx.Actions.PressKeyHumanlike(ctx.Config.Keys.OpenShop); err != nil {
			return err
		}
		ctx.Sleep(1.5)
	}

	if IsOpen(ctx) {
		return nil
	}

	return ErrShopNotOpened
}

// CloseShop clicks the close control while the shop stays open, giving up after
// maxCloseAttempts misses.
func CloseShop(ctx *context.Context) error {
	for attempt := 0; attempt < maxCloseAttempts; attempt++ {
		if !ctx.IsRunning() || !IsOpen(ctx) {
			return nil
		}

		x := ctx.Locate(config.XButton, config.XButton)
		if x.Found {
			ctx.Emit(event.Action, "Closing shop...")
			if err := ctx.Actions.ClickAt(x.Point); err != nil {
				return err
			}
			ctx.Sleep(1.5)
			return nil
		}

		ctx.Sleep(1)
	}

	if ctx.IsRunning() {
		ctx.Emit(event.Error, "Could not find the close button, leaving shop open.")
	}

	return nil
}

// ClickPack looks for the pack on the visible part of the shelf and clicks it when found.
func ClickPack(ctx *context.Context, p Pack) (bool, error) {
	loc := ctx.Locate(p.TemplateKey(), config.PackFrame)
	if !loc.Found {
		return false, nil
	}

	if err := ctx.Actions.ClickAt(loc.Point); err != nil {
		return false, err
	}

	return true, nil
}

// ScrollShelf scrolls the pack frame from its center.
func ScrollShelf(ctx *context.Context, dir action.ScrollDirection) error {
	center := ctx.Config.Region(config.PackFrame).Center()
	if err := ctx.Actions.ScrollAt(center, dir, shelfScrollTicks); err != nil {
		return err
	}
	ctx.Sleep(0.5)

	return nil
}

// ScrollDirectionFor scrolls down when the target sits at or below the last located pack.
// Index 0 is both "never located" and "located the first pack"; either way the shelf is
// scrolled down first.
func ScrollDirectionFor(target Pack, lastClicked int) action.ScrollDirection {
	if target.Index >= lastClicked {
		return action.ScrollDown
	}
	return action.ScrollUp
}

// SearchPack locates and clicks the pack, scrolling the shelf towards it between attempts.
// On the first search of a run a miss resets the shelf to the top before scrolling.
func SearchPack(ctx *context.Context, p Pack) (bool, error) {
	ctx.Emit(event.Action, fmt.Sprintf("Searching for %s...", p.Short))

	if !ctx.Cycle.InitialSearchDone {
		found, err := ClickPack(ctx, p)
		if err != nil || found {
			return found, err
		}

		ctx.Emit(event.Info, "Initial search failed. Resetting to top...")
		for range 2 {
			if err = ScrollShelf(ctx, action.ScrollUp); err != nil {
				return false, err
			}
		}
		ctx.Sleep(1)
	}

	for attempt := 0; attempt < maxScrollSearch && ctx.IsRunning(); attempt++ {
		found, err := ClickPack(ctx, p)
		if err != nil || found {
			return found, err
		}

		dir := ScrollDirectionFor(p, ctx.Cycle.LastClickedIndex)
		ctx.Emit(event.Action, fmt.Sprintf("Scrolling %s...", dir))
		if err = ScrollShelf(ctx, dir); err != nil {
			return false, err
		}
		ctx.Sleep(1)
	}

	return false, nil
}

// Purchase clicks the purchase button until the no-stock overlay shows or the run stops.
func Purchase(ctx *context.Context, p Pack) error {
	target := ctx.Config.Region(config.PurchaseLocation).Center()
	if err := ctx.Actions.MoveHumanlike(target); err != nil {
		return err
	}

	ctx.Emit(event.Action, fmt.Sprintf("Buying %s...", p.Short))
	for ctx.IsRunning() {
		if IsOutOfStock(ctx) {
			break
		}
		if err := ctx.Actions.Click(); err != nil {
			return err
		}
		ctx.Sleep(0.1)
	}

	return nil
}

// SellItems sells the inventory and confirms with jittered clicks on the confirmation point.
func SellItems(ctx *context.Context) error {
	ctx.Emit(event.Action, "Selling items...")

	btn := ctx.Locate(config.SellButton, config.SellButton)
	if !btn.Found {
		ctx.Emit(event.Error, "Cannot find Sell Button.")
		return ErrSellNotFound
	}

	if err := ctx.Actions.ClickAt(btn.Point); err != nil {
		return err
	}
	ctx.Sleep(0.5)
	if err := ctx.Actions.PressKeyHumanlike(ctx.Config.Keys.ConfirmSell); err != nil {
		return err
	}
	ctx.Sleep(1)

	ctx.Emit(event.Action, "Confirming sale...")
	for range sellConfirmClick {
		if !ctx.IsRunning() {
			break
		}
		if err := ctx.Actions.ClickAt(ctx.Actions.Jitter(ctx.Config.SellConfirmPoint, sellConfirmJit)); err != nil {
			return err
		}
		ctx.Sleep(0.1)
	}

	ctx.Emit(event.Success, "Items sold.")

	return nil
}

// WaitForRestock watches the last located pack until it is back in stock.
func WaitForRestock(ctx *context.Context) error {
	if !IsOpen(ctx) {
		if err := OpenShop(ctx); err != nil {
			ctx.Emit(event.Error, "Failed to open shop for restock check.")
			ctx.Sleep(restockPollSecs)
			return nil
		}
	}

	if !ctx.Cycle.InitialSearchDone {
		ctx.Emit(event.Info, "No pack located yet, nothing to watch.")
		return nil
	}

	last, _ := PackAt(ctx.Cycle.LastClickedIndex)
	if _, err := ClickPack(ctx, last); err != nil {
		return err
	}
	ctx.Sleep(1)

	for ctx.IsRunning() && IsOutOfStock(ctx) {
		ctx.Emit(event.Wait, fmt.Sprintf("Watching %s...", last.Short))
		ctx.Sleep(restockPollSecs)
	}

	if ctx.IsRunning() {
		ctx.Emit(event.Success, "SHOP RESTOCKED!")
		ctx.Sleep(1)
	}

	return nil
}
