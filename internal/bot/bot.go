package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	botCtx "github.com/filipesarturi/summoner/internal/context"
	"github.com/filipesarturi/summoner/internal/event"
	"github.com/filipesarturi/summoner/internal/shop"
)

const cycleBackoffSecs = 5

// Bot runs the purchase cycle for a fixed selection until the running flag clears.
type Bot struct {
	ctx       *botCtx.Context
	selection []shop.Pack
}

func NewBot(ctx *botCtx.Context, selection []shop.Pack) *Bot {
	return &Bot{ctx: ctx, selection: selection}
}

// Run loops open, search, purchase, close, sell and restock-wait. Failures inside a cycle are
// reported and retried after a backoff; only clearing the running flag ends the loop.
func (b *Bot) Run() {
	if len(b.selection) == 0 {
		b.ctx.Emit(event.Error, "No packs selected! Stopping.")
		return
	}

	if err := b.ctx.Actions.MoveToDefault(); err != nil {
		b.ctx.Logger.Warn("Could not park cursor", slog.Any("error", err))
	}

	cycle := 1
	for b.ctx.IsRunning() {
		completed, err := b.runCycle(cycle)
		if err != nil {
			b.ctx.Logger.Error("Cycle failed", slog.Int("cycle", cycle), slog.Any("error", err))
			b.ctx.Emit(event.Error, fmt.Sprintf("An unexpected error occurred: %v", err))
			b.ctx.Sleep(cycleBackoffSecs)
			continue
		}
		if completed {
			cycle++
		}
	}

	b.ctx.Emit(event.System, "Macro stopped by user.")
}

// runCycle performs one cycle. It returns false without error when the shop did not open and
// the cycle has to start over.
func (b *Bot) runCycle(cycle int) (completed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.ctx.Logger.Error("Recovered from panic in cycle", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx := b.ctx
	ctx.Emit(event.System, fmt.Sprintf("Cycle #%d - Purchase Phase", cycle))

	if err = shop.OpenShop(ctx); err != nil {
		if !errors.Is(err, shop.ErrShopNotOpened) {
			return false, err
		}
		if ctx.IsRunning() {
			ctx.Emit(event.Error, "Shop failed to open. Retrying cycle.")
			ctx.Sleep(cycleBackoffSecs)
		}
		return false, nil
	}

	if err = b.purchasePhase(); err != nil {
		return false, err
	}

	if ctx.IsRunning() {
		ctx.Emit(event.Success, "Purchase phase complete.")
		if err = shop.CloseShop(ctx); err != nil {
			return false, err
		}

		if ctx.IsRunning() {
			if err = shop.SellItems(ctx); err != nil {
				if !errors.Is(err, shop.ErrSellNotFound) {
					return false, err
				}
				ctx.Emit(event.Error, "Failed to sell items.")
			}
		}
	}

	if ctx.IsRunning() {
		if err = shop.WaitForRestock(ctx); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (b *Bot) purchasePhase() error {
	ctx := b.ctx
	order := shop.SearchOrder(b.selection, ctx.Cycle.LastClickedIndex, ctx.Cycle.InitialSearchDone)

	for _, p := range order {
		if !ctx.IsRunning() {
			break
		}

		found, err := shop.SearchPack(ctx, p)
		if err != nil {
			return err
		}
		if !found {
			if ctx.IsRunning() {
				ctx.Emit(event.Error, fmt.Sprintf("%s not found.", p.Short))
			}
			continue
		}

		ctx.Cycle.InitialSearchDone = true
		ctx.Cycle.LastClickedIndex = p.Index
		ctx.Sleep(1)

		if shop.IsOutOfStock(ctx) {
			ctx.Emit(event.Info, fmt.Sprintf("%s is out of stock.", p.Short))
			continue
		}

		if err = shop.Purchase(ctx, p); err != nil {
			return err
		}
		ctx.Emit(event.Success, fmt.Sprintf("%s fully purchased.", p.Short))
		ctx.Sleep(1)
	}

	return nil
}
