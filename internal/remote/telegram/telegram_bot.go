package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filipesarturi/summoner/internal/config"
	"github.com/filipesarturi/summoner/internal/event"
	"github.com/filipesarturi/summoner/internal/remote"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type chattableSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot forwards worker events to a Telegram chat.
type Bot struct {
	api    chattableSender
	chatID int64
	logger *slog.Logger
}

func NewBot(cfg config.TelegramCfg, logger *slog.Logger) (*Bot, error) {
	token, err := config.ResolveSecret(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("resolving telegram token: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram bot: %w", err)
	}
	logger.Info("Telegram bot authorized", slog.String("account", api.Self.UserName))

	return &Bot{api: api, chatID: cfg.ChatID, logger: logger}, nil
}

// Handle is an event.Handler.
func (b *Bot) Handle(_ context.Context, e event.Event) error {
	msg := tgbotapi.NewMessage(b.chatID, remote.Format(e))
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}
