package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/filipesarturi/summoner/internal/config"
	"github.com/filipesarturi/summoner/internal/event"
	"github.com/filipesarturi/summoner/internal/remote"
)

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot posts worker events to a Discord channel.
type Bot struct {
	sender    messageSender
	session   *discordgo.Session
	channelID string
	logger    *slog.Logger
}

func NewBot(cfg config.DiscordCfg, logger *slog.Logger) (*Bot, error) {
	token, err := config.ResolveSecret(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("resolving discord token: %w", err)
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	return &Bot{
		sender:    dg,
		session:   dg,
		channelID: cfg.ChannelID,
		logger:    logger,
	}, nil
}

// Start opens the gateway connection and keeps it until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	b.logger.Info("Discord bot connected", slog.String("channel", b.channelID))

	<-ctx.Done()

	return b.session.Close()
}

// Handle is an event.Handler.
func (b *Bot) Handle(_ context.Context, e event.Event) error {
	if _, err := b.sender.ChannelMessageSend(b.channelID, remote.Format(e)); err != nil {
		return fmt.Errorf("sending discord message: %w", err)
	}
	return nil
}
