package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sumlog "github.com/filipesarturi/summoner/cmd/summoner/log"
	"github.com/filipesarturi/summoner/internal/bot"
	"github.com/filipesarturi/summoner/internal/chime"
	"github.com/filipesarturi/summoner/internal/config"
	botCtx "github.com/filipesarturi/summoner/internal/context"
	"github.com/filipesarturi/summoner/internal/event"
	"github.com/filipesarturi/summoner/internal/game"
	"github.com/filipesarturi/summoner/internal/remote"
	"github.com/filipesarturi/summoner/internal/remote/discord"
	"github.com/filipesarturi/summoner/internal/remote/telegram"
	"github.com/filipesarturi/summoner/internal/server"
	"github.com/filipesarturi/summoner/internal/shop"
	"github.com/filipesarturi/summoner/internal/utils"
	"github.com/filipesarturi/summoner/internal/vision"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	Packs []string
	Idle  bool
}

func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start buying the selected packs",
		Long: `Start buying the selected packs. Without the HTTP control server the process exits
when the worker stops; with it, the process keeps serving /start, /stop, /status and
/ws until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummoner(cmd.Context(), rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Packs, "packs", "p", nil, "packs to buy, overriding the configuration")
	cmd.Flags().BoolVar(&opts.Idle, "idle", false, "wait for /start instead of starting right away (needs the HTTP server)")

	return cmd
}

func runSummoner(ctx context.Context, rootOpts *RootOptions, opts *runOptions, out io.Writer) error {
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Idle && !cfg.HTTP.Enabled {
		return fmt.Errorf("--idle needs http.enabled in %s", rootOpts.ConfigPath)
	}

	names := opts.Packs
	if len(names) == 0 {
		names = cfg.Packs
	}
	selection, err := shop.ParseSelection(names)
	if err != nil {
		return err
	}

	logger, err := sumlog.NewLogger(cfg.LogLevel, cfg.LogSaveDirectory, out)
	if err != nil {
		return fmt.Errorf("error starting logger: %w", err)
	}
	defer sumlog.FlushAndClose()

	config.SetDPIAware()
	if scale := config.GetCurrentDisplayScale(); scale != 1.0 {
		logger.Warn("Display scale is not 100%, screen regions will not line up", slog.Float64("scale", scale))
	}

	templates := vision.LoadTemplates(logger, cfg.TemplateDir(rootOpts.ConfigPath), cfg.Templates.Files)
	defer templates.Close()

	dispatcher := event.NewDispatcher(logger)
	hid := game.NewHID()
	capturer := game.ScreenCapturer{}

	sup := bot.NewSupervisor(logger, func(runID string, running *utils.Flag) *botCtx.Context {
		sink := dispatcher.WithRun(runID)
		return botCtx.New(runID, cfg, logger, sink, hid, vision.NewLocator(templates, capturer, sink), running)
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The listener outlives the worker so the final events are still delivered.
	listenCtx, stopListening := context.WithCancel(context.WithoutCancel(ctx))
	var listener errgroup.Group
	defer func() {
		stopListening()
		listener.Wait()
	}()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Discord.Enabled {
		cats, err := remote.Categories(cfg.Discord.Categories)
		if err != nil {
			return fmt.Errorf("discord: %w", err)
		}
		dbot, err := discord.NewBot(cfg.Discord, logger)
		if err != nil {
			return err
		}
		dispatcher.Register(event.Filter(dbot.Handle, cats...))
		g.Go(func() error { return dbot.Start(gctx) })
	}

	if cfg.Telegram.Enabled {
		cats, err := remote.Categories(cfg.Telegram.Categories)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		tbot, err := telegram.NewBot(cfg.Telegram, logger)
		if err != nil {
			return err
		}
		dispatcher.Register(event.Filter(tbot.Handle, cats...))
	}

	if cfg.Chime.Enabled {
		dispatcher.Register(chime.New(cfg.Chime.FrequencyHz, cfg.Chime.Duration).Handle)
	}

	if cfg.HTTP.Enabled {
		hub := server.NewHub(logger)
		dispatcher.Register(hub.Handle)
		srv := server.New(logger, sup, hub, cfg.Packs)
		g.Go(func() error { return srv.Listen(gctx, cfg.HTTP.ListenAddr) })
	}

	listener.Go(func() error { return dispatcher.Listen(listenCtx) })

	g.Go(func() error {
		<-gctx.Done()
		sup.RequestStop()
		sup.Wait()
		return nil
	})

	if !opts.Idle {
		sup.Start(selection)
	}
	if !cfg.HTTP.Enabled {
		g.Go(func() error {
			sup.Wait()
			cancel()
			return nil
		})
	}

	return g.Wait()
}
