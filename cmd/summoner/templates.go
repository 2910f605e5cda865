package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/filipesarturi/summoner/internal/config"
	"github.com/filipesarturi/summoner/internal/vision"
	"github.com/spf13/cobra"
)

func NewTemplatesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect or install the template images",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report which templates load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkTemplates(rootOpts.ConfigPath, cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "install <dir>",
		Short: "Copy a template bundle into the configured template directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			dst := cfg.TemplateDir(rootOpts.ConfigPath)
			if err = config.InstallTemplates(args[0], dst); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Templates installed to %s\n", dst)
			return nil
		},
	})

	return cmd
}

func checkTemplates(configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	dir := cfg.TemplateDir(configPath)
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store := vision.LoadTemplates(logger, dir, cfg.Templates.Files)
	defer store.Close()

	loaded := store.Keys()
	fmt.Fprintf(out, "%d/%d templates loaded from %s\n", len(loaded), len(cfg.Templates.Files), dir)
	if missing := config.MissingTemplates(dir, cfg.Templates.Files); len(missing) > 0 {
		fmt.Fprintf(out, "Missing: %s\n", strings.Join(missing, ", "))
	}

	if len(loaded) != len(cfg.Templates.Files) {
		return fmt.Errorf("%d templates could not be loaded", len(cfg.Templates.Files)-len(loaded))
	}

	return nil
}
