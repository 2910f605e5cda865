package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/summoner.yaml"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "summoner",
		Short: "Summon shop automation",
		Long: `Buys the selected realm packs from the summon shop by watching the screen and
driving mouse and keyboard, then sells and waits for the next restock.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", defaultConfigPath, "configuration file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTemplatesCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewSecretCommand())

	return cmd
}
