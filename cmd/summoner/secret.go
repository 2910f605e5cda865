package main

import (
	"fmt"

	"github.com/filipesarturi/summoner/internal/config"
	"github.com/spf13/cobra"
)

func NewSecretCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Protect bot tokens for the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "protect <value>",
		Short: "Encrypt a token for the current Windows user",
		Long: `Encrypt a token for the current Windows user. Paste the output, including its
dpapi: prefix, into the discord or telegram token field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := config.ProtectSecret(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), enc)
			return nil
		},
	})

	return cmd
}
