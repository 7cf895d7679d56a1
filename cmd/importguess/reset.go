package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/importguess/internal/config"
	"github.com/JonMunkholm/importguess/internal/store"
)

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete imported rows, remembered mappings and the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes data; pass --yes to confirm")
			}
			url := viper.GetString("database.url")
			if url == "" {
				return errors.New("--database-url (or IMPORTGUESS_DATABASE_URL) is required")
			}

			ctx := cmd.Context()
			pool, err := store.Connect(ctx, config.DatabaseConfig{URL: url})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.Reset(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
