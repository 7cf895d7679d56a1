package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/importguess/internal/config"
	"github.com/JonMunkholm/importguess/internal/core/models"
	"github.com/JonMunkholm/importguess/internal/store"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and seed currencies",
		Long: `Create the tables used for currencies, remembered column mappings, the
audit log and imported rows, then insert the built-in currencies. Running it
again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			added, err := prepareDatabase(ctx, pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date, %d currencies added\n", added)
			return nil
		},
	}
}

// prepareDatabase migrates the schema and seeds the built-in currencies,
// returning how many currencies were new.
func prepareDatabase(ctx context.Context, db store.DBTX) (int, error) {
	if err := store.Migrate(ctx, db); err != nil {
		return 0, err
	}
	added, err := store.SeedCurrencies(ctx, db, models.Currencies)
	if err != nil {
		return 0, fmt.Errorf("seed currencies: %w", err)
	}
	return added, nil
}
