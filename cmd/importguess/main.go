// Command importguess previews and imports CSV or XLSX files from the
// command line, using the same type guessing as the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/importguess/internal/logging"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "importguess",
		Short: "Guess column types of spreadsheets and import them",
		Long: `importguess reads a CSV or XLSX file, matches its headers to the fields of a
model and guesses each column's type and format (dates, thousands and decimal
separators, currency symbols) from the first rows.

Settings come from flags, IMPORTGUESS_* environment variables or a config file.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: importguess.yaml in $HOME/.config/importguess or .)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")
	root.PersistentFlags().String("database-url", "", "PostgreSQL URL for currencies, mappings and imported rows")

	_ = viper.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.url", root.PersistentFlags().Lookup("database-url"))

	root.AddCommand(modelsCmd())
	root.AddCommand(previewCmd())
	root.AddCommand(importCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(resetCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/importguess")
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("importguess")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("IMPORTGUESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	slog.SetDefault(logging.New(os.Stderr, viper.GetString("logging.level"), viper.GetString("logging.format")))
	slog.Debug("config loaded", "file", viper.ConfigFileUsed())
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "importguess", version)
		},
	}
}
