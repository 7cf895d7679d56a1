package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/importguess/internal/config"
	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/core/models"
	"github.com/JonMunkholm/importguess/internal/guess"
	"github.com/JonMunkholm/importguess/internal/store"
)

// newService builds a service backed by PostgreSQL when database.url is
// set, in memory otherwise. The returned func releases the pool.
func newService(ctx context.Context) (*core.Service, func(), error) {
	cfg := defaultImportConfig()
	deps := core.Dependencies{Currencies: models.CurrencySymbols()}

	url := viper.GetString("database.url")
	if url == "" {
		return core.NewService(cfg, deps), func() {}, nil
	}

	pool, err := store.Connect(ctx, config.DatabaseConfig{URL: url})
	if err != nil {
		return nil, nil, err
	}
	if _, err := prepareDatabase(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	deps.Currencies = store.NewCurrencyStore(pool)
	deps.Mappings = store.NewMappingStore(pool)
	deps.Sink = store.NewPostgresSink(pool)
	deps.Audit = store.NewAuditStore(pool)
	return core.NewService(cfg, deps), pool.Close, nil
}

// defaultImportConfig reads the import.* keys. Unset values fall back to
// the service defaults.
func defaultImportConfig() config.ImportConfig {
	return config.ImportConfig{
		PreviewCount:   viper.GetInt("preview.count"),
		FuzzyThreshold: viper.GetFloat64("import.fuzzy_threshold"),
		MaxFileSize:    viper.GetInt64("import.max_file_size"),
	}
}

// openSession uploads path into svc for model.
func openSession(ctx context.Context, svc *core.Service, model, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	id, err := svc.CreateSession(ctx, model, filepath.Base(path), "", data)
	if err != nil {
		return "", fmt.Errorf("%s: %s", core.FormatUserError(err), err)
	}
	slog.Debug("file loaded", "path", path, "bytes", len(data), "session_id", id)
	return id, nil
}

// previewFlags are the read and format flags shared by preview and import.
var previewFlags = []string{"model", "separator", "encoding", "date-format", "datetime-format", "thousand-separator", "decimal-separator", "count"}

// addPreviewFlags registers previewFlags on cmd.
func addPreviewFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("model", "m", "res.partner", "model to import into")
	f.String("separator", "", "CSV field separator (sniffed when empty)")
	f.String("encoding", "", "file encoding (utf-8 or windows-1252, detected when empty)")
	f.String("date-format", "", "preferred date pattern, e.g. %d/%m/%Y")
	f.String("datetime-format", "", "preferred date-time pattern, e.g. %Y-%m-%d %H:%M:%S")
	f.String("thousand-separator", "", "thousands separator for numbers")
	f.String("decimal-separator", "", "decimal separator for numbers")
	f.Int("count", 0, "rows to classify (default 10)")
}

// bindFlags binds the named flags of cmd to "<prefix>.<name>" viper keys,
// with dashes turned into underscores. Commands sharing flag names bind in
// PreRunE so only the running command's flags are seen.
func bindFlags(cmd *cobra.Command, prefix string, names ...string) error {
	for _, name := range names {
		key := prefix + "." + strings.ReplaceAll(name, "-", "_")
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

// previewOptions reads the options bound by addPreviewFlags.
func previewOptions() core.PreviewOptions {
	return core.PreviewOptions{
		ReadOptions: core.ReadOptions{
			Separator: viper.GetString("preview.separator"),
			Encoding:  viper.GetString("preview.encoding"),
		},
		Options: guess.Options{
			DateFormat:             viper.GetString("preview.date_format"),
			DatetimeFormat:         viper.GetString("preview.datetime_format"),
			FloatThousandSeparator: viper.GetString("preview.thousand_separator"),
			FloatDecimalSeparator:  viper.GetString("preview.decimal_separator"),
			PreviewCount:           viper.GetInt("preview.count"),
		},
	}
}

// fieldsFromMatches turns preview matches into the per-column field list
// Execute expects. Unmatched columns are skipped.
func fieldsFromMatches(headers []string, matches map[int][]string) []string {
	fields := make([]string, len(headers))
	for i := range headers {
		if path, ok := matches[i]; ok {
			fields[i] = strings.Join(path, "/")
		}
	}
	return fields
}

// parseFieldList splits a --fields value. Blank entries skip a column.
func parseFieldList(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
