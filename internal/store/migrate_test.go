package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/importguess/internal/core/models"
)

func TestMigrate(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, Migrate(context.Background(), db))
	require.Len(t, db.execs, len(schema))

	for _, c := range db.execs {
		require.Contains(t, c.sql, "IF NOT EXISTS")
	}
}

func TestMigrate_StopsOnError(t *testing.T) {
	db := &fakeDB{execFn: func(sql string, _ []any) (pgconn.CommandTag, error) {
		if strings.Contains(sql, "base_import_mapping") {
			return pgconn.CommandTag{}, errors.New("permission denied")
		}
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	}}

	err := Migrate(context.Background(), db)
	require.ErrorContains(t, err, "migration 3")
	require.Len(t, db.execs, 3)
}

func TestSeedCurrencies(t *testing.T) {
	existing := map[string]bool{"EUR": true}
	db := &fakeDB{execFn: func(_ string, args []any) (pgconn.CommandTag, error) {
		if existing[args[0].(string)] {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}}

	added, err := SeedCurrencies(context.Background(), db, map[string]string{
		"USD": "$",
		"EUR": "€",
		"GBP": "£",
	})
	require.NoError(t, err)
	require.Equal(t, 2, added)

	var codes []string
	for _, c := range db.execs {
		codes = append(codes, c.args[0].(string))
	}
	require.Equal(t, []string{"EUR", "GBP", "USD"}, codes)
}

func TestSeedCurrencies_BuiltinTable(t *testing.T) {
	db := &fakeDB{}
	added, err := SeedCurrencies(context.Background(), db, models.Currencies)
	require.NoError(t, err)
	require.Equal(t, len(models.Currencies), added)
	require.Equal(t, models.CurrencyCodes()[0], db.execs[0].args[0])
}
