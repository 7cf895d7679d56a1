package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestReset(t *testing.T) {
	db := &fakeDB{execFn: func(string, []any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("DELETE 3"), nil
	}}

	require.NoError(t, Reset(context.Background(), db))
	require.Len(t, db.execs, len(resetTables))
	for i, c := range db.execs {
		require.Equal(t, "DELETE FROM "+resetTables[i], c.sql)
	}
}

func TestReset_KeepsCurrencies(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, Reset(context.Background(), db))
	for _, c := range db.execs {
		require.NotContains(t, c.sql, "res_currency")
	}
}

func TestReset_StopsOnError(t *testing.T) {
	db := &fakeDB{execFn: func(sql string, _ []any) (pgconn.CommandTag, error) {
		if strings.HasSuffix(sql, "base_import_mapping") {
			return pgconn.CommandTag{}, errors.New("permission denied")
		}
		return pgconn.NewCommandTag("DELETE 0"), nil
	}}

	err := Reset(context.Background(), db)
	require.ErrorContains(t, err, "reset base_import_mapping")
	require.Len(t, db.execs, 2)
}
