package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// currencyQueryTimeout bounds a single symbol lookup. IsCurrencySymbol has
// no context of its own because classification never fails.
const currencyQueryTimeout = 5 * time.Second

// CurrencyStore answers currency symbol lookups from the res_currency table.
// Answers are cached for the life of the store; failed queries are not.
type CurrencyStore struct {
	db DBTX

	mu    sync.RWMutex
	cache map[string]bool
}

// NewCurrencyStore returns a lookup backed by db.
func NewCurrencyStore(db DBTX) *CurrencyStore {
	return &CurrencyStore{db: db, cache: make(map[string]bool)}
}

// IsCurrencySymbol reports whether an active currency uses symbol. A query
// error is logged and answered with false.
func (c *CurrencyStore) IsCurrencySymbol(symbol string) bool {
	if symbol == "" {
		return false
	}

	c.mu.RLock()
	known, ok := c.cache[symbol]
	c.mu.RUnlock()
	if ok {
		return known
	}

	ctx, cancel := context.WithTimeout(context.Background(), currencyQueryTimeout)
	defer cancel()

	var exists bool
	err := c.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM res_currency WHERE symbol = $1 AND active)`,
		symbol,
	).Scan(&exists)
	if err != nil {
		slog.Warn("currency lookup failed", "symbol", symbol, "error", err)
		return false
	}

	c.mu.Lock()
	c.cache[symbol] = exists
	c.mu.Unlock()
	return exists
}

// Reset drops every cached answer.
func (c *CurrencyStore) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]bool)
}
