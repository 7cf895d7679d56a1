package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an unused session is kept.
const DefaultSessionTTL = 12 * time.Hour

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("import session not found")

// SessionStore persists import sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}

// MemorySessions keeps sessions in process memory. Expired sessions are
// invisible to Get and removed by Sweep.
type MemorySessions struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	sess    Session
	expires time.Time
}

// NewMemorySessions returns an in-memory store. A non-positive ttl uses
// DefaultSessionTTL.
func NewMemorySessions(ttl time.Duration) *MemorySessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessions{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (m *MemorySessions) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || m.now().After(e.expires) {
		return nil, ErrSessionNotFound
	}
	sess := e.sess
	return &sess, nil
}

func (m *MemorySessions) Put(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = memoryEntry{sess: *sess, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *MemorySessions) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	dropped := 0
	for id, e := range m.sessions {
		if now.After(e.expires) {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped, nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemorySessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweeper is implemented by stores that need explicit expiry.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
// Stores that expire entries on their own (Redis) do not need it.
func RunJanitor(ctx context.Context, sw Sweeper, interval time.Duration) {
	slog.Info("session janitor started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			start := time.Now()
			n, err := sw.Sweep(ctx)
			if err != nil {
				slog.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired import sessions removed",
					"sessions", n,
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}
