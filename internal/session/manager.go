package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// storeTimeout bounds every call into the backing store so a stalled
// durable backend turns into an error instead of a hung turn.
const storeTimeout = 5 * time.Second

// Manager is the service layer over a Store: it creates sessions on demand,
// touches updatedAt on save and enforces the session invariants.
type Manager struct {
	store Store
}

// NewManager wraps the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// GetOrCreate loads the user's session, or returns a fresh Idle one when no
// live record exists.
func (m *Manager) GetOrCreate(ctx context.Context, userID string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	s, err := m.store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", userID, err)
	}
	return s, nil
}

// Save validates the session, bumps updatedAt and persists it, resetting the
// backend TTL.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.UpdatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := m.store.Set(ctx, s.UserID, s); err != nil {
		return fmt.Errorf("save session %s: %w", s.UserID, err)
	}
	return nil
}

// Delete removes the user's session.
func (m *Manager) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return m.store.Delete(ctx, userID)
}

// Exists reports whether a live session is stored for the user.
func (m *Manager) Exists(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return m.store.Exists(ctx, userID)
}

// SelectStore picks the backend from configuration: Redis when a URL is
// given, SQLite when a path is given, in-process memory otherwise. A durable
// backend that cannot be reached at startup degrades to memory with a
// warning instead of failing the service.
func SelectStore(redisURL, sqlitePath string, ttl time.Duration) Store {
	if redisURL != "" {
		store, err := NewRedisStore(redisURL, ttl)
		if err == nil {
			slog.Info("session store: using redis backend")
			return store
		}
		slog.Warn("session store: redis unreachable, falling back to in-memory", "err", err)
		return NewMemoryStore(ttl)
	}
	if sqlitePath != "" {
		store, err := NewSQLiteStore(sqlitePath, ttl)
		if err == nil {
			slog.Info("session store: using sqlite backend", "path", sqlitePath)
			return store
		}
		slog.Warn("session store: sqlite unavailable, falling back to in-memory", "err", err)
		return NewMemoryStore(ttl)
	}
	slog.Info("session store: using in-memory backend (sessions lost on restart)")
	return NewMemoryStore(ttl)
}
