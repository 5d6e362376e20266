package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when no live session exists for the
// key. An expired record counts as absent.
var ErrNotFound = errors.New("session not found")

// Store is the pluggable persistence contract. Every write resets the
// backend's TTL; Get on an expired record reports ErrNotFound and purges it.
//
// Callers never branch on the concrete backend: memory, Redis and SQLite all
// honor the same contract and are selected by configuration at startup.
type Store interface {
	Get(ctx context.Context, userID string) (*Session, error)
	Set(ctx context.Context, userID string, s *Session) error
	Delete(ctx context.Context, userID string) error
	Exists(ctx context.Context, userID string) (bool, error)
}
