// Package ratelimit provides per-user sliding-window admission control.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the maximum number of turns admitted per user within
	// the window when no explicit limit is configured.
	DefaultLimit = 5

	// defaultWindow is the sliding window duration.
	defaultWindow = time.Minute
)

// Limiter enforces a per-user sliding-window limit on inbound turns.
//
// Internally it holds the admission timestamps for each user within the
// current window and prunes stale entries lazily on every Allow call. This
// keeps memory bounded to O(limit) entries per active user.
//
// Limiter is safe for concurrent use from multiple goroutines.
type Limiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string][]time.Time // userID → admission timestamps in window
}

// New returns a Limiter that admits at most limit turns per user within
// window.
//
// If limit ≤ 0 it defaults to DefaultLimit.
// If window ≤ 0 it defaults to one minute.
func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &Limiter{
		limit:    limit,
		window:   window,
		counters: make(map[string][]time.Time),
	}
}

// Allow decides admission for one inbound turn. When admitted it records the
// current timestamp and returns (true, requests left in this window). When
// the quota is exhausted it returns (false, 0) and records nothing, so a
// rejected turn does not extend the lockout.
func (l *Limiter) Allow(userID string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	// Prune timestamps that have fallen outside the window.
	existing := l.counters[userID]
	valid := existing[:0] // reuse backing array
	for _, t := range existing {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= l.limit {
		l.counters[userID] = valid
		return false, 0
	}

	l.counters[userID] = append(valid, now)
	return true, l.limit - len(valid) - 1
}
