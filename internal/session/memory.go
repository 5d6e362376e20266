package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps sessions in an in-process map. It is the development
// default and the startup fallback when a durable backend is unreachable.
// Contents are lost on restart.
//
// Records are held JSON-encoded so that Get/Set round-trip exactly like the
// durable backends and callers never share memory with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	records map[string]memoryRecord
}

type memoryRecord struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-process store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		records: make(map[string]memoryRecord),
	}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(rec.expiresAt) {
		delete(m.records, userID)
		return nil, ErrNotFound
	}

	var s Session
	if err := json.Unmarshal(rec.data, &s); err != nil {
		return nil, fmt.Errorf("memory store: decode session %s: %w", userID, err)
	}
	return &s, nil
}

func (m *MemoryStore) Set(_ context.Context, userID string, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("memory store: encode session %s: %w", userID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[userID] = memoryRecord{data: data, expiresAt: time.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, userID)
	return nil
}

func (m *MemoryStore) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := m.Get(ctx, userID)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
