package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps codes in process memory. Use it in development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, key string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = rec
	return nil
}

func (m *MemoryStore) Consume(_ context.Context, key string, hash [32]byte, maxAttempts int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return ErrInvalidCode
	}

	updated, drop, err := check(rec, hash, maxAttempts, m.now())
	if drop {
		delete(m.records, key)
	} else {
		m.records[key] = updated
	}
	return err
}
