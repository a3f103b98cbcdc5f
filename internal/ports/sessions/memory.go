package sessions

import (
	"context"
	"sync"
	"time"

	"worktracker.service/internal/core/model"
)

type memoryEntry struct {
	session   model.ActiveSession
	expiresAt time.Time
}

// MemoryStore is the single-process Store used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore returns a store whose entries expire after ttl. A zero ttl
// keeps them until cleared.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) live(workerName string) (memoryEntry, bool) {
	e, ok := m.entries[workerName]
	if !ok {
		return e, false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, workerName)
		return e, false
	}
	return e, true
}

func (m *MemoryStore) Start(_ context.Context, s model.ActiveSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live(s.WorkerName); ok {
		return ErrExists
	}
	e := memoryEntry{session: s}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[s.WorkerName] = e
	return nil
}

func (m *MemoryStore) Get(_ context.Context, workerName string) (*model.ActiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(workerName)
	if !ok {
		return nil, nil
	}
	s := e.session
	return &s, nil
}

func (m *MemoryStore) Clear(_ context.Context, workerName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, workerName)
	return nil
}
