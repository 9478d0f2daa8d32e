package session

import (
	"context"
	"sync"
	"time"
)

// Store keeps one session per identity. Save overwrites any previous session.
type Store interface {
	// Load returns nil, nil when no session is stored
	Load(ctx context.Context, identity string) (*Session, error)
	Save(ctx context.Context, identity string, s *Session) error
	Delete(ctx context.Context, identity string) error
}

// Purger is implemented by stores that do not expire records by themselves
type Purger interface {
	PurgeExpired(ctx context.Context, createdBefore time.Time) (int64, error)
}

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Load(ctx context.Context, identity string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[identity]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, identity string, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[identity] = *s
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, identity)
	return nil
}

func (m *MemoryStore) PurgeExpired(ctx context.Context, createdBefore time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.CreatedAt.Before(createdBefore) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
