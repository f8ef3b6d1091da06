package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryManager keeps sessions in a process-local map. Suitable for a
// single instance; expired entries are reclaimed lazily when looked up,
// there is no background sweep.
type MemoryManager struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryManager(ttl time.Duration) *MemoryManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryManager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryManager) Create(ctx context.Context, userID uuid.UUID, userName string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := m.now().UTC()

	m.mu.Lock()
	m.sessions[id] = Session{
		ID:        id,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Unlock()

	return id, nil
}

func (m *MemoryManager) Load(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}
	if m.now().After(s.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryManager) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}
