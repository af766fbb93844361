package session

import (
	"context"
	"sync"
	"time"

	"kriya/internal/apperr"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session), now: time.Now}
}

// Save stores s and drops every session that has already expired.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for token, existing := range m.sessions {
		if !now.Before(existing.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
	m.sessions[s.Token] = *s
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("session not found")
	}
	if !m.now().Before(s.ExpiresAt) {
		m.mu.Lock()
		// A concurrent Save may have replaced the entry.
		if cur, ok := m.sessions[token]; ok && cur.ExpiresAt.Equal(s.ExpiresAt) {
			delete(m.sessions, token)
		}
		m.mu.Unlock()
		return nil, apperr.NotFound("session not found")
	}
	return &s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
