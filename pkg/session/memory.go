package session

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process session store for development, testing, and
// single-node deployments. Sessions do not survive restarts.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]record
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]record),
	}
}

// Create persists a new session.
func (m *Memory) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s.snapshot()
	return nil
}

// Get retrieves a session by its token. Expired sessions are removed
// lazily on access.
func (m *Memory) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	rec, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	if time.Now().After(rec.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrExpired
	}

	return rec.restore(), nil
}

// Update saves changes to an existing session.
func (m *Memory) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.Token]; !ok {
		return ErrNotFound
	}
	m.sessions[s.Token] = s.snapshot()
	return nil
}

// Delete removes a session by its token.
func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// DeleteExpired removes all expired sessions and returns how many were
// deleted. Call it periodically; the store does not run its own janitor.
func (m *Memory) DeleteExpired() int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for token, rec := range m.sessions {
		if now.After(rec.ExpiresAt) {
			delete(m.sessions, token)
			deleted++
		}
	}
	return deleted
}

// Len returns the number of stored sessions, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
