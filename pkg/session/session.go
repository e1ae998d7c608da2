package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// Session is a per-client key-value map correlated across requests by a
// cookie token. Values are kept in serialized form so every backend
// (memory, redis, postgres) round-trips them identically and decoding
// failures surface at read time instead of silently changing types.
type Session struct {
	CreatedAt time.Time
	ExpiresAt time.Time

	Values map[string]json.RawMessage
	ID     string // Unique identifier (UUID)
	Token  string // Cookie token (distinct from ID so IDs can be logged safely)

	dirty bool // tracks if session needs saving
	isNew bool // tracks if session was just created
}

// New creates a new session with the given ID and token.
func New(id, token string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		Token:     token,
		Values:    make(map[string]json.RawMessage),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		isNew:     true,
	}
}

// Get decodes the value stored under key into dest.
// Returns false when the key is absent; returns an error when the stored
// value cannot be decoded into dest.
func (s *Session) Get(key string, dest any) (bool, error) {
	raw, ok := s.Values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("session: decode value %q: %w", key, err)
	}
	return true, nil
}

// Insert stores a value under key, replacing any previous value.
// Marks the session as dirty for automatic saving.
func (s *Session) Insert(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session: encode value %q: %w", key, err)
	}
	if s.Values == nil {
		s.Values = make(map[string]json.RawMessage)
	}
	s.Values[key] = raw
	s.dirty = true
	return nil
}

// Remove deletes a value from the session.
// Marks the session as dirty only if the key existed.
func (s *Session) Remove(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the session as clean (saved).
// Called by the Manager after persisting changes.
func (s *Session) ClearDirty() {
	s.dirty = false
}

// MarkDirty marks the session as needing to be saved.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// IsNew returns true if the session has never been persisted.
func (s *Session) IsNew() bool {
	return s.isNew
}

// ClearNew marks the session as persisted.
func (s *Session) ClearNew() {
	s.isNew = false
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// record is the backend-agnostic serialized form of a session.
type record struct {
	CreatedAt time.Time                  `json:"created_at"`
	ExpiresAt time.Time                  `json:"expires_at"`
	Values    map[string]json.RawMessage `json:"values"`
	ID        string                     `json:"id"`
	Token     string                     `json:"token"`
}

// snapshot copies the session into its serialized form. The Values map is
// cloned so stores never share mutable state with live sessions.
func (s *Session) snapshot() record {
	values := make(map[string]json.RawMessage, len(s.Values))
	for k, v := range s.Values {
		values[k] = v
	}
	return record{
		ID:        s.ID,
		Token:     s.Token,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		Values:    values,
	}
}

// restore reconstructs a clean, already-persisted session from a record.
// The Values map is cloned so the in-memory store can hand out the same
// record repeatedly without sharing state between requests.
func (r record) restore() *Session {
	values := make(map[string]json.RawMessage, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return &Session{
		ID:        r.ID,
		Token:     r.Token,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
		Values:    values,
	}
}
