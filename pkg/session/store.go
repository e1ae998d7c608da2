package session

import "context"

// Store defines the interface for session persistence.
// Implementations handle storage-specific operations like
// cache lookups or database queries.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its token.
	// Returns ErrNotFound if the session doesn't exist.
	// Returns ErrExpired if the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session.
	// Returns ErrNotFound if the session doesn't exist.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its token.
	Delete(ctx context.Context, token string) error
}
