package storage

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/flash"
)

// DefaultSessionKey is the session slot under which pending flash
// messages are stored unless overridden with WithSessionKey.
const DefaultSessionKey = "_flash"

// Session is the narrow capability SessionStore needs from a session
// subsystem: typed read, replace and remove of a single slot. It is
// deliberately decoupled from any concrete session or request type;
// pkg/session satisfies it, as can any other session layer.
type Session interface {
	// Get decodes the value stored under key into dest.
	// Returns false when the key is absent.
	Get(key string, dest any) (bool, error)

	// Insert stores value under key, replacing any previous value.
	Insert(key string, value any) error

	// Remove deletes key. Removal is treated as infallible.
	Remove(key string)
}

// SessionResolver resolves the session handle associated with a request,
// typically from the request context populated by a session middleware.
type SessionResolver func(r *http.Request) (Session, error)

// SessionStore persists flash messages in a single slot of a session map,
// delegating all durability concerns (cookies, remote stores, signing) to
// the session subsystem behind the resolver.
//
// The zero-value-free construction makes the store immutable after
// NewSessionStore returns; it is safe to copy and share.
type SessionStore struct {
	sessions SessionResolver
	key      string
}

// SessionStoreOption configures a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionKey sets the session slot name. The key is stored verbatim;
// callers are responsible for avoiding collisions with their own session
// values. Default is DefaultSessionKey.
func WithSessionKey(key string) SessionStoreOption {
	return func(s *SessionStore) {
		s.key = key
	}
}

// NewSessionStore creates a session-backed message store.
// The resolver is called once per Load and once per Store to obtain the
// session handle for the request being processed.
func NewSessionStore(sessions SessionResolver, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		sessions: sessions,
		key:      DefaultSessionKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load returns the messages pending in the session slot, in stored order.
// An absent slot yields nil, not an error. Loading is read-only: the slot
// is cleared by a later Store with an empty slice, not by reading.
func (s *SessionStore) Load(r *http.Request) ([]flash.Message, error) {
	sess, err := s.sessions(r)
	if err != nil {
		return nil, errors.Join(flash.ErrLoadMessages, err)
	}

	var messages []flash.Message
	ok, err := sess.Get(s.key, &messages)
	if err != nil {
		return nil, errors.Join(flash.ErrLoadMessages, err)
	}
	if !ok {
		return nil, nil
	}

	return messages, nil
}

// Store replaces the session slot with the given messages. An empty slice
// removes the slot entirely so it never holds a present-but-empty queue.
// The response writer is unused: this backend writes nothing to the
// response itself.
func (s *SessionStore) Store(messages []flash.Message, r *http.Request, _ http.ResponseWriter) error {
	sess, err := s.sessions(r)
	if err != nil {
		return errors.Join(flash.ErrStoreMessages, err)
	}

	if len(messages) == 0 {
		// Clear leftovers from the previous request. The non-empty branch
		// overwrites them instead, so removal is only needed here.
		sess.Remove(s.key)
		return nil
	}

	if err := sess.Insert(s.key, messages); err != nil {
		return errors.Join(flash.ErrStoreMessages, err)
	}

	return nil
}
