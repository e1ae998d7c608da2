package flash

import "net/http"

// MessageStore persists queued flash messages between the request that
// creates them and the request that displays them.
//
// The contract is uniform across backends: Load retrieves the messages
// pending for the incoming request without clearing them, and Store
// replaces the whole queue for the outgoing response. Storing an empty
// slice removes the queue entirely rather than leaving an empty one
// behind.
//
// The response writer passed to Store is for backends that encode state
// into response headers directly (e.g. cookie-based stores). Backends
// that persist elsewhere are free to ignore it.
type MessageStore interface {
	// Load returns the messages queued for the incoming request, in the
	// order they were stored. An absent queue yields an empty slice, not
	// an error. Failures are joined with ErrLoadMessages.
	Load(r *http.Request) ([]Message, error)

	// Store replaces the pending queue with the given messages. An empty
	// slice clears the queue. Failures are joined with ErrStoreMessages.
	Store(messages []Message, r *http.Request, w http.ResponseWriter) error
}
