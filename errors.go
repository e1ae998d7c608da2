package flash

import "errors"

// Flash errors.
var (
	// ErrNotConfigured is returned when the sending API is used on a
	// request that did not pass through the flash middleware.
	ErrNotConfigured = errors.New("flash: middleware not mounted")

	// ErrLoadMessages is joined with the underlying cause when a storage
	// backend fails to read or decode the pending message queue.
	ErrLoadMessages = errors.New("flash: failed to load messages from storage")

	// ErrStoreMessages is joined with the underlying cause when a storage
	// backend fails to encode or write the message queue.
	ErrStoreMessages = errors.New("flash: failed to store messages")

	// ErrUnknownLevel is returned when parsing an unrecognized level name.
	ErrUnknownLevel = errors.New("flash: unknown level")
)
