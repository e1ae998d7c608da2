package flash

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/flash/internal"
)

// Framework wires a MessageStore into the request/response cycle.
//
// Its middleware loads pending messages once per incoming request, exposes
// them via Messages, collects newly queued messages from Send and friends,
// and persists the new queue exactly once per response, just before the
// first byte is written. When nothing was queued, the store is told to
// clear the slot so messages are displayed at most once.
type Framework struct {
	store    MessageStore
	logger   *slog.Logger
	minLevel Level
}

// Option configures the Framework.
type Option func(*Framework)

// WithMinimumLevel sets the minimum level a message must have to be
// recorded. Messages below it are silently discarded at send time.
// Default is LevelInfo.
func WithMinimumLevel(l Level) Option {
	return func(f *Framework) {
		f.minLevel = l
	}
}

// WithLogger sets the logger for storage failures.
func WithLogger(l *slog.Logger) Option {
	return func(f *Framework) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Framework backed by the given store.
func New(store MessageStore, opts ...Option) *Framework {
	f := &Framework{
		store:    store,
		logger:   slog.Default(),
		minLevel: LevelInfo,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Middleware returns the HTTP middleware that drives the flash lifecycle.
//
// Load failures are logged and the request proceeds with no pending
// messages; store failures are logged and the response is sent anyway.
// Losing a notification is preferable to failing the request that
// triggered it.
func (f *Framework) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			incoming, err := f.store.Load(r)
			if err != nil {
				f.logger.ErrorContext(r.Context(), "failed to load flash messages",
					slog.Any("error", err),
				)
				incoming = nil
			}

			b := newBag(f.minLevel)
			ctx := context.WithValue(r.Context(), incomingKey{}, incoming)
			ctx = context.WithValue(ctx, bagKey{}, b)
			r = r.WithContext(ctx)

			ww := internal.NewResponseWriter(w)
			ww.OnBeforeWrite(func() {
				if err := f.store.Store(b.drain(), r, ww); err != nil {
					f.logger.ErrorContext(r.Context(), "failed to store flash messages",
						slog.Any("error", err),
					)
				}
			})

			next.ServeHTTP(ww, r)
			ww.Finish()
		})
	}
}
