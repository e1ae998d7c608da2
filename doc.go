// Package flash provides one-time-read flash messages for Go web
// applications: short-lived notifications ("Item saved successfully")
// queued during one request and displayed exactly once on a subsequent
// one, typically after a redirect.
//
// # Quick Start
//
// Pick a storage backend, create a [Framework], and mount its middleware.
// The session backend needs a session middleware mounted outside it:
//
//	sessions := session.NewManager(session.NewMemory())
//	store := storage.NewSessionStore(func(r *http.Request) (storage.Session, error) {
//	    return session.FromRequest(r)
//	})
//	messages := flash.New(store)
//
//	r := chi.NewRouter()
//	r.Use(sessions.Middleware())
//	r.Use(messages.Middleware())
//
// Queue messages from handlers and redirect:
//
//	func save(w http.ResponseWriter, r *http.Request) {
//	    // ... persist the item ...
//	    flash.Success(r.Context(), "Item saved successfully")
//	    http.Redirect(w, r, "/", http.StatusSeeOther)
//	}
//
// Display them on the next request:
//
//	for _, m := range flash.Messages(r.Context()) {
//	    fmt.Fprintf(w, "[%s] %s\n", m.Level, m.Text)
//	}
//
// # Lifecycle
//
// The middleware loads pending messages once per request and persists the
// newly queued set once per response, just before the first byte goes out.
// A request that queues nothing clears any leftover queue, which is what
// makes messages one-time-read: they survive exactly one render.
//
// # Storage Backends
//
// The storage package ships two implementations of [MessageStore]:
//
//   - SessionStore delegates durability to a session subsystem via a
//     narrow get/insert/remove capability. Use it when the app already
//     carries sessions (see pkg/session for a ready-made one).
//   - CookieStore keeps the queue in a single HMAC-signed cookie and
//     needs no server-side state.
//
// Any type satisfying [MessageStore] can be plugged in instead.
//
// # Levels
//
// Messages carry a [Level] (debug, info, success, warning, error). The
// framework discards messages below the configured minimum level at send
// time; see [WithMinimumLevel].
package flash
