// Package storage provides the built-in flash.MessageStore backends.
//
// Two implementations are available:
//
//   - [SessionStore] keeps the message queue in one slot of a session map
//     and delegates all durability to the session subsystem behind it.
//     The session layer is accessed through the narrow [Session]
//     capability (get/insert/remove by key), so any session
//     implementation can back it — pkg/session works out of the box.
//   - [CookieStore] keeps the queue in a single signed cookie and needs
//     no server-side state. It writes headers directly, which is why the
//     MessageStore contract passes a response writer to Store even though
//     the session backend ignores it.
//
// Both backends share the same lifecycle: the queue is created on the
// first non-empty Store, fully replaced on every later one, and removed
// (never left present-but-empty) when Store is called with no messages.
package storage
