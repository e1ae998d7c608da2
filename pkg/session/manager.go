package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/flash/internal"
)

// Default session configuration.
const (
	defaultCookieName = "__sid"
	defaultMaxAge     = 86400 * 30 // 30 days
)

// ctxKey is the context key for the request-scoped session.
type ctxKey struct{}

// Manager handles session lifecycle and cookie management.
//
// Its middleware resolves the session for every request: an existing one
// from the token cookie, or a fresh unsaved one otherwise. Sessions are
// persisted (and the cookie set) only when something was actually written
// to them, just before the first byte of the response goes out.
type Manager struct {
	store      Store
	logger     *slog.Logger
	cookieName string
	domain     string
	path       string
	maxAge     int
	sameSite   http.SameSite
	secure     bool
	httpOnly   bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithMaxAge sets the session lifetime in seconds.
func WithMaxAge(seconds int) Option {
	return func(m *Manager) {
		if seconds > 0 {
			m.maxAge = seconds
		}
	}
}

// WithDomain sets the session cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the session cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the session cookie Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the session cookie HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the session cookie SameSite attribute.
func WithSameSite(sameSite http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = sameSite
	}
}

// WithLogger sets the logger for session persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a Manager with the given store and options.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		logger:     slog.Default(),
		cookieName: defaultCookieName,
		maxAge:     defaultMaxAge,
		path:       "/",
		httpOnly:   true,
		sameSite:   http.SameSiteLaxMode,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Middleware returns HTTP middleware that attaches a session to every
// request and saves it before the response is written, if it was touched.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := m.resolve(r)
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess))

			ww := internal.NewResponseWriter(w)
			ww.OnBeforeWrite(func() {
				m.save(r.Context(), ww, sess)
			})

			next.ServeHTTP(ww, r)
			ww.Finish()
		})
	}
}

// FromContext returns the session attached to the context.
// Returns ErrNotConfigured if the Manager middleware is not mounted.
func FromContext(ctx context.Context) (*Session, error) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok {
		return nil, ErrNotConfigured
	}
	return sess, nil
}

// FromRequest returns the session attached to the request context.
// It has the right shape to back a storage.SessionResolver.
func FromRequest(r *http.Request) (*Session, error) {
	return FromContext(r.Context())
}

// Destroy deletes the session from the store and expires its cookie.
// The in-flight session keeps working for the rest of the request but
// will not be saved again.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess, err := FromRequest(r)
	if err != nil {
		return err
	}

	if !sess.IsNew() {
		if err := m.store.Delete(r.Context(), sess.Token); err != nil {
			return err
		}
	}

	sess.Values = make(map[string]json.RawMessage)
	sess.ClearDirty()

	http.SetCookie(w, m.cookie("", -1))
	return nil
}

// resolve loads the session referenced by the request cookie, falling
// back to a fresh unsaved session when there is none or it is stale.
func (m *Manager) resolve(r *http.Request) *Session {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		sess, err := m.store.Get(r.Context(), c.Value)
		if err == nil {
			return sess
		}
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired) {
			m.logger.ErrorContext(r.Context(), "failed to load session",
				slog.Any("error", err),
			)
		}
	}

	sess := New(uuid.NewString(), generateToken(), time.Now().Add(time.Duration(m.maxAge)*time.Second))
	// A brand-new session only gets persisted once a value lands in it,
	// so anonymous traffic does not fill the store with empty rows.
	sess.ClearDirty()
	return sess
}

// save persists a touched session and sets the cookie for new ones.
func (m *Manager) save(ctx context.Context, w http.ResponseWriter, sess *Session) {
	if !sess.IsDirty() {
		return
	}

	if sess.IsNew() {
		if err := m.store.Create(ctx, sess); err != nil {
			m.logger.ErrorContext(ctx, "failed to create session",
				slog.String("session_id", sess.ID),
				slog.Any("error", err),
			)
			return
		}
		http.SetCookie(w, m.cookie(sess.Token, m.maxAge))
	} else {
		if err := m.store.Update(ctx, sess); err != nil {
			m.logger.ErrorContext(ctx, "failed to update session",
				slog.String("session_id", sess.ID),
				slog.Any("error", err),
			)
			return
		}
	}

	sess.ClearNew()
	sess.ClearDirty()
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

// generateToken creates a cryptographically secure random token.
// crypto/rand.Read never returns an error as of Go 1.24.
func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
