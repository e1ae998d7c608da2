package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/flash"
)

// DefaultCookieName is the cookie holding pending flash messages unless
// overridden with WithCookieName.
const DefaultCookieName = "_flash"

// Cookie store errors.
var (
	// ErrBadSecret is returned when the signing secret is shorter than 32 bytes.
	ErrBadSecret = errors.New("storage: cookie secret must be at least 32 bytes")

	// ErrBadSignature indicates a tampered or malformed flash cookie.
	ErrBadSignature = errors.New("storage: invalid cookie signature")
)

// CookieStore persists flash messages in a single HMAC-SHA256-signed
// cookie, needing no server-side state. The cookie value is
// base64(json(messages)) + "." + base64(signature).
//
// The cookie carries no Max-Age: it is scoped to the browser session,
// which is plenty for a notification meant to survive one redirect.
type CookieStore struct {
	secret   []byte
	name     string
	path     string
	domain   string
	sameSite http.SameSite
	secure   bool
	httpOnly bool
}

// CookieStoreOption configures a CookieStore.
type CookieStoreOption func(*CookieStore)

// WithCookieName sets the cookie name. Default is DefaultCookieName.
func WithCookieName(name string) CookieStoreOption {
	return func(s *CookieStore) {
		if name != "" {
			s.name = name
		}
	}
}

// WithCookiePath sets the cookie path. Default is "/".
func WithCookiePath(path string) CookieStoreOption {
	return func(s *CookieStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieStoreOption {
	return func(s *CookieStore) {
		s.domain = domain
	}
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieStoreOption {
	return func(s *CookieStore) {
		s.secure = secure
	}
}

// WithCookieHTTPOnly sets the HttpOnly flag. Default is true.
func WithCookieHTTPOnly(httpOnly bool) CookieStoreOption {
	return func(s *CookieStore) {
		s.httpOnly = httpOnly
	}
}

// WithCookieSameSite sets the SameSite attribute. Default is Lax.
func WithCookieSameSite(ss http.SameSite) CookieStoreOption {
	return func(s *CookieStore) {
		s.sameSite = ss
	}
}

// NewCookieStore creates a cookie-backed message store signing with the
// given secret. Returns ErrBadSecret if the secret is shorter than 32 bytes.
func NewCookieStore(secret string, opts ...CookieStoreOption) (*CookieStore, error) {
	if len(secret) < 32 {
		return nil, ErrBadSecret
	}

	s := &CookieStore{
		secret:   []byte(secret),
		name:     DefaultCookieName,
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Load returns the messages carried by the flash cookie, verifying its
// signature first. An absent cookie yields nil, not an error.
func (s *CookieStore) Load(r *http.Request) ([]flash.Message, error) {
	c, err := r.Cookie(s.name)
	if err != nil {
		// http.Request.Cookie only ever fails with ErrNoCookie.
		return nil, nil
	}

	payload, err := s.verify(c.Value)
	if err != nil {
		return nil, errors.Join(flash.ErrLoadMessages, err)
	}

	var messages []flash.Message
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil, errors.Join(flash.ErrLoadMessages, err)
	}

	return messages, nil
}

// Store replaces the flash cookie with the given messages. An empty slice
// sends a deletion cookie so stale messages never linger client-side.
func (s *CookieStore) Store(messages []flash.Message, _ *http.Request, w http.ResponseWriter) error {
	if len(messages) == 0 {
		http.SetCookie(w, s.cookie("", -1))
		return nil
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return errors.Join(flash.ErrStoreMessages, err)
	}

	http.SetCookie(w, s.cookie(s.sign(payload), 0))
	return nil
}

// sign produces the signed cookie value for a payload.
func (s *CookieStore) sign(payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	sig := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(payload) +
		"." + base64.RawURLEncoding.EncodeToString(sig)
}

// verify checks the signature of a cookie value and returns its payload.
func (s *CookieStore) verify(value string) ([]byte, error) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return nil, ErrBadSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrBadSignature
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrBadSignature
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrBadSignature
	}

	return payload, nil
}

func (s *CookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     s.path,
		Domain:   s.domain,
		MaxAge:   maxAge,
		Secure:   s.secure,
		HttpOnly: s.httpOnly,
		SameSite: s.sameSite,
	}
}
