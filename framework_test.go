package flash_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flash"
	"github.com/dmitrymomot/flash/pkg/session"
	"github.com/dmitrymomot/flash/storage"
)

// memStore is a MessageStore holding messages in memory across requests,
// standing in for a real backend in middleware tests.
type memStore struct {
	mu       sync.Mutex
	messages []flash.Message
	loadErr  error
	storeErr error
}

func (s *memStore) Load(_ *http.Request) ([]flash.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.messages, nil
}

func (s *memStore) Store(messages []flash.Message, _ *http.Request, _ http.ResponseWriter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return s.storeErr
	}
	s.messages = messages
	return nil
}

func newCookieJar(t *testing.T) http.CookieJar {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}

func serve(t *testing.T, f *flash.Framework, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	f.Middleware()(handler).ServeHTTP(rec, req)
	return rec
}

func TestFrameworkLifecycle(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	f := flash.New(store)

	// Request 1 queues messages and redirects.
	serve(t, f, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, flash.Info(r.Context(), "first"))
		require.NoError(t, flash.Success(r.Context(), "second"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	require.Equal(t, []flash.Message{
		{Level: flash.LevelInfo, Text: "first"},
		{Level: flash.LevelSuccess, Text: "second"},
	}, store.messages)

	// Request 2 sees them in order; queueing nothing clears the store.
	var got []flash.Message
	serve(t, f, func(w http.ResponseWriter, r *http.Request) {
		got = flash.Messages(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	require.Equal(t, []flash.Message{
		{Level: flash.LevelInfo, Text: "first"},
		{Level: flash.LevelSuccess, Text: "second"},
	}, got)
	require.Empty(t, store.messages)

	// Request 3 sees nothing.
	serve(t, f, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, flash.Messages(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestFrameworkMinimumLevel(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	f := flash.New(store, flash.WithMinimumLevel(flash.LevelWarning))

	serve(t, f, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, flash.Info(r.Context(), "dropped"))
		require.NoError(t, flash.Error(r.Context(), "kept"))
		w.WriteHeader(http.StatusOK)
	})

	require.Equal(t, []flash.Message{
		{Level: flash.LevelError, Text: "kept"},
	}, store.messages)
}

func TestFrameworkStoresBeforeFirstWrite(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	f := flash.New(store)

	var atWrite []flash.Message
	serve(t, f, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, flash.Info(r.Context(), "early"))
		w.WriteHeader(http.StatusSeeOther)
		// By the time the status line is out, the queue must be persisted.
		atWrite = store.messages
		require.NoError(t, flash.Info(r.Context(), "too late"))
	})

	require.Equal(t, []flash.Message{{Level: flash.LevelInfo, Text: "early"}}, atWrite)
	// Messages queued after the first write are lost for this response.
	require.Equal(t, atWrite, store.messages)
}

func TestFrameworkHandlerWithoutWrite(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	f := flash.New(store)

	// Handler returns without writing; net/http sends an implicit 200.
	// The queue must still be persisted.
	serve(t, f, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, flash.Info(r.Context(), "silent"))
	})

	require.Equal(t, []flash.Message{{Level: flash.LevelInfo, Text: "silent"}}, store.messages)
}

func TestFrameworkLoadFailure(t *testing.T) {
	t.Parallel()

	store := &memStore{loadErr: errors.Join(flash.ErrLoadMessages, errors.New("backend down"))}
	f := flash.New(store)

	rec := serve(t, f, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, flash.Messages(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	// The request degrades gracefully instead of failing.
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestFrameworkStoreFailure(t *testing.T) {
	t.Parallel()

	store := &memStore{storeErr: errors.Join(flash.ErrStoreMessages, errors.New("backend down"))}
	f := flash.New(store)

	rec := serve(t, f, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, flash.Info(r.Context(), "doomed"))
		w.WriteHeader(http.StatusOK)
	})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSendWithoutMiddleware(t *testing.T) {
	t.Parallel()

	err := flash.Info(context.Background(), "nowhere to go")
	require.ErrorIs(t, err, flash.ErrNotConfigured)
	require.Nil(t, flash.Messages(context.Background()))
}

// TestFrameworkWithSessionStore drives the full stack the way a browser
// would: session middleware outside, flash middleware inside, cookies
// carried between requests.
func TestFrameworkWithSessionStore(t *testing.T) {
	t.Parallel()

	sessions := session.NewManager(session.NewMemory())
	store := storage.NewSessionStore(func(r *http.Request) (storage.Session, error) {
		return session.FromRequest(r)
	})
	f := flash.New(store)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /save", func(w http.ResponseWriter, r *http.Request) {
		_ = flash.Success(r.Context(), "Item saved successfully")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		for _, m := range flash.Messages(r.Context()) {
			_, _ = io.WriteString(w, m.Text+"\n")
		}
	})

	srv := httptest.NewServer(sessions.Middleware()(f.Middleware()(mux)))
	defer srv.Close()

	jar := newCookieJar(t)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	// POST queues the message and redirects.
	resp, err := client.Post(srv.URL+"/save", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// Following GET displays it once.
	resp, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "Item saved successfully\n", string(body))

	// A second GET shows nothing: the display request cleared the slot.
	resp, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Empty(t, string(body))
}
