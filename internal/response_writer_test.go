package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_WriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewResponseWriter(rec)

	w.WriteHeader(http.StatusTeapot)

	if w.Status() != http.StatusTeapot {
		t.Errorf("Status() = %d, want %d", w.Status(), http.StatusTeapot)
	}
	if !w.Written() {
		t.Error("Written() = false after WriteHeader")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("recorded code = %d, want %d", rec.Code, http.StatusTeapot)
	}

	// Second call is a no-op.
	w.WriteHeader(http.StatusOK)
	if w.Status() != http.StatusTeapot {
		t.Errorf("Status() = %d after second WriteHeader, want %d", w.Status(), http.StatusTeapot)
	}
}

func TestResponseWriter_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewResponseWriter(rec)

	n, err := w.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Write() = %d, want 5", n)
	}
	if w.Status() != http.StatusOK {
		t.Errorf("Status() = %d, want implicit 200", w.Status())
	}
	if w.Size() != 5 {
		t.Errorf("Size() = %d, want 5", w.Size())
	}
}

func TestResponseWriter_OnBeforeWrite(t *testing.T) {
	t.Run("hooks run once before first write", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)

		var order []string
		w.OnBeforeWrite(func() {
			order = append(order, "first")
			w.Header().Set("X-Hook", "ran")
		})
		w.OnBeforeWrite(func() { order = append(order, "second") })

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("body"))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("hooks ran %v, want [first second]", order)
		}
		if rec.Header().Get("X-Hook") != "ran" {
			t.Error("header set by hook did not reach the response")
		}
	})

	t.Run("Finish runs hooks for silent handlers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)

		ran := false
		w.OnBeforeWrite(func() { ran = true })

		w.Finish()
		if !ran {
			t.Error("Finish() did not run pending hooks")
		}

		// Finish is idempotent and does not re-run consumed hooks.
		ran = false
		w.Finish()
		if ran {
			t.Error("Finish() re-ran hooks")
		}
	})
}
