package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusRecorderCapturesExplicitStatus(t *testing.T) {
	t.Parallel()

	handler := Logging(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, ok := w.(*statusRecorder)
		if !ok {
			t.Fatalf("expected the wrapped writer, got %T", w)
		}
		w.WriteHeader(http.StatusTeapot)
		if rec.status != http.StatusTeapot {
			t.Fatalf("expected status %d recorded, got %d", http.StatusTeapot, rec.status)
		}
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
	if res.Code != http.StatusTeapot {
		t.Fatalf("expected %d passed through, got %d", http.StatusTeapot, res.Code)
	}
}

func TestStatusRecorderDefaultsImplicitWrites(t *testing.T) {
	t.Parallel()

	handler := Logging(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", res.Code)
	}
}
