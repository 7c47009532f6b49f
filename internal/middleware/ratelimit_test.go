// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKeyByClient(t *testing.T) {
	t.Run("uses the soft client identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), ClientIDKey, "visitor-abc")
		req = req.WithContext(ctx)

		if got := KeyByClient(req); got != "ratelimit:client:visitor-abc" {
			t.Errorf("KeyByClient() = %q, want ratelimit:client:visitor-abc", got)
		}
	})

	t.Run("falls back to IP without an identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:51234"

		if got := KeyByClient(req); got != "ratelimit:ip:203.0.113.7" {
			t.Errorf("KeyByClient() = %q, want ratelimit:ip:203.0.113.7", got)
		}
	})

	t.Run("shared address distinct visitors get distinct buckets", func(t *testing.T) {
		keys := make(map[string]struct{})
		for _, id := range []string{"visitor-a", "visitor-b"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.7:51234"
			req = req.WithContext(context.WithValue(req.Context(), ClientIDKey, id))
			keys[KeyByClient(req)] = struct{}{}
		}

		if len(keys) != 2 {
			t.Errorf("got %d distinct buckets, want 2", len(keys))
		}
	})
}
