// AngelaMos | 2026
// clientid.go

package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"time"
)

const ClientIDKey contextKey = "client_id"

const (
	clientIDCookie = "rently_cid"
	clientIDTTL    = 365 * 24 * time.Hour
)

// ClientIdentity attaches a stable pseudo-identifier for the anonymous
// visitor to the request context. First choice is a long-lived cookie;
// cookieless clients get a deterministic fingerprint of address and
// user agent so repeat visits still map to the same identifier. This is
// a soft identity for gating, not a security boundary.
func ClientIdentity(isProduction bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := clientIDFromCookie(r)
			if id == "" {
				id = fingerprint(r)
				http.SetCookie(w, &http.Cookie{
					Name:     clientIDCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(clientIDTTL.Seconds()),
					HttpOnly: true,
					Secure:   isProduction,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ClientIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClientID(ctx context.Context) string {
	if id, ok := ctx.Value(ClientIDKey).(string); ok {
		return id
	}
	return ""
}

func clientIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(clientIDCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

func fingerprint(r *http.Request) string {
	sum := sha256.Sum256([]byte(clientIP(r) + "|" + r.UserAgent()))
	return hex.EncodeToString(sum[:16])
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[len(parts)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}
