package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"net/http"
	"strings"
)

// APIKeyHeader carries the key for guarded endpoints. A bearer token in
// Authorization is accepted as well.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware rejects requests without the configured key. An empty
// key disables the check.
func APIKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secureEqual(requestKey(r), key) {
				RecordConnectionRejected("auth")
				writeError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestKey(r *http.Request) string {
	if k := r.Header.Get(APIKeyHeader); k != "" {
		return k
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// secureEqual compares in constant time. Hashing first hides the length of
// the expected value.
func secureEqual(got, want string) bool {
	g := sha256.Sum256([]byte(got))
	w := sha256.Sum256([]byte(want))
	return hmac.Equal(g[:], w[:])
}
