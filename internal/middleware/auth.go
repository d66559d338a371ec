package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	applog "pantry/internal/log"
)

// AccessKeyHeader carries the shared key guarding the API.
const AccessKeyHeader = "X-Pantry-Access-Key"

// AccessKey rejects requests whose AccessKeyHeader is missing (401) or does
// not match key (403). An empty key disables the check.
func AccessKey(key string) func(next http.Handler) http.Handler {
	key = strings.TrimSpace(key)
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := strings.TrimSpace(r.Header.Get(AccessKeyHeader))
			if provided == "" {
				writeError(w, http.StatusUnauthorized, "access key required")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				applog.Warn(r.Context(), "rejected access key", "path", r.URL.Path, "remote", r.RemoteAddr)
				writeError(w, http.StatusForbidden, "invalid access key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}
