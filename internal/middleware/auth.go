package middleware

import (
	"encoding/json"
	"net/http"
)

const apiKeyHeader = "X-Api-Key"

// APIKeyAuth validates the dashboard's API key header. With no keys
// configured the middleware is a no-op, which keeps local development
// friction-free.
func APIKeyAuth(keys []string) func(next http.Handler) http.Handler {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(keySet) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(apiKeyHeader)
			if key == "" {
				writeAuthError(w, http.StatusUnauthorized, "API key required")
				return
			}
			if _, ok := keySet[key]; !ok {
				writeAuthError(w, http.StatusForbidden, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
