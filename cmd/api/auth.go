package main

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireAPIKey validates the Bearer token in the Authorization header
// before allowing a request through to the handler. Only the bulk
// upload endpoints are protected; the validation API itself is public.
func requireAPIKey(expectedKey string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// No key configured: the protected surface stays locked. 500
		// rather than 401 signals server misconfiguration, not a bad
		// token.
		if expectedKey == "" {
			writeError(w, http.StatusInternalServerError, "Server configuration error", "API key not configured")
			return
		}

		authHeader := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)

		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing API key")
			return
		}

		next(w, r)
	}
}
