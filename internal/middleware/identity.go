package middleware

import (
	"context"
	"net/http"
)

type userClaimsKey string

const UserClaimsKey userClaimsKey = "userId"

// WithCallerIdentity lifts the identity the authenticating layer forwarded
// into the request context. Authentication itself happens upstream; requests
// that arrive here without an identity are rejected outright.
func WithCallerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			http.Error(w, "identity required", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserClaimsKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
