// Package api implements the Café Fausse REST API using chi.
package api

import (
	"net/http"
	"strings"
)

// TokenValidator checks that a session token authorizes admin access.
type TokenValidator interface {
	ValidateToken(token string) error
}

// RequireSession returns middleware that validates a Bearer session token
// against the server-side session store. Requests without a live session get
// a 401 and never reach the handler.
func RequireSession(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			token := strings.TrimPrefix(auth, "Bearer ")
			if err := v.ValidateToken(token); err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header, if any.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
