package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dkempf/fintrack/internal/token"
	"github.com/gorilla/mux"
)

// Context key type to avoid collisions.
type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext retrieves the authenticated claims attached by
// Authenticate. The claims live only for the current request.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}

// Authenticate verifies the bearer token and attaches its claims to the
// request context. Requests without a valid token never reach the
// downstream handler.
func Authenticate(tokens *token.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "authorization header required")
				return
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				writeError(w, http.StatusUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				// Expired vs invalid differs in detail only, never in status.
				if errors.Is(err, token.ErrExpired) {
					writeError(w, http.StatusUnauthorized, "token expired")
				} else {
					writeError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates admin-only routes. It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.Admin {
			writeError(w, http.StatusForbidden, "admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
