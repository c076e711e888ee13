package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sanoh-inlab/labelgo/internal/utils"
)

type contextKey string

const SessionContextKey contextKey = "session"

// AuthMiddleware verifies the Bearer session token (or the token query
// parameter) and stores the session in the request context
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" && r.URL.Query().Get("token") != "" {
				// Browsers cannot set headers on websocket upgrades
				authHeader = "Bearer " + r.URL.Query().Get("token")
			}
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, utils.SessionFromClaims(claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by AuthMiddleware
func SessionFromContext(ctx context.Context) (utils.Session, bool) {
	s, ok := ctx.Value(SessionContextKey).(utils.Session)
	return s, ok
}
