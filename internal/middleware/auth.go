// Package middleware provides the net/http middleware chain for the
// GraphQL endpoint: session context building, request logging and metrics.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/veikkola/phonebook/internal/auth"
	"github.com/veikkola/phonebook/internal/models"
	"github.com/veikkola/phonebook/internal/storage"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// currentUserKey is the context key holding the authenticated user.
const currentUserKey contextKey = "current_user"

// bearerPrefix is the scheme existing clients send. The match is
// case-sensitive and lowercase; anything else means no credentials.
const bearerPrefix = "bearer "

// CurrentUser extracts the authenticated user from the context.
// Returns nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(currentUserKey).(*models.User)
	return user
}

// WithCurrentUser returns a context carrying the given user. Used by the
// auth middleware and by tests that exercise resolvers directly.
func WithCurrentUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// SessionContext returns middleware that builds the per-request auth
// context. A valid bearer token resolves to the user record with friends
// expanded; a missing header, a non-matching scheme, or an invalid token
// all degrade to an anonymous request. Authorization requirements are
// enforced later, per operation, by the resolver layer.
func SessionContext(jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := header[len(bearerPrefix):]
			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				logger.Warn("Rejected session token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := store.GetUserByID(r.Context(), claims.UserID, true)
			if err != nil {
				logger.Warn("Token user not found", "user_id", claims.UserID, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithCurrentUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
