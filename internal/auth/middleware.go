package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// AuthContextKey is the key for storing AuthContext in request context
	AuthContextKey ContextKey = "authContext"
)

// Middleware creates an HTTP middleware that extracts and injects the
// authentication context. It parses the Authorization header, resolves
// the user from the database, and attaches the user to the request.
//
// If any step fails (missing token, invalid token, user not found) the
// request proceeds without auth context; handlers that need a user check
// for it via GetAuthContext or use RequireAuth.
func Middleware(service *Service, tokenExtractor *TokenExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokenExtractor.ExtractUserIDFromHeader(authHeader)
			if err != nil {
				slog.Warn("failed to extract user ID from token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := service.GetUser(r.Context(), userID)
			if err != nil {
				slog.Warn("failed to resolve user for token", "user_id", userID, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), AuthContextKey, &AuthContext{User: user})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuthContext extracts the AuthContext from a request context.
// Returns nil if no auth context is available.
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, ok := ctx.Value(AuthContextKey).(*AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}

// ActorID returns the authenticated user's ID, or nil for anonymous
// requests. Services record it in the audit log.
func ActorID(ctx context.Context) *uuid.UUID {
	authCtx := GetAuthContext(ctx)
	if authCtx == nil || authCtx.User == nil {
		return nil
	}
	id := authCtx.User.ID
	return &id
}

// RequireAuth rejects requests that carry no authenticated user with
// 401 Unauthorized. It wraps individual routes behind the
// context-injecting Middleware.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAuthContext(r.Context()) == nil {
			slog.Warn("authentication required but not provided",
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"authentication required"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
