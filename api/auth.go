package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aseka33/nyumba-ai-marketplace/utils"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	userEmailKey contextKey = "user_email"
)

// WithAuth reads a Bearer token when present and stashes the caller's
// identity in the request context. Requests without a token proceed
// anonymously; user management itself is handled by the auth service.
func WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			next(w, r)
			return
		}

		token, err := utils.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, email, err := utils.ClaimsFromToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userEmailKey, email)
		next(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext returns the authenticated user's id, or an error for
// anonymous requests.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("user_id not found in context")
}

// GetUserEmailFromContext returns the authenticated user's email, or "".
func GetUserEmailFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userEmailKey).(string); ok {
		return v
	}
	return ""
}
