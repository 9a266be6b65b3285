// Package middleware provides HTTP middleware for the LogStack API.
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/logstackhq/logstack/internal/api/auth"
	"github.com/logstackhq/logstack/internal/models"
)

// Context keys for storing user information.
type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// jsonUnauthorized writes an unauthorized error response.
func jsonUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": "invalid or expired token",
		},
	})
}

// JWTAuth returns middleware that validates JWT bearer tokens and puts
// the authenticated user's identity on the request context.
func JWTAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				jsonUnauthorized(w)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				jsonUnauthorized(w)
				return
			}

			claims, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				log.Printf("jwt auth failed for %s: %v", r.RemoteAddr, err)
				jsonUnauthorized(w)
				return
			}

			ctx := WithUserContext(r.Context(), claims.UserID, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUserContext puts an authenticated identity on the context.
func WithUserContext(ctx context.Context, userID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return ctx
}

// GetUserID returns the authenticated user's ID from the context, or ""
// when the request is unauthenticated.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// GetRole returns the authenticated user's role from the context.
func GetRole(ctx context.Context) models.Role {
	role, _ := ctx.Value(roleKey).(models.Role)
	return role
}
