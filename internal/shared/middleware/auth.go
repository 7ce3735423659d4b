package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ContextKey string

const (
	UserIDKey ContextKey = "user_id"
	EmailKey  ContextKey = "email"
	TokenKey  ContextKey = "access_token"
)

// TokenResolver maps a bearer token to the principal it was issued for.
// Implementations must reject revoked and expired tokens.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (userID, email string, err error)
}

// TokenResolverFunc adapts a function to TokenResolver.
type TokenResolverFunc func(ctx context.Context, token string) (string, string, error)

func (f TokenResolverFunc) ResolveToken(ctx context.Context, token string) (string, string, error) {
	return f(ctx, token)
}

func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, "No token provided")
				return
			}

			userID, email, err := resolver.ResolveToken(r.Context(), token)
			if err != nil || userID == "" {
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, EmailKey, email)
			ctx = context.WithValue(ctx, TokenKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken reads the Authorization header first (API clients) and falls
// back to the access_token cookie (browser requests).
func BearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

// writeError emits the same {success,error} envelope the API handlers use.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
