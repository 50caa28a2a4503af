package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the validator.
type JWTClaims struct {
	Subject string
	Role    string
}

type contextKeyActorID struct{}
type contextKeyActorRole struct{}

var (
	ContextKeyActorID   = contextKeyActorID{}
	ContextKeyActorRole = contextKeyActorRole{}
)

// GetActorID retrieves the authenticated actor from the context.
func GetActorID(ctx context.Context) string {
	actorID, ok := ctx.Value(ContextKeyActorID).(string)
	if !ok {
		return ""
	}
	return actorID
}

// GetActorRole retrieves the authenticated actor's role from the context.
func GetActorRole(ctx context.Context) string {
	role, ok := ctx.Value(ContextKeyActorRole).(string)
	if !ok {
		return ""
	}
	return role
}

// RequireAuth rejects requests without a valid bearer token and stores the
// actor identity in the request context for handlers.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, ContextKeyActorID, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyActorRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
