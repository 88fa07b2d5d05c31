package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"sociopedia/internal/httputil"
	"sociopedia/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
	claimsKey contextKey = "claims"
)

// TokenVerifier turns a credential into the claims it proves.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.Claims, error)
}

// AuthMiddleware requires an "Authorization: Bearer <token>" header.
// A missing credential is 401; one that fails verification is 403.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				httputil.WriteUnauthorized(w, "Missing authentication token")
				return
			}

			claims, err := verifier.Verify(r.Context(), tokenString)
			if err != nil {
				switch {
				case errors.Is(err, model.ErrTokenExpired):
					httputil.WriteForbiddenWithCode(w, model.CodeTokenExpired, "Access token has expired")
				case errors.Is(err, model.ErrTokenRevoked):
					httputil.WriteForbiddenWithCode(w, model.CodeTokenRevoked, "Access token has been revoked")
				case errors.Is(err, model.ErrTokenInvalid):
					httputil.WriteForbiddenWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
				default:
					log.Printf("[AuthMiddleware] Verify failed: %v", err)
					httputil.WriteInternalError(w, "Failed to verify token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential. A bare token without the "Bearer"
// scheme is accepted too.
func bearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return ""
}

// GetUserIDFromContext extracts the user ID from the request context
// Returns the user ID and true if found, or "" and false if not found
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetClaimsFromContext returns the verified claims for the request.
func GetClaimsFromContext(ctx context.Context) (*model.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*model.Claims)
	return claims, ok
}
