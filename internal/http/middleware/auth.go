package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/simple-ats/internal/httputil"
	"github.com/tendant/simple-ats/internal/teardown"
	"github.com/tendant/simple-ats/pkg/auth"
	"github.com/tendant/simple-ats/pkg/domain"
)

type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// ClaimsKey is the context key for the session claims.
	ClaimsKey contextKey = "claims"
	// TenantIDKey is the context key for the tenant ID.
	TenantIDKey contextKey = "tenant_id"
)

// TokenValidator validates a session token against the session store.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.SessionClaims, error)
}

// Auth creates middleware that validates the session token.
// Checks the Authorization header first, then falls back to the session cookie.
func Auth(sessions TokenValidator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := teardown.RequestToken(r, cookieName)
			if token == "" {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			claims, err := sessions.ValidateToken(r.Context(), token)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			tenantID, err := uuid.Parse(claims.TenantID)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid tenant in token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, TenantIDKey, tenantID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePasswordChanged rejects sessions opened with a temporary password
// until the user has chosen a new one. Must run after Auth.
func RequirePasswordChanged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			httputil.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if claims.PasswordChangeRequired {
			httputil.WriteError(w, r, nil, domain.ErrPasswordChangeRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID extracts the user ID from the request context.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetClaims extracts the session claims from the request context.
func GetClaims(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.SessionClaims)
	return claims, ok
}

// GetTenantID extracts the tenant ID from the request context.
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}
