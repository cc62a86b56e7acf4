package httputil

import (
	"errors"
	"net/http"

	"github.com/tendant/simple-ats/pkg/domain"
	"go.uber.org/zap"
)

// WriteError maps a service error to a response. Storage failures are logged
// with their cause and reported to the client as a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		JSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: validation.Fields})
	case errors.As(err, &conflict):
		JSON(w, http.StatusConflict, ErrorResponse{
			Error:  conflict.Error(),
			Fields: map[string]string{conflict.Field: "already taken"},
		})
	case errors.Is(err, ErrBodyTooLarge):
		Error(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, domain.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid tenant, email or password")
	case errors.Is(err, domain.ErrTemporaryCredentialConsumed):
		Error(w, http.StatusUnauthorized, "temporary password has already been used; ask your administrator for a new one")
	case errors.Is(err, domain.ErrTenantInactive):
		Error(w, http.StatusUnauthorized, "tenant is inactive")
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionRevoked),
		errors.Is(err, domain.ErrInvalidToken):
		Error(w, http.StatusUnauthorized, "invalid or expired session")
	case errors.Is(err, domain.ErrAccountLocked):
		Error(w, http.StatusForbidden, "account temporarily locked due to too many failed login attempts. Please try again in 15 minutes.")
	case errors.Is(err, domain.ErrPasswordChangeRequired):
		Error(w, http.StatusForbidden, "password change required")
	case errors.Is(err, domain.ErrForbidden):
		Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrTenantNotFound):
		Error(w, http.StatusNotFound, "tenant not found")
	case errors.Is(err, domain.ErrUserNotFound):
		Error(w, http.StatusNotFound, "user not found")
	default:
		requestID := RequestIDFromContext(r.Context())
		if logger != nil {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("path", r.URL.Path),
				zap.String("request_id", requestID),
			)
		}
		JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error", RequestID: requestID})
	}
}
