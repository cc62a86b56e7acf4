package password

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tendant/simple-ats/internal/http/middleware"
	"github.com/tendant/simple-ats/internal/httputil"
	"github.com/tendant/simple-ats/internal/metrics"
	"github.com/tendant/simple-ats/pkg/auth"
	"github.com/tendant/simple-ats/pkg/domain"
	"go.uber.org/zap"
)

// Login results recorded in metrics.
const (
	resultSuccess  = "success"
	resultInvalid  = "invalid"
	resultLocked   = "locked"
	resultConsumed = "temporary_consumed"
	resultInactive = "tenant_inactive"
	resultError    = "error"
)

// Handler handles password authentication endpoints.
type Handler struct {
	logger          *zap.Logger
	passwordService *auth.PasswordService
	sessionService  *auth.SessionService
	metrics         *metrics.Metrics
	cookieConfig    httputil.CookieConfig
}

// NewHandler creates a new password handler.
func NewHandler(
	logger *zap.Logger,
	passwordService *auth.PasswordService,
	sessionService *auth.SessionService,
	m *metrics.Metrics,
	cookieConfig httputil.CookieConfig,
) *Handler {
	return &Handler{
		logger:          logger,
		passwordService: passwordService,
		sessionService:  sessionService,
		metrics:         m,
		cookieConfig:    cookieConfig,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	TenantID string `json:"tenantId"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// SessionResponse is returned after a session is issued. Web clients get the
// token only as a cookie; mobile clients (X-Client-Type: mobile) get it here.
type SessionResponse struct {
	Token                  string `json:"token,omitempty"`
	PasswordChangeRequired bool   `json:"passwordChangeRequired"`
	ExpiresIn              int    `json:"expiresIn"`
}

// Login authenticates with tenant, email and password.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.WriteError(w, r, h.logger, err)
			return
		}
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	missing := &domain.ValidationError{}
	if strings.TrimSpace(req.TenantID) == "" {
		missing.Add("tenantId", "is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing.Add("email", "is required")
	}
	if req.Password == "" {
		missing.Add("password", "is required")
	}
	if missing.HasErrors() {
		httputil.WriteError(w, r, h.logger, missing)
		return
	}

	result, err := h.passwordService.Authenticate(r.Context(), req.TenantID, req.Email, req.Password)
	if err != nil {
		h.metrics.Login(loginResult(err))
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	issued, err := h.sessionService.IssueSession(r.Context(), result.User, auth.IssueSessionOpts{
		IP:                     r.RemoteAddr,
		UserAgent:              r.UserAgent(),
		PasswordChangeRequired: result.PasswordChangeRequired,
	})
	if err != nil {
		h.metrics.Login(resultError)
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.metrics.Login(resultSuccess)
	h.logger.Info("user logged in",
		zap.String("user_id", result.User.ID.String()),
		zap.String("tenant_id", result.User.TenantID.String()),
		zap.Bool("password_change_required", result.PasswordChangeRequired),
	)
	h.writeSession(w, r, issued)
}

// ChangePassword replaces the current user's password, revokes every
// session the user holds and issues a fresh one.
// POST /v1/auth/password/change
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.WriteError(w, r, h.logger, err)
			return
		}
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	missing := &domain.ValidationError{}
	if req.CurrentPassword == "" {
		missing.Add("currentPassword", "is required")
	}
	if req.NewPassword == "" {
		missing.Add("newPassword", "is required")
	}
	if missing.HasErrors() {
		httputil.WriteError(w, r, h.logger, missing)
		return
	}

	if err := h.passwordService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.sessionService.RevokeAllSessions(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.passwordService.GetUserByID(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	issued, err := h.sessionService.IssueSession(r.Context(), user, auth.IssueSessionOpts{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("password changed", zap.String("user_id", userID.String()))
	h.writeSession(w, r, issued)
}

// writeSession sets the session cookie (web) or returns the token (mobile).
func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, issued *domain.IssuedSession) {
	resp := SessionResponse{
		PasswordChangeRequired: issued.PasswordChangeRequired,
		ExpiresIn:              issued.ExpiresIn,
	}
	if httputil.IsMobileClient(r) {
		resp.Token = issued.Token
	} else {
		httputil.SetSessionCookie(w, issued.Token, h.sessionService.TTL(), h.cookieConfig)
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.JSON(w, http.StatusOK, resp)
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resultInvalid
	case errors.Is(err, domain.ErrAccountLocked):
		return resultLocked
	case errors.Is(err, domain.ErrTemporaryCredentialConsumed):
		return resultConsumed
	case errors.Is(err, domain.ErrTenantInactive):
		return resultInactive
	default:
		return resultError
	}
}
