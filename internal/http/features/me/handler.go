package me

import (
	"net/http"

	"github.com/tendant/simple-ats/internal/http/features/common"
	"github.com/tendant/simple-ats/internal/http/middleware"
	"github.com/tendant/simple-ats/internal/httputil"
	"github.com/tendant/simple-ats/pkg/auth"
	"github.com/tendant/simple-ats/pkg/authz"
	"github.com/tendant/simple-ats/pkg/domain"
	"github.com/tendant/simple-ats/pkg/provisioning"
	"go.uber.org/zap"
)

// Handler handles the current user's profile and permissions.
type Handler struct {
	logger          *zap.Logger
	passwordService *auth.PasswordService
	tenants         *provisioning.Service
	enforcer        *authz.Enforcer
}

// NewHandler creates a new me handler.
func NewHandler(
	logger *zap.Logger,
	passwordService *auth.PasswordService,
	tenants *provisioning.Service,
	enforcer *authz.Enforcer,
) *Handler {
	return &Handler{
		logger:          logger,
		passwordService: passwordService,
		tenants:         tenants,
		enforcer:        enforcer,
	}
}

// MeResponse represents the current user's profile.
type MeResponse struct {
	User                   *common.UserResponse   `json:"user"`
	Company                common.CompanyResponse `json:"company"`
	PasswordChangeRequired bool                   `json:"passwordChangeRequired"`
	PasswordRequirements   string                 `json:"passwordRequirements,omitempty"`
}

// PolicyResponse is the role policy table the UI renders.
type PolicyResponse struct {
	Roles       []string                       `json:"roles"`
	Resources   []string                       `json:"resources"`
	Actions     []string                       `json:"actions"`
	Permissions map[string]map[string][]string `json:"permissions"`
	Inherits    map[string][]string            `json:"inherits"`
}

// GetMe returns the current user's profile.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	claims, _ := middleware.GetClaims(r.Context())
	if !ok || claims == nil {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.passwordService.GetUserByID(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	tenant, err := h.tenants.Get(r.Context(), user.TenantID)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	var requirements string
	if claims.PasswordChangeRequired {
		requirements = h.passwordService.Requirements()
	}

	httputil.JSON(w, http.StatusOK, MeResponse{
		User:                   common.User(user),
		Company:                common.Company(tenant),
		PasswordChangeRequired: claims.PasswordChangeRequired,
		PasswordRequirements:   requirements,
	})
}

// Policy returns the effective permissions of every role.
// GET /v1/policy
func (h *Handler) Policy(w http.ResponseWriter, r *http.Request) {
	table, err := h.enforcer.Table()
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	resp := PolicyResponse{
		Resources:   authz.Resources,
		Actions:     authz.Actions,
		Permissions: make(map[string]map[string][]string, len(table.Effective)),
		Inherits:    make(map[string][]string),
	}
	for role, perms := range table.Effective {
		resp.Permissions[string(role)] = perms
	}
	for _, role := range domain.Roles {
		resp.Roles = append(resp.Roles, string(role))
	}
	for _, inh := range table.Inheritance {
		resp.Inherits[string(inh.Role)] = append(resp.Inherits[string(inh.Role)], string(inh.Inherits))
	}

	httputil.JSON(w, http.StatusOK, resp)
}
