package tenants

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-ats/internal/http/features/common"
	"github.com/tendant/simple-ats/internal/httputil"
	"github.com/tendant/simple-ats/pkg/domain"
	"github.com/tendant/simple-ats/pkg/provisioning"
	"go.uber.org/zap"
)

// Handler handles tenant administration endpoints.
type Handler struct {
	logger       *zap.Logger
	provisioning *provisioning.Service
}

// NewHandler creates a new tenants handler.
func NewHandler(logger *zap.Logger, svc *provisioning.Service) *Handler {
	return &Handler{logger: logger, provisioning: svc}
}

// CreationResponse is the reply to a successful provisioning. It is the only
// place the temporary password ever appears.
type CreationResponse struct {
	Company           common.CompanyResponse `json:"company"`
	AdminUser         *common.UserResponse   `json:"adminUser,omitempty"`
	TemporaryPassword string                 `json:"temporaryPassword,omitempty"`
	AdminCreated      bool                   `json:"adminCreated"`
}

// ListResponse is a page of tenants.
type ListResponse struct {
	Companies []common.CompanyResponse `json:"companies"`
	Total     int                      `json:"total"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

// UpdateRequest changes a tenant's status. The tenant identifier is immutable.
type UpdateRequest struct {
	Active *bool `json:"active"`
}

// Create provisions a tenant and, optionally, its bootstrap admin.
// POST /v1/admin/tenants
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req provisioning.Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.decodeError(w, r, err)
		return
	}

	result, err := h.provisioning.Provision(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	httputil.JSON(w, http.StatusCreated, CreationResponse{
		Company:           common.Company(result.Tenant),
		AdminUser:         common.User(result.AdminUser),
		TemporaryPassword: result.TemporaryPassword,
		AdminCreated:      result.AdminCreated,
	})
}

// List returns a page of tenants.
// GET /v1/admin/tenants?limit=&offset=&q=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, domain.NewValidationError("limit", "must be a number"))
		return
	}
	offset, err := optionalInt(q.Get("offset"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, domain.NewValidationError("offset", "must be a number"))
		return
	}

	page, err := h.provisioning.List(r.Context(), provisioning.ListOptions{
		Limit:  limit,
		Offset: offset,
		Query:  q.Get("q"),
	})
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	companies := make([]common.CompanyResponse, 0, len(page.Tenants))
	for _, t := range page.Tenants {
		companies = append(companies, common.Company(t))
	}
	httputil.JSON(w, http.StatusOK, ListResponse{
		Companies: companies,
		Total:     page.Total,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
}

// Get returns one tenant.
// GET /v1/admin/tenants/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	tenant, err := h.provisioning.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, common.Company(tenant))
}

// Update activates or deactivates a tenant.
// PATCH /v1/admin/tenants/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.decodeError(w, r, err)
		return
	}
	if req.Active == nil {
		httputil.WriteError(w, r, h.logger, domain.NewValidationError("active", "is required"))
		return
	}

	tenant, err := h.provisioning.SetActive(r.Context(), id, *req.Active)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, common.Company(tenant))
}

func (h *Handler) tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, domain.ErrTenantNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, httputil.ErrBodyTooLarge) {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.Error(w, http.StatusBadRequest, "invalid request body")
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
