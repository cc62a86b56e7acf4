package tenants

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-ats/pkg/authz"
)

// RegisterRoutes registers tenant administration routes. authorize wraps a
// handler with the policy check for one action on the tenants resource.
func (h *Handler) RegisterRoutes(r chi.Router, authorize func(action string) func(http.Handler) http.Handler) {
	r.With(authorize(authz.ActionCreate)).Post("/v1/admin/tenants", h.Create)
	r.With(authorize(authz.ActionRead)).Get("/v1/admin/tenants", h.List)
	r.With(authorize(authz.ActionRead)).Get("/v1/admin/tenants/{id}", h.Get)
	r.With(authorize(authz.ActionUpdate)).Patch("/v1/admin/tenants/{id}", h.Update)
}
