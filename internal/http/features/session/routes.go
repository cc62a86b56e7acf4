package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes.
func (h *Handler) RegisterRoutes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Post("/v1/auth/logout", h.Logout)
	r.With(requireSession).Post("/v1/auth/logout/all", h.LogoutAll)
}
