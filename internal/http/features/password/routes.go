package password

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers password authentication routes. limit is applied
// to login; requireSession guards the password change.
func (h *Handler) RegisterRoutes(r chi.Router, limit, requireSession func(http.Handler) http.Handler) {
	r.With(limit).Post("/v1/auth/login", h.Login)
	r.With(requireSession, limit).Post("/v1/auth/password/change", h.ChangePassword)
}
