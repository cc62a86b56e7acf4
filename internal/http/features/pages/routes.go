package pages

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers page routes. guard runs before every page.
func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Handle("/assets/*", h.Assets())
	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Get(h.loginPath, h.Login)
		r.Get("/register", h.Register)
		r.Get(h.homePath, h.Dashboard)
		r.Get("/logout", h.Logout)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, h.homePath, http.StatusFound)
		})
	})
}
