package me

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers profile routes. requireSession is applied to all
// of them; the profile stays readable while a password change is pending so
// the UI can prompt for it.
func (h *Handler) RegisterRoutes(r chi.Router, requireSession, requireChanged, limit func(http.Handler) http.Handler) {
	r.With(requireSession, limit).Get("/v1/me", h.GetMe)
	r.With(requireSession, requireChanged, limit).Get("/v1/policy", h.Policy)
}
