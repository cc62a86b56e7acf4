package middleware

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/tendant/simple-ats/internal/config"
)

// CORS allows the configured dashboard origins to call the API with the
// session cookie. With no origins configured it is a no-op, so same-origin
// deployments need no setup.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, "X-Teardown-Complete"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler
}
