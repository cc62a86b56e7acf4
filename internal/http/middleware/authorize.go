package middleware

import (
	"net/http"

	"github.com/tendant/simple-ats/internal/httputil"
	"github.com/tendant/simple-ats/pkg/domain"
	"go.uber.org/zap"
)

// PolicyChecker answers whether a role may perform an action on a resource.
type PolicyChecker interface {
	Allowed(role domain.Role, resource, action string) (bool, error)
}

// Authorize creates middleware that enforces the role policy for one
// resource and action. Must run after Auth.
func Authorize(policy PolicyChecker, resource, action string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			allowed, err := policy.Allowed(claims.Role, resource, action)
			if err != nil {
				httputil.WriteError(w, r, logger, err)
				return
			}
			if !allowed {
				if logger != nil {
					logger.Warn("access denied",
						zap.String("role", string(claims.Role)),
						zap.String("resource", resource),
						zap.String("action", action),
						zap.String("path", r.URL.Path),
					)
				}
				httputil.WriteError(w, r, logger, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
