package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-ats/internal/config"
	"github.com/tendant/simple-ats/internal/guard"
	"github.com/tendant/simple-ats/internal/http/features/me"
	"github.com/tendant/simple-ats/internal/http/features/pages"
	"github.com/tendant/simple-ats/internal/http/features/password"
	"github.com/tendant/simple-ats/internal/http/features/session"
	"github.com/tendant/simple-ats/internal/http/features/tenants"
	"github.com/tendant/simple-ats/internal/http/middleware"
	"github.com/tendant/simple-ats/internal/httputil"
	"github.com/tendant/simple-ats/internal/metrics"
	"github.com/tendant/simple-ats/internal/teardown"
	"github.com/tendant/simple-ats/pkg/auth"
	"github.com/tendant/simple-ats/pkg/authz"
	"github.com/tendant/simple-ats/pkg/provisioning"
	"go.uber.org/zap"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger              *zap.Logger
	Metrics             *metrics.Metrics
	PasswordService     *auth.PasswordService
	SessionService      *auth.SessionService
	ProvisioningService *provisioning.Service
	Enforcer            *authz.Enforcer
	Session             config.SessionConfig
	Guard               config.GuardConfig
	RateLimitConfig     config.RateLimitConfig
	SecurityHeaders     config.SecurityHeadersConfig
	CORS                config.CORSConfig
	MaxBodyBytes        int64
	ServeUI             bool
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger, cfg.Metrics))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestSizeLimit(cfg.MaxBodyBytes))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	cookies := httputil.NewCookieConfig(cfg.Session)
	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, logger)
	requireSession := middleware.Auth(cfg.SessionService, cookies.Name)

	routine := teardown.New(logger, cfg.Metrics,
		&teardown.ServerSession{Sessions: cfg.SessionService, CookieName: cookies.Name},
		&teardown.CookieJar{
			Names:  []string{cookies.Name, "user"},
			Domain: cookies.Domain,
			Secure: cookies.Secure,
		},
		teardown.ClientStorage{},
	)

	// Password authentication
	passwordHandler := password.NewHandler(logger, cfg.PasswordService, cfg.SessionService, cfg.Metrics, cookies)
	passwordHandler.RegisterRoutes(r, rateLimiters[middleware.LimitAuth], requireSession)

	// Sessions
	sessionHandler := session.NewHandler(logger, cfg.SessionService, routine)
	sessionHandler.RegisterRoutes(r, requireSession)

	// Profile and policy
	meHandler := me.NewHandler(logger, cfg.PasswordService, cfg.ProvisioningService, cfg.Enforcer)
	meHandler.RegisterRoutes(r, requireSession, middleware.RequirePasswordChanged, rateLimiters[middleware.LimitProfile])

	// Tenant administration
	tenantsHandler := tenants.NewHandler(logger, cfg.ProvisioningService)
	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Use(middleware.RequirePasswordChanged)
		r.Use(rateLimiters[middleware.LimitAdmin])
		tenantsHandler.RegisterRoutes(r, func(action string) func(http.Handler) http.Handler {
			return middleware.Authorize(cfg.Enforcer, authz.ResourceTenants, action, logger)
		})
	})

	// Browser pages behind the navigation guard
	if cfg.ServeUI {
		if cfg.Guard.LoginPath == "" {
			cfg.Guard.LoginPath = "/login"
		}
		if cfg.Guard.HomePath == "" {
			cfg.Guard.HomePath = "/dashboard"
		}
		pagesHandler, err := pages.NewHandler(logger, routine, cfg.Guard.LoginPath, cfg.Guard.HomePath)
		if err != nil {
			return nil, err
		}
		g := guard.New(guard.Config{
			CookieName:     cookies.Name,
			LoginPath:      cfg.Guard.LoginPath,
			HomePath:       cfg.Guard.HomePath,
			PublicPaths:    append(append([]string(nil), cfg.Guard.PublicPaths...), "/logout"),
			BypassPrefixes: []string{"/v1/", "/assets/"},
		}, logger, cfg.Metrics)
		pagesHandler.RegisterRoutes(r, g.Middleware)
	}

	return r, nil
}
