// Package ats embeds the applicant tracking platform's tenant provisioning
// and session handling in another Go service.
//
// Setup:
//
//  1. Apply the schema: `simple-ats migrate up` (or repository.MigrateUp)
//  2. Create an ATS instance and mount its handler
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/ats?sslmode=disable")
//
//	platform, err := ats.New(ats.Config{
//	    DB:        db,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	h, err := platform.Handler()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", h)
package ats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-ats/internal/config"
	httpserver "github.com/tendant/simple-ats/internal/http"
	"github.com/tendant/simple-ats/internal/http/middleware"
	"github.com/tendant/simple-ats/internal/metrics"
	"github.com/tendant/simple-ats/pkg/auth"
	"github.com/tendant/simple-ats/pkg/authz"
	"github.com/tendant/simple-ats/pkg/provisioning"
	"github.com/tendant/simple-ats/pkg/repository"
	"go.uber.org/zap"
)

// Config holds the configuration for an embedded ATS.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret signs session tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the issuer claim in session tokens (default: "simple-ats").
	JWTIssuer string

	// SessionTTL is how long a session lasts (default: 8h).
	SessionTTL time.Duration

	// CookieName names the session cookie (default: "token").
	CookieName string

	// CookieSecure sets the Secure flag on cookies. Enable in production.
	CookieSecure bool

	// CookieDomain is an extra domain the teardown routine expires cookies on.
	CookieDomain string

	// LoginPath and HomePath drive the page guard redirects
	// (defaults: "/login" and "/dashboard").
	LoginPath string
	HomePath  string

	// PublicPaths are pages reachable without a session.
	PublicPaths []string

	// AllowedOrigins lists dashboard origins allowed to call the API.
	AllowedOrigins []string

	// PasswordMinLength is the minimum length of user-chosen passwords (default: 12).
	PasswordMinLength int

	// TempPasswordLength is the length of generated temporary passwords (default: 16).
	TempPasswordLength int

	// RateLimitEnabled turns on per-IP rate limits for auth, admin and profile routes.
	RateLimitEnabled bool

	// MaxBodyBytes limits request bodies (default: 1 MiB).
	MaxBodyBytes int64

	// ServeUI mounts the login and dashboard pages.
	ServeUI bool

	// Logger is the structured logger (default: no-op).
	Logger *zap.Logger
}

// ATS is an embedded platform instance.
type ATS struct {
	config  Config
	metrics *metrics.Metrics

	sessions *repository.SessionsRepository

	passwordService     *auth.PasswordService
	sessionService      *auth.SessionService
	provisioningService *provisioning.Service
	enforcer            *authz.Enforcer
}

// New creates an ATS instance. Returns an error if required database tables
// don't exist; run the migrations first.
func New(cfg Config) (*ATS, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validateSchema(cfg.DB); err != nil {
		return nil, err
	}

	enforcer, err := authz.NewDefault()
	if err != nil {
		return nil, err
	}

	tenants := repository.NewTenantsRepository(cfg.DB)
	users := repository.NewUsersRepository(cfg.DB)
	creds := repository.NewCredentialsRepository(cfg.DB)
	sessions := repository.NewSessionsRepository(cfg.DB)

	m := metrics.New()

	return &ATS{
		config:   cfg,
		metrics:  m,
		sessions: sessions,
		passwordService: auth.NewPasswordService(tenants, users, creds,
			auth.NewPasswordPolicy(config.PasswordPolicyConfig{
				MinLength:        cfg.PasswordMinLength,
				RequireUppercase: true,
				RequireLowercase: true,
				RequireNumber:    true,
			})),
		sessionService: auth.NewSessionService(auth.SessionConfig{
			TTL:       cfg.SessionTTL,
			JWTSecret: []byte(cfg.JWTSecret),
			Issuer:    cfg.JWTIssuer,
		}, sessions),
		provisioningService: provisioning.NewService(
			repository.NewProvisioningRepository(cfg.DB, tenants, users, creds),
			tenants, provisioning.Config{
				TempPasswordLength:    cfg.TempPasswordLength,
				StrictEmailValidation: true,
			}, cfg.Logger, m),
		enforcer: enforcer,
	}, nil
}

// Handler returns the complete HTTP surface: API, pages, health and metrics.
func (a *ATS) Handler() (http.Handler, error) {
	return httpserver.NewRouter(httpserver.RouterConfig{
		Logger:              a.config.Logger,
		Metrics:             a.metrics,
		PasswordService:     a.passwordService,
		SessionService:      a.sessionService,
		ProvisioningService: a.provisioningService,
		Enforcer:            a.enforcer,
		Session: config.SessionConfig{
			JWTSecret:    a.config.JWTSecret,
			JWTIssuer:    a.config.JWTIssuer,
			TTL:          a.config.SessionTTL,
			CookieName:   a.config.CookieName,
			CookieSecure: a.config.CookieSecure,
			CookieDomain: a.config.CookieDomain,
		},
		Guard: config.GuardConfig{
			LoginPath:   a.config.LoginPath,
			HomePath:    a.config.HomePath,
			PublicPaths: a.config.PublicPaths,
		},
		RateLimitConfig: config.RateLimitConfig{
			Enabled:                  a.config.RateLimitEnabled,
			AuthRequestsPerMinute:    10,
			AuthWindowMinutes:        1,
			AdminRequestsPerMinute:   30,
			AdminWindowMinutes:       1,
			ProfileRequestsPerMinute: 60,
			ProfileWindowMinutes:     1,
		},
		SecurityHeaders: config.SecurityHeadersConfig{
			Enabled:            true,
			CSP:                "default-src 'self'; frame-ancestors 'none'",
			HSTSMaxAge:         31536000,
			FrameOptions:       "DENY",
			ContentTypeOptions: "nosniff",
			ReferrerPolicy:     "strict-origin-when-cross-origin",
			PermissionsPolicy:  "geolocation=(), microphone=(), camera=()",
		},
		CORS:         config.CORSConfig{AllowedOrigins: a.config.AllowedOrigins},
		MaxBodyBytes: a.config.MaxBodyBytes,
		ServeUI:      a.config.ServeUI,
	})
}

// Provisioning returns the tenant provisioning service, for CLIs and jobs.
func (a *ATS) Provisioning() *provisioning.Service {
	return a.provisioningService
}

// SessionService returns the session service for advanced usage.
func (a *ATS) SessionService() *auth.SessionService {
	return a.sessionService
}

// PruneSessions deletes sessions that ended before the cutoff.
func (a *ATS) PruneSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	return a.sessions.DeleteExpired(ctx, olderThan)
}

// AuthMiddleware returns middleware that validates session tokens.
// Use this to protect your own routes:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(platform.AuthMiddleware())
//	    r.Get("/protected", handler)
//	})
func (a *ATS) AuthMiddleware() func(http.Handler) http.Handler {
	return middleware.Auth(a.sessionService, a.config.CookieName)
}

// GetUserIDFromContext extracts the user ID from a context.
// Use after AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return middleware.GetUserID(ctx)
}

// GetTenantIDFromContext extracts the tenant ID from a context.
// Use after AuthMiddleware.
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return middleware.GetTenantID(ctx)
}

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("ats: DB is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("ats: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("ats: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "simple-ats"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = auth.DefaultSessionTTL
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/dashboard"
	}
	if cfg.PublicPaths == nil {
		cfg.PublicPaths = []string{cfg.LoginPath, "/register", "/health", "/metrics"}
	}
	if cfg.PasswordMinLength == 0 {
		cfg.PasswordMinLength = 12
	}
	if cfg.TempPasswordLength == 0 {
		cfg.TempPasswordLength = auth.DefaultTemporaryPasswordLength
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}

// requiredTables are created by the embedded migrations.
var requiredTables = []string{"tenants", "users", "user_passwords", "sessions"}

// validateSchema checks that required database tables exist.
func validateSchema(db *sql.DB) error {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	`

	for _, table := range requiredTables {
		var name string
		err := db.QueryRow(query, table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("ats: missing table '%s' - run migrations first (simple-ats migrate up)", table)
		}
		if err != nil {
			return fmt.Errorf("ats: failed to check schema: %w", err)
		}
	}

	return nil
}
