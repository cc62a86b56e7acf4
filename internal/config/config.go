package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	Session         SessionConfig
	Guard           GuardConfig
	RateLimit       RateLimitConfig
	SecurityHeaders SecurityHeadersConfig
	CORS            CORSConfig
	PasswordPolicy  PasswordPolicyConfig
	Provisioning    ProvisioningConfig
	Log             LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"SERVER_MAX_BODY_BYTES" envDefault:"1048576"`
}

// DatabaseConfig holds Postgres settings (defaults match the local podman setup).
type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"25432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"simple_ats"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// SessionConfig holds session token and cookie settings.
type SessionConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"simple-ats"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"token"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CookieDomain string        `env:"COOKIE_DOMAIN"`
}

// GuardConfig holds page navigation guard settings.
type GuardConfig struct {
	LoginPath   string   `env:"GUARD_LOGIN_PATH" envDefault:"/login"`
	HomePath    string   `env:"GUARD_HOME_PATH" envDefault:"/dashboard"`
	PublicPaths []string `env:"GUARD_PUBLIC_PATHS" envSeparator:"," envDefault:"/login,/register,/health,/diagnostic,/metrics"`
}

// RateLimitConfig holds per-endpoint-group rate limits.
type RateLimitConfig struct {
	Enabled                  bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	AuthRequestsPerMinute    int  `env:"RATE_LIMIT_AUTH_REQUESTS" envDefault:"10"`
	AuthWindowMinutes        int  `env:"RATE_LIMIT_AUTH_WINDOW_MINUTES" envDefault:"1"`
	AdminRequestsPerMinute   int  `env:"RATE_LIMIT_ADMIN_REQUESTS" envDefault:"30"`
	AdminWindowMinutes       int  `env:"RATE_LIMIT_ADMIN_WINDOW_MINUTES" envDefault:"1"`
	ProfileRequestsPerMinute int  `env:"RATE_LIMIT_PROFILE_REQUESTS" envDefault:"60"`
	ProfileWindowMinutes     int  `env:"RATE_LIMIT_PROFILE_WINDOW_MINUTES" envDefault:"1"`
}

// SecurityHeadersConfig holds response security header values.
type SecurityHeadersConfig struct {
	Enabled            bool   `env:"SECURITY_HEADERS_ENABLED" envDefault:"true"`
	CSP                string `env:"SECURITY_CSP" envDefault:"default-src 'self'; frame-ancestors 'none'"`
	HSTSMaxAge         int    `env:"SECURITY_HSTS_MAX_AGE" envDefault:"31536000"`
	FrameOptions       string `env:"SECURITY_FRAME_OPTIONS" envDefault:"DENY"`
	ContentTypeOptions string `env:"SECURITY_CONTENT_TYPE_OPTIONS" envDefault:"nosniff"`
	ReferrerPolicy     string `env:"SECURITY_REFERRER_POLICY" envDefault:"strict-origin-when-cross-origin"`
	PermissionsPolicy  string `env:"SECURITY_PERMISSIONS_POLICY" envDefault:"geolocation=(), microphone=(), camera=()"`
}

// CORSConfig holds the dashboard origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// PasswordPolicyConfig holds requirements for user-chosen passwords.
type PasswordPolicyConfig struct {
	MinLength        int  `env:"PASSWORD_MIN_LENGTH" envDefault:"12"`
	RequireUppercase bool `env:"PASSWORD_REQUIRE_UPPERCASE" envDefault:"true"`
	RequireLowercase bool `env:"PASSWORD_REQUIRE_LOWERCASE" envDefault:"true"`
	RequireNumber    bool `env:"PASSWORD_REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecial   bool `env:"PASSWORD_REQUIRE_SPECIAL" envDefault:"false"`
}

// ProvisioningConfig holds tenant provisioning settings.
type ProvisioningConfig struct {
	TempPasswordLength    int  `env:"TEMP_PASSWORD_LENGTH" envDefault:"16"`
	StrictEmailValidation bool `env:"STRICT_EMAIL_VALIDATION" envDefault:"true"`
	BlockDisposableEmail  bool `env:"BLOCK_DISPOSABLE_EMAIL" envDefault:"false"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// minTempPasswordLength mirrors auth.MinTemporaryPasswordLength.
const minTempPasswordLength = 12

// Load loads configuration from environment variables, reading a .env file
// first when one exists. Variables already set in the environment win.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings the tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Session.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("SESSION_COOKIE_NAME must not be empty"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Provisioning.TempPasswordLength < minTempPasswordLength {
		errs = append(errs, fmt.Errorf("TEMP_PASSWORD_LENGTH must be at least %d", minTempPasswordLength))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}
