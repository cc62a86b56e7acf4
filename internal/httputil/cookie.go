package httputil

import (
	"net/http"
	"time"

	"github.com/tendant/simple-ats/internal/config"
)

// CookieConfig holds session cookie configuration.
type CookieConfig struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool // false only for local HTTP development
	SameSite http.SameSite
}

// NewCookieConfig builds the session cookie configuration from settings.
func NewCookieConfig(cfg config.SessionConfig) CookieConfig {
	name := cfg.CookieName
	if name == "" {
		name = "token"
	}
	return CookieConfig{
		Name:     name,
		Domain:   cfg.CookieDomain,
		Path:     "/",
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookie sets the HttpOnly session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// IsMobileClient checks if request is from a mobile client.
// Mobile clients should set header: X-Client-Type: mobile
func IsMobileClient(r *http.Request) bool {
	return r.Header.Get("X-Client-Type") == "mobile"
}
