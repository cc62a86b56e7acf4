// Package guard decides, for every page navigation, whether to render the
// page or redirect, based only on whether a session token cookie is present.
package guard

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/tendant/simple-ats/internal/metrics"
	"go.uber.org/zap"
)

// PathClass is the guard's view of a path.
type PathClass int

const (
	// ClassProtected is any path not listed as login or public.
	ClassProtected PathClass = iota
	ClassLogin
	ClassPublic
)

func (c PathClass) String() string {
	switch c {
	case ClassLogin:
		return "login"
	case ClassPublic:
		return "public"
	default:
		return "protected"
	}
}

// Decision is the outcome of one evaluation.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToHome:
		return "redirect_home"
	default:
		return "allow"
	}
}

// Decide applies the navigation table:
//
//	token   login          public  protected
//	absent  allow          allow   redirect to login
//	present redirect home  allow   allow
func Decide(tokenPresent bool, class PathClass) Decision {
	switch {
	case !tokenPresent && class == ClassProtected:
		return RedirectToLogin
	case tokenPresent && class == ClassLogin:
		return RedirectToHome
	default:
		return Allow
	}
}

// Config holds guard settings.
type Config struct {
	CookieName  string
	LoginPath   string
	HomePath    string
	PublicPaths []string
	// BypassPrefixes are not page routes and are never evaluated.
	BypassPrefixes []string
}

// Guard evaluates page navigations.
type Guard struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a guard. logger and m may be nil.
func New(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Guard {
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/dashboard"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{cfg: cfg, logger: logger.Named("guard"), metrics: m}
}

// Classify maps a request path to its class. Unknown paths are protected.
func (g *Guard) Classify(p string) PathClass {
	p = cleanPath(p)
	if p == g.cfg.LoginPath {
		return ClassLogin
	}
	for _, public := range g.cfg.PublicPaths {
		if matchPath(p, public) {
			return ClassPublic
		}
	}
	return ClassProtected
}

// TokenPresent reports whether the request carries a non-empty session cookie.
func (g *Guard) TokenPresent(r *http.Request) bool {
	c, err := r.Cookie(g.cfg.CookieName)
	return err == nil && c.Value != ""
}

// Middleware evaluates the guard before every page handler runs. Nothing is
// cached between requests.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.bypassed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		class := g.Classify(r.URL.Path)
		decision := Decide(g.TokenPresent(r), class)
		g.metrics.GuardDecision(decision.String())

		if decision == Allow {
			next.ServeHTTP(w, r)
			return
		}

		target := g.cfg.HomePath
		if decision == RedirectToLogin {
			target = g.cfg.LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
		}

		g.logger.Debug("navigation redirected",
			zap.String("path", r.URL.Path),
			zap.String("class", class.String()),
			zap.String("decision", decision.String()),
		)

		w.Header().Set("Cache-Control", "no-store")
		status := http.StatusFound
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			status = http.StatusSeeOther
		}
		http.Redirect(w, r, target, status)
	})
}

func (g *Guard) bypassed(p string) bool {
	for _, prefix := range g.cfg.BypassPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// SafeNext returns next when it is a local absolute path, and fallback
// otherwise, so a ?next= value cannot redirect off-site.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// matchPath matches exact paths and their sub-paths.
func matchPath(p, pattern string) bool {
	pattern = cleanPath(pattern)
	if pattern == "/" {
		return p == "/"
	}
	return p == pattern || strings.HasPrefix(p, pattern+"/")
}
