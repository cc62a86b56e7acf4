package teardown

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Location names.
const (
	ServerSessionName = "server_session"
	CookieJarName     = "cookie_jar"
	ClientStorageName = "client_storage"
)

// SessionRevoker revokes the server-side session behind a token.
type SessionRevoker interface {
	RevokeSession(ctx context.Context, token string) error
}

// ServerSession revokes the session the request's token refers to, so the
// token is dead even if a copy survives in the browser.
type ServerSession struct {
	Sessions   SessionRevoker
	CookieName string
}

func (s *ServerSession) Name() string { return ServerSessionName }

// Clear revokes the session. A request without a token has nothing to revoke.
func (s *ServerSession) Clear(ctx context.Context, t Target) error {
	token := RequestToken(t.Request, s.CookieName)
	if token == "" {
		return nil
	}
	return s.Sessions.RevokeSession(ctx, token)
}

// RequestToken returns the bearer token from the Authorization header or,
// failing that, the named cookie.
func RequestToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1]
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// CookieJar expires credential cookies. Browsers disagree on which scope a
// cookie was stored under, so every cookie is expired at the root path with
// Max-Age=0 and with a past Expires, and again for the exact host and its
// registrable parent domain.
type CookieJar struct {
	Names []string
	// Domain is an explicitly configured cookie domain, expired as well.
	Domain string
	Secure bool
}

func (c *CookieJar) Name() string { return CookieJarName }

// Clear writes the expiring Set-Cookie headers.
func (c *CookieJar) Clear(_ context.Context, t Target) error {
	if t.Writer == nil {
		return errors.New("no response to write cookies to")
	}

	domains := cookieDomains(requestHost(t.Request), c.Domain)
	for _, name := range c.Names {
		http.SetCookie(t.Writer, c.expired(name, "", true))
		http.SetCookie(t.Writer, c.expired(name, "", false))
		for _, d := range domains {
			http.SetCookie(t.Writer, c.expired(name, d, true))
		}
	}
	return nil
}

func (c *CookieJar) expired(name, domain string, maxAge bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}

// cookieDomains returns the Domain attribute values to expire for host: the
// host itself, its registrable parent and the configured domain, without
// duplicates. IP addresses and single-label hosts get no Domain variants.
func cookieDomains(host, configured string) []string {
	var out []string
	add := func(d string) {
		d = strings.TrimPrefix(d, ".")
		if d == "" {
			return
		}
		for _, existing := range out {
			if existing == d {
				return
			}
		}
		out = append(out, d)
	}

	if host != "" && net.ParseIP(host) == nil && strings.Contains(host, ".") {
		add(host)
		if parent, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			add(parent)
		}
	}
	add(configured)
	return out
}

func requestHost(r *http.Request) string {
	if r == nil {
		return ""
	}
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}

// ClientStorage asks the browser to drop everything the page stored for this
// origin, which covers localStorage and sessionStorage copies of the token
// and user profile.
type ClientStorage struct{}

func (ClientStorage) Name() string { return ClientStorageName }

// Clear sets the Clear-Site-Data header.
func (ClientStorage) Clear(_ context.Context, t Target) error {
	if t.Writer == nil {
		return errors.New("no response to write headers to")
	}
	t.Writer.Header().Set("Clear-Site-Data", `"cookies", "storage"`)
	return nil
}
