package guard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-ats/internal/metrics"
)

func newGuard(m *metrics.Metrics) *Guard {
	return New(Config{
		CookieName:     "token",
		LoginPath:      "/login",
		HomePath:       "/dashboard",
		PublicPaths:    []string{"/login", "/register", "/health", "/diagnostic", "/metrics"},
		BypassPrefixes: []string{"/v1/"},
	}, nil, m)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		token bool
		class PathClass
		want  Decision
	}{
		{false, ClassLogin, Allow},
		{false, ClassPublic, Allow},
		{false, ClassProtected, RedirectToLogin},
		{true, ClassLogin, RedirectToHome},
		{true, ClassPublic, Allow},
		{true, ClassProtected, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.token, tt.class), "token=%v class=%s", tt.token, tt.class)
		})
	}
}

func TestClassify(t *testing.T) {
	g := newGuard(nil)

	tests := []struct {
		path string
		want PathClass
	}{
		{"/login", ClassLogin},
		{"/login/", ClassLogin},
		{"/register", ClassPublic},
		{"/health", ClassPublic},
		{"/diagnostic/db", ClassPublic},
		{"/metrics", ClassPublic},
		{"/dashboard", ClassProtected},
		{"/", ClassProtected},
		{"/jobs/42", ClassProtected},
		{"/registered", ClassProtected},
		{"/health/../dashboard", ClassProtected},
		{"", ClassProtected},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Classify(tt.path))
		})
	}
}

func serve(g *Guard, method, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page"))
	}))
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	token := &http.Cookie{Name: "token", Value: "opaque"}

	tests := []struct {
		name         string
		method       string
		target       string
		cookie       *http.Cookie
		wantStatus   int
		wantLocation string
	}{
		{name: "protected without token", method: http.MethodGet, target: "/dashboard", wantStatus: http.StatusFound, wantLocation: "/login?next=%2Fdashboard"},
		{name: "protected keeps query in next", method: http.MethodGet, target: "/jobs?status=open", wantStatus: http.StatusFound, wantLocation: "/login?next=%2Fjobs%3Fstatus%3Dopen"},
		{name: "login with token", method: http.MethodGet, target: "/login", cookie: token, wantStatus: http.StatusFound, wantLocation: "/dashboard"},
		{name: "login without token", method: http.MethodGet, target: "/login", wantStatus: http.StatusOK},
		{name: "public without token", method: http.MethodGet, target: "/register", wantStatus: http.StatusOK},
		{name: "public with token", method: http.MethodGet, target: "/health", cookie: token, wantStatus: http.StatusOK},
		{name: "protected with token", method: http.MethodGet, target: "/dashboard", cookie: token, wantStatus: http.StatusOK},
		{name: "empty cookie counts as absent", method: http.MethodGet, target: "/dashboard", cookie: &http.Cookie{Name: "token", Value: ""}, wantStatus: http.StatusFound, wantLocation: "/login?next=%2Fdashboard"},
		{name: "other cookie ignored", method: http.MethodGet, target: "/dashboard", cookie: &http.Cookie{Name: "user", Value: "x"}, wantStatus: http.StatusFound, wantLocation: "/login?next=%2Fdashboard"},
		{name: "post redirects with see other", method: http.MethodPost, target: "/dashboard", wantStatus: http.StatusSeeOther, wantLocation: "/login?next=%2Fdashboard"},
		{name: "api bypassed", method: http.MethodGet, target: "/v1/me", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newGuard(nil), tt.method, tt.target, tt.cookie)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			if tt.wantLocation != "" {
				assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestMiddleware_EvaluatesEveryRequest(t *testing.T) {
	g := newGuard(nil)
	token := &http.Cookie{Name: "token", Value: "opaque"}

	assert.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/dashboard", token).Code)
	// Same guard, cookie gone: no cached allow.
	assert.Equal(t, http.StatusFound, serve(g, http.MethodGet, "/dashboard", nil).Code)
}

func TestMiddleware_CountsDecisions(t *testing.T) {
	m := metrics.New()
	g := newGuard(m)

	serve(g, http.MethodGet, "/dashboard", nil)
	serve(g, http.MethodGet, "/login", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ats_guard_decisions_total{decision="redirect_login"} 1`)
	assert.Contains(t, string(body), `ats_guard_decisions_total{decision="allow"} 1`)
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/jobs?status=open", "/jobs?status=open"},
		{"", "/dashboard"},
		{"https://evil.example", "/dashboard"},
		{"//evil.example", "/dashboard"},
		{"/\\evil.example", "/dashboard"},
		{"jobs", "/dashboard"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeNext(tt.next, "/dashboard"), "next=%q", tt.next)
	}
}
