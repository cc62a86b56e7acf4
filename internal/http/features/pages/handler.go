package pages

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/tendant/simple-ats/internal/guard"
	"github.com/tendant/simple-ats/internal/teardown"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Handler renders the minimal browser pages.
type Handler struct {
	logger    *zap.Logger
	templates *template.Template
	teardown  *teardown.Routine
	loginPath string
	homePath  string
}

// NewHandler creates a new pages handler.
func NewHandler(logger *zap.Logger, routine *teardown.Routine, loginPath, homePath string) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		logger:    logger,
		templates: tmpl,
		teardown:  routine,
		loginPath: loginPath,
		homePath:  homePath,
	}, nil
}

// PageData holds data for template rendering.
type PageData struct {
	Title     string
	Next      string
	LoginPath string
	HomePath  string
}

// Login renders the sign-in page.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", PageData{
		Title: "Sign In",
		Next:  guard.SafeNext(r.URL.Query().Get("next"), h.homePath),
	})
}

// Register renders the registration page. Companies are provisioned by a
// platform administrator, so it only explains how to get an account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", PageData{Title: "Register"})
}

// Dashboard renders the protected home page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard.html", PageData{Title: "Dashboard"})
}

// Logout runs the credential teardown and always lands on the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.teardown.Run(r.Context(), teardown.Target{Request: r, Writer: w})
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
}

// Assets serves the embedded static files under /assets/.
func (h *Handler) Assets() http.Handler {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/assets/", http.FileServer(http.FS(sub)))
}

func (h *Handler) render(w http.ResponseWriter, tmpl string, data PageData) {
	data.LoginPath = h.loginPath
	data.HomePath = h.homePath
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.templates.ExecuteTemplate(w, tmpl, data); err != nil {
		h.logger.Error("render page", zap.String("template", tmpl), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
