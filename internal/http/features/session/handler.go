package session

import (
	"net/http"
	"strconv"

	"github.com/tendant/simple-ats/internal/http/middleware"
	"github.com/tendant/simple-ats/internal/httputil"
	"github.com/tendant/simple-ats/internal/teardown"
	"github.com/tendant/simple-ats/pkg/auth"
	"go.uber.org/zap"
)

// TeardownHeader reports whether every credential location was cleared.
const TeardownHeader = "X-Teardown-Complete"

// Handler handles session endpoints.
type Handler struct {
	logger         *zap.Logger
	sessionService *auth.SessionService
	teardown       *teardown.Routine
}

// NewHandler creates a new session handler.
func NewHandler(logger *zap.Logger, sessionService *auth.SessionService, routine *teardown.Routine) *Handler {
	return &Handler{
		logger:         logger,
		sessionService: sessionService,
		teardown:       routine,
	}
}

// Logout clears the session everywhere it may be stored. It succeeds even
// without a session so a client can always reach a clean state.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	complete := h.teardown.Run(r.Context(), teardown.Target{Request: r, Writer: w})
	h.finish(w, complete)
}

// LogoutAll revokes all sessions for the current user, then clears this one.
// POST /v1/auth/logout/all
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.sessionService.RevokeAllSessions(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	complete := h.teardown.Run(r.Context(), teardown.Target{Request: r, Writer: w})
	h.finish(w, complete)
}

func (h *Handler) finish(w http.ResponseWriter, complete bool) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set(TeardownHeader, strconv.FormatBool(complete))
	w.WriteHeader(http.StatusNoContent)
}
