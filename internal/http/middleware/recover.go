package middleware

import (
	"net/http"

	"github.com/tendant/simple-ats/internal/httputil"
	"go.uber.org/zap"
)

// Recover turns a handler panic into a 500 response and an error log.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				requestID := httputil.RequestIDFromContext(r.Context())
				logger.Error("panic serving request",
					zap.Any("panic", p),
					zap.String("path", r.URL.Path),
					zap.String("request_id", requestID),
					zap.Stack("stack"),
				)
				httputil.JSON(w, http.StatusInternalServerError, httputil.ErrorResponse{
					Error:     "internal error",
					RequestID: requestID,
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
