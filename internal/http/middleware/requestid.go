package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/simple-ats/internal/httputil"
)

// RequestIDHeader is the header name for request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID middleware takes the X-Request-ID header or generates a new UUID,
// echoes it on the response and stores it in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(httputil.WithRequestID(r.Context(), requestID)))
	})
}
