// file: internal/middleware/request_id.go
package middleware

import (
	"net/http"

	"sprintdeck/internal/contextutils"

	"github.com/gofrs/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a correlation id to every request, reusing the caller's
// X-Request-ID header when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			if id, err := uuid.NewV4(); err == nil {
				requestID = id.String()
			}
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := contextutils.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
