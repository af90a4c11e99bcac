// file: internal/middleware/recovery.go
package middleware

import (
	"net/http"
	"runtime/debug"

	"sprintdeck/internal/contextutils"
	"sprintdeck/internal/response"

	"go.uber.org/zap"
)

// Recovery converts handler panics into 500 responses
func Recovery(builder *response.Builder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("Handler panicked",
						zap.Any("panic", p),
						zap.String("path", r.URL.Path),
						zap.String("request_id", contextutils.GetRequestID(r.Context())),
						zap.ByteString("stack", debug.Stack()),
					)
					builder.WriteError(w, r, errPanic)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var errPanic = panicError{}

type panicError struct{}

func (panicError) Error() string { return "internal server error" }
