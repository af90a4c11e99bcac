// file: internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"sprintdeck/internal/contextutils"
	"sprintdeck/internal/response"
	"sprintdeck/internal/services"
)

// AuthContext is the verified identity attached to authenticated requests
type AuthContext struct {
	UserID     int64
	Username   string
	Email      string
	Role       string
	Department string
}

type authContextKey struct{}

// RequireAuth rejects requests without a valid bearer token and attaches the
// verified AuthContext to the request context.
func RequireAuth(auth services.AuthService, builder *response.Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				builder.WriteUnauthorized(w, r, "missing authorization header")
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				builder.WriteUnauthorized(w, r, "malformed authorization header")
				return
			}

			claims, err := auth.VerifyToken(r.Context(), token)
			if err != nil {
				builder.WriteError(w, r, err)
				return
			}

			authCtx := &AuthContext{
				UserID:     claims.UserID,
				Username:   claims.Username,
				Email:      claims.Email,
				Role:       claims.Role,
				Department: claims.Department,
			}
			ctx := WithAuthContext(r.Context(), authCtx)
			ctx = contextutils.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose role is not in the allowed set
func RequireRole(builder *response.Builder, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := GetAuthContext(r.Context())
			if authCtx == nil {
				builder.WriteUnauthorized(w, r, "authentication required")
				return
			}
			if !allowed[authCtx.Role] {
				builder.WriteForbidden(w, r, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithAuthContext attaches a verified identity to the context
func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, authCtx)
}

// GetAuthContext returns the request's AuthContext, or nil when unauthenticated
func GetAuthContext(ctx context.Context) *AuthContext {
	if authCtx, ok := ctx.Value(authContextKey{}).(*AuthContext); ok {
		return authCtx
	}
	return nil
}
