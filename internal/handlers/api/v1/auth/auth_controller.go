// file: internal/handlers/api/v1/auth/auth_controller.go
package auth

import (
	"encoding/json"
	"net/http"

	"sprintdeck/internal/response"
	"sprintdeck/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller handles registration and login
type Controller struct {
	auth    services.AuthService
	builder *response.Builder
	logger  *zap.Logger
}

// NewController creates the auth controller
func NewController(auth services.AuthService, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{auth: auth, builder: builder, logger: logger}
}

// RegisterRoutes mounts the auth endpoints
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", c.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", c.Login).Methods(http.MethodPost)
}

// Register handles POST /auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	result, err := c.auth.Register(r.Context(), req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, result)
}

// Login handles POST /auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	result, err := c.auth.Login(r.Context(), req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, result)
}
