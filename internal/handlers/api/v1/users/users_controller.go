// file: internal/handlers/api/v1/users/users_controller.go
package users

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sprintdeck/internal/middleware"
	"sprintdeck/internal/models"
	"sprintdeck/internal/response"
	"sprintdeck/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller handles user profile endpoints
type Controller struct {
	users   services.UserService
	builder *response.Builder
	logger  *zap.Logger
}

// NewController creates the users controller
func NewController(users services.UserService, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{users: users, builder: builder, logger: logger}
}

// RegisterRoutes mounts the user endpoints on an authenticated router
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/users", c.List).Methods(http.MethodGet)
	r.HandleFunc("/users/me", c.Me).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
}

// RegisterAdminRoutes mounts user endpoints restricted to admins
func (c *Controller) RegisterAdminRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id:[0-9]+}", c.Deactivate).Methods(http.MethodDelete)
}

// List handles GET /users
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	filter := services.UserListFilter{}
	if dept := r.URL.Query().Get("department"); dept != "" {
		filter.Department = &dept
	}

	result, err := c.users.List(r.Context(), filter, paginationFrom(r))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, result)
}

// Me handles GET /users/me
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	user, err := c.users.GetByID(r.Context(), authCtx.UserID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, user)
}

// Get handles GET /users/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.builder)
	if !ok {
		return
	}

	user, err := c.users.GetByID(r.Context(), id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, user)
}

// Update handles PUT /users/{id}; users may only edit their own profile
// unless they hold the admin role.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.builder)
	if !ok {
		return
	}

	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}
	if authCtx.UserID != id && authCtx.Role != models.RoleAdmin {
		c.builder.WriteForbidden(w, r, "cannot edit another user's profile")
		return
	}

	var req services.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	user, err := c.users.Update(r.Context(), id, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, user)
}

// Deactivate handles DELETE /users/{id}
func (c *Controller) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.builder)
	if !ok {
		return
	}

	if err := c.users.Deactivate(r.Context(), id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteNoContent(w, r)
}

func pathID(w http.ResponseWriter, r *http.Request, builder *response.Builder) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		builder.WriteValidationError(w, r, "invalid id")
		return 0, false
	}
	return id, true
}

func paginationFrom(r *http.Request) models.PaginationParams {
	q := r.URL.Query()
	params := models.PaginationParams{}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		params.Offset = offset
	}
	params.Normalize()
	return params
}
