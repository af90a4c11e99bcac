// file: internal/handlers/api/v1/sprints/sprints_controller.go
package sprints

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sprintdeck/internal/middleware"
	"sprintdeck/internal/response"
	"sprintdeck/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller handles sprint endpoints
type Controller struct {
	sprints services.SprintService
	builder *response.Builder
	logger  *zap.Logger
}

// NewController creates the sprints controller
func NewController(sprints services.SprintService, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{sprints: sprints, builder: builder, logger: logger}
}

// RegisterRoutes mounts the sprint endpoints on an authenticated router
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sprints", c.Create).Methods(http.MethodPost)
	r.HandleFunc("/sprints/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	r.HandleFunc("/sprints/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	r.HandleFunc("/sprints/{id:[0-9]+}/join", c.Join).Methods(http.MethodPost)
	r.HandleFunc("/sprints/{id:[0-9]+}/complete", c.Complete).Methods(http.MethodPost)
}

// Create handles POST /sprints
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.CreateSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	sprint, err := c.sprints.Create(r.Context(), authCtx.UserID, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, sprint)
}

// Get handles GET /sprints/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}

	sprint, err := c.sprints.GetByID(r.Context(), id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, sprint)
}

// Update handles PUT /sprints/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.UpdateSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	sprint, err := c.sprints.Update(r.Context(), authCtx.UserID, id, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, sprint)
}

// Join handles POST /sprints/{id}/join; the caller joins the sprint
func (c *Controller) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	if err := c.sprints.Join(r.Context(), authCtx.UserID, id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteNoContent(w, r)
}

// Complete handles POST /sprints/{id}/complete
func (c *Controller) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	sprint, err := c.sprints.Complete(r.Context(), authCtx.UserID, id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, sprint)
}

func (c *Controller) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		c.builder.WriteValidationError(w, r, "invalid id")
		return 0, false
	}
	return id, true
}
