// file: internal/handlers/api/v1/backlogs/backlogs_controller.go
package backlogs

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

// Controller handles backlog item endpoints
type Controller struct {
	backlogs services.BacklogService
	builder  *response.Builder
	logger   *zap.Logger
}

// NewController creates the backlogs controller
func NewController(backlogs services.BacklogService, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{backlogs: backlogs, builder: builder, logger: logger}
}

// RegisterRoutes mounts the backlog endpoints on an authenticated router
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/backlog", c.Create).Methods(http.MethodPost)
	r.HandleFunc("/backlog/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	r.HandleFunc("/backlog/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
}

// Create handles POST /backlog
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.CreateBacklogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	item, err := c.backlogs.Create(r.Context(), authCtx.UserID, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, item)
}

// Get handles GET /backlog/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}

	item, err := c.backlogs.GetByID(r.Context(), id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, item)
}

// Update handles PUT /backlog/{id}
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

	var req services.UpdateBacklogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	item, err := c.backlogs.Update(r.Context(), authCtx.UserID, id, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, item)
}

func (c *Controller) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		c.builder.WriteValidationError(w, r, "invalid id")
		return 0, false
	}
	return id, true
}
