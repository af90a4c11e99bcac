// file: internal/handlers/api/v1/tasks/tasks_controller.go
package tasks

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

// Controller handles task endpoints
type Controller struct {
	tasks   services.TaskService
	builder *response.Builder
	logger  *zap.Logger
}

// NewController creates the tasks controller
func NewController(tasks services.TaskService, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{tasks: tasks, builder: builder, logger: logger}
}

// RegisterRoutes mounts the task endpoints on an authenticated router
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/tasks", c.Create).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
}

// Create handles POST /tasks
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	task, err := c.tasks.Create(r.Context(), authCtx.UserID, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, task)
}

// Get handles GET /tasks/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}

	task, err := c.tasks.GetByID(r.Context(), id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, task)
}

// Update handles PUT /tasks/{id}, including status transitions
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

	var req services.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	task, err := c.tasks.Update(r.Context(), authCtx.UserID, id, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, task)
}

func (c *Controller) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		c.builder.WriteValidationError(w, r, "invalid id")
		return 0, false
	}
	return id, true
}
