// file: internal/handlers/api/v1/projects/projects_controller.go
package projects

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

// Controller handles project endpoints
type Controller struct {
	projects services.ProjectService
	sprints  services.SprintService
	backlogs services.BacklogService
	tasks    services.TaskService
	builder  *response.Builder
	logger   *zap.Logger
}

// NewController creates the projects controller
func NewController(
	projects services.ProjectService,
	sprints services.SprintService,
	backlogs services.BacklogService,
	tasks services.TaskService,
	builder *response.Builder,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		projects: projects,
		sprints:  sprints,
		backlogs: backlogs,
		tasks:    tasks,
		builder:  builder,
		logger:   logger,
	}
}

// RegisterRoutes mounts the project endpoints on an authenticated router
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/projects", c.List).Methods(http.MethodGet)
	r.HandleFunc("/projects", c.Create).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	r.HandleFunc("/projects/{id:[0-9]+}", c.Archive).Methods(http.MethodDelete)
	r.HandleFunc("/projects/{id:[0-9]+}/sprints", c.ListSprints).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id:[0-9]+}/backlog", c.ListBacklog).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id:[0-9]+}/tasks", c.ListTasks).Methods(http.MethodGet)
}

// List handles GET /projects
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	filter := services.ProjectListFilter{}
	if dept := r.URL.Query().Get("department"); dept != "" {
		filter.Department = &dept
	}

	result, err := c.projects.List(r.Context(), filter, paginationFrom(r))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, result)
}

// Create handles POST /projects
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	project, err := c.projects.Create(r.Context(), authCtx.UserID, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, project)
}

// Get handles GET /projects/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.builder)
	if !ok {
		return
	}

	project, err := c.projects.GetByID(r.Context(), id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, project)
}

// Update handles PUT /projects/{id}
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

	var req services.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteValidationError(w, r, "invalid request body")
		return
	}

	project, err := c.projects.Update(r.Context(), authCtx.UserID, id, req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, project)
}

// Archive handles DELETE /projects/{id}
func (c *Controller) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.builder)
	if !ok {
		return
	}
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	if err := c.projects.Archive(r.Context(), authCtx.UserID, id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteNoContent(w, r)
}

// ListSprints handles GET /projects/{id}/sprints
func (c *Controller) ListSprints(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.builder)
	if !ok {
		return
	}

	result, err := c.sprints.ListByProject(r.Context(), id, paginationFrom(r))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, result)
}

// ListBacklog handles GET /projects/{id}/backlog
func (c *Controller) ListBacklog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.builder)
	if !ok {
		return
	}

	result, err := c.backlogs.ListByProject(r.Context(), id, paginationFrom(r))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, result)
}

// ListTasks handles GET /projects/{id}/tasks
func (c *Controller) ListTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.builder)
	if !ok {
		return
	}

	result, err := c.tasks.ListByProject(r.Context(), id, paginationFrom(r))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, result)
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
