// file: internal/router/router.go
package router

import (
	"net/http"

	"sprintdeck/internal/database"
	"sprintdeck/internal/handlers/api/v1/achievements"
	"sprintdeck/internal/handlers/api/v1/audit"
	"sprintdeck/internal/handlers/api/v1/auth"
	"sprintdeck/internal/handlers/api/v1/backlogs"
	"sprintdeck/internal/handlers/api/v1/projects"
	"sprintdeck/internal/handlers/api/v1/sprints"
	"sprintdeck/internal/handlers/api/v1/tasks"
	"sprintdeck/internal/handlers/api/v1/users"
	"sprintdeck/internal/middleware"
	"sprintdeck/internal/models"
	"sprintdeck/internal/response"
	"sprintdeck/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs to mount the API
type Dependencies struct {
	Services *services.Collection
	DB       *database.Manager
	Builder  *response.Builder
	Logger   *zap.Logger
}

// New builds the full HTTP router: /health plus the versioned API under
// /api/v1, with auth enforced on everything except registration and login.
func New(deps Dependencies) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Builder, deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.HandleFunc("/health", healthHandler(deps)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public endpoints
	auth.NewController(deps.Services.Auth, deps.Builder, deps.Logger).RegisterRoutes(api)

	// Authenticated endpoints
	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(deps.Services.Auth, deps.Builder))

	usersCtrl := users.NewController(deps.Services.User, deps.Builder, deps.Logger)
	usersCtrl.RegisterRoutes(authed)
	projects.NewController(deps.Services.Project, deps.Services.Sprint, deps.Services.Backlog, deps.Services.Task, deps.Builder, deps.Logger).RegisterRoutes(authed)
	sprints.NewController(deps.Services.Sprint, deps.Builder, deps.Logger).RegisterRoutes(authed)
	backlogs.NewController(deps.Services.Backlog, deps.Builder, deps.Logger).RegisterRoutes(authed)
	tasks.NewController(deps.Services.Task, deps.Builder, deps.Logger).RegisterRoutes(authed)
	achievements.NewController(deps.Services.Achievement, deps.Builder, deps.Logger).RegisterRoutes(authed)

	// Admin endpoints
	admin := authed.NewRoute().Subrouter()
	admin.Use(middleware.RequireRole(deps.Builder, models.RoleAdmin))
	usersCtrl.RegisterAdminRoutes(admin)
	audit.NewController(deps.Services.Audit, deps.Builder, deps.Logger).RegisterRoutes(admin)

	return r
}

func healthHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := deps.DB.Health(r.Context())
		healthy := health.Status == database.StatusHealthy
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		deps.Builder.WriteJSON(w, r, &response.APIResponse{
			Success: healthy,
			Data:    health,
		}, status)
	}
}
