// file: internal/handlers/api/v1/achievements/achievements_controller.go
package achievements

import (
	"net/http"
	"strconv"

	"sprintdeck/internal/middleware"
	"sprintdeck/internal/response"
	"sprintdeck/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller handles the read-only achievement endpoints
type Controller struct {
	achievements services.AchievementService
	builder      *response.Builder
	logger       *zap.Logger
}

// NewController creates the achievements controller
func NewController(achievements services.AchievementService, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{achievements: achievements, builder: builder, logger: logger}
}

// RegisterRoutes mounts the achievement endpoints on an authenticated router
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/achievements/me", c.Me).Methods(http.MethodGet)
	r.HandleFunc("/achievements/leaderboard", c.Leaderboard).Methods(http.MethodGet)
	r.HandleFunc("/achievements/{userId:[0-9]+}", c.Get).Methods(http.MethodGet)
}

// Me handles GET /achievements/me
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.builder.WriteUnauthorized(w, r, "authentication required")
		return
	}
	c.writeAchievements(w, r, authCtx.UserID)
}

// Get handles GET /achievements/{userId}. A user with no record yet gets a
// fully locked, zero-stat view rather than an error.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || userID <= 0 {
		c.builder.WriteValidationError(w, r, "invalid user id")
		return
	}
	c.writeAchievements(w, r, userID)
}

// Leaderboard handles GET /achievements/leaderboard?department=
func (c *Controller) Leaderboard(w http.ResponseWriter, r *http.Request) {
	var department *string
	if dept := r.URL.Query().Get("department"); dept != "" {
		department = &dept
	}

	entries, err := c.achievements.GetLeaderboard(r.Context(), department)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, entries)
}

func (c *Controller) writeAchievements(w http.ResponseWriter, r *http.Request, userID int64) {
	result, err := c.achievements.GetUserAchievements(r.Context(), userID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, result)
}
