// file: internal/handlers/api/v1/audit/audit_controller.go
package audit

import (
	"net/http"
	"strconv"

	"sprintdeck/internal/models"
	"sprintdeck/internal/response"
	"sprintdeck/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller exposes the audit log to admins
type Controller struct {
	audit   services.AuditService
	builder *response.Builder
	logger  *zap.Logger
}

// NewController creates the audit controller
func NewController(audit services.AuditService, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{audit: audit, builder: builder, logger: logger}
}

// RegisterRoutes mounts the audit endpoints on an admin-only router
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/audit", c.List).Methods(http.MethodGet)
}

// List handles GET /audit?entity_type=&limit=&offset=
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := services.AuditListFilter{}
	if et := q.Get("entity_type"); et != "" {
		filter.EntityType = &et
	}

	params := models.PaginationParams{}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		params.Offset = offset
	}
	params.Normalize()

	result, err := c.audit.List(r.Context(), filter, params)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, result)
}
