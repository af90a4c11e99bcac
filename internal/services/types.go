// file: internal/services/types.go
package services

import (
	"time"

	"sprintdeck/internal/models"
)

// ===============================
// AUTH DTOs
// ===============================

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Username   string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	FirstName  string `json:"first_name" validate:"required,max=50"`
	LastName   string `json:"last_name" validate:"required,max=50"`
	Department string `json:"department" validate:"required,max=100"`
	Position   string `json:"position" validate:"max=100"`
}

// LoginRequest is the payload for credential login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token and the authenticated user
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// ===============================
// USER DTOs
// ===============================

// UpdateUserRequest updates mutable profile fields; nil means "leave unchanged"
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=100"`
}

// ===============================
// PROJECT DTOs
// ===============================

// CreateProjectRequest is the payload for project creation
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Department  string `json:"department" validate:"required,max=100"`
}

// UpdateProjectRequest updates mutable project fields
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// ===============================
// SPRINT DTOs
// ===============================

// CreateSprintRequest is the payload for sprint creation
type CreateSprintRequest struct {
	ProjectID int64     `json:"project_id" validate:"required,gt=0"`
	Name      string    `json:"name" validate:"required,min=2,max=120"`
	Goal      string    `json:"goal" validate:"max=2000"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// UpdateSprintRequest updates mutable sprint fields
type UpdateSprintRequest struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Goal      *string    `json:"goal,omitempty" validate:"omitempty,max=2000"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=planned active completed"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// ===============================
// BACKLOG DTOs
// ===============================

// CreateBacklogRequest is the payload for backlog item creation
type CreateBacklogRequest struct {
	ProjectID   int64  `json:"project_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high critical"`
}

// UpdateBacklogRequest updates mutable backlog item fields
type UpdateBacklogRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=open scheduled done"`
}

// ===============================
// TASK DTOs
// ===============================

// CreateTaskRequest is the payload for task creation
type CreateTaskRequest struct {
	ProjectID   int64  `json:"project_id" validate:"required,gt=0"`
	SprintID    *int64 `json:"sprint_id,omitempty" validate:"omitempty,gt=0"`
	BacklogID   *int64 `json:"backlog_id,omitempty" validate:"omitempty,gt=0"`
	AssigneeID  *int64 `json:"assignee_id,omitempty" validate:"omitempty,gt=0"`
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=4000"`
}

// UpdateTaskRequest updates mutable task fields, including status transitions
type UpdateTaskRequest struct {
	SprintID    *int64  `json:"sprint_id,omitempty" validate:"omitempty,gt=0"`
	AssigneeID  *int64  `json:"assignee_id,omitempty" validate:"omitempty,gt=0"`
	Title       *string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress completed"`
}

// ===============================
// LIST FILTERS
// ===============================

// UserListFilter narrows user listings
type UserListFilter struct {
	Department *string
}

// ProjectListFilter narrows project listings
type ProjectListFilter struct {
	Department *string
}

// AuditListFilter narrows audit log listings
type AuditListFilter struct {
	EntityType *string
}
