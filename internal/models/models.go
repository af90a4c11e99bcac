// file: internal/models/models.go
package models

import (
	"strings"
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// User represents a tracker user scoped to a department
type User struct {
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email" validate:"required,email,max=320"`
	Username string `json:"username" db:"username" validate:"required,min=3,max=50,alphanum"`

	// Authentication
	PasswordHash string `json:"-" db:"password_hash"`
	IsActive     bool   `json:"is_active" db:"is_active"`

	// Profile information
	FirstName  string `json:"first_name" db:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" db:"last_name" validate:"required,max=100"`
	Department string `json:"department" db:"department" validate:"required,max=100"`
	Position   string `json:"position" db:"position" validate:"omitempty,max=150"`

	// System fields
	Role string `json:"role" db:"role" validate:"required,oneof=member manager admin"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	LastSeen  time.Time `json:"last_seen" db:"last_seen"`
}

// FullName returns the display name used on boards and leaderboards
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManage reports whether the user can manage resources of the given department
func (u *User) CanManage(department string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleManager && u.Department == department
}

// User roles
const (
	RoleMember  = "member"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Project represents a department-scoped project
type Project struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name" validate:"required,max=200"`
	Description *string `json:"description,omitempty" db:"description" validate:"omitempty,max=2000"`
	Department  string  `json:"department" db:"department" validate:"required,max=100"`
	OwnerID     int64   `json:"owner_id" db:"owner_id"`
	Status      string  `json:"status" db:"status" validate:"required,oneof=active archived"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Computed fields (not in DB)
	SprintCount  int `json:"sprint_count,omitempty" db:"-"`
	BacklogCount int `json:"backlog_count,omitempty" db:"-"`
}

// Project statuses
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// Sprint represents a time-boxed iteration within a project
type Sprint struct {
	ID        int64   `json:"id" db:"id"`
	ProjectID int64   `json:"project_id" db:"project_id" validate:"required"`
	Name      string  `json:"name" db:"name" validate:"required,max=200"`
	Goal      *string `json:"goal,omitempty" db:"goal" validate:"omitempty,max=1000"`
	Status    string  `json:"status" db:"status" validate:"required,oneof=planned active completed"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Computed fields (not in DB)
	MemberIDs   []int64 `json:"member_ids,omitempty" db:"-"`
	TaskCount   int     `json:"task_count,omitempty" db:"-"`
	DoneCount   int     `json:"done_count,omitempty" db:"-"`
	Department  string  `json:"department,omitempty" db:"-"`
	ProjectName string  `json:"project_name,omitempty" db:"-"`
}

// Sprint statuses
const (
	SprintStatusPlanned   = "planned"
	SprintStatusActive    = "active"
	SprintStatusCompleted = "completed"
)

// BacklogItem represents an unscheduled unit of work in a project backlog
type BacklogItem struct {
	ID          int64   `json:"id" db:"id"`
	ProjectID   int64   `json:"project_id" db:"project_id" validate:"required"`
	Title       string  `json:"title" db:"title" validate:"required,max=300"`
	Description *string `json:"description,omitempty" db:"description" validate:"omitempty,max=5000"`
	Priority    string  `json:"priority" db:"priority" validate:"required,oneof=low medium high critical"`
	Status      string  `json:"status" db:"status" validate:"required,oneof=open scheduled done"`
	CreatedBy   int64   `json:"created_by" db:"created_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Backlog priorities and statuses
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"

	BacklogStatusOpen      = "open"
	BacklogStatusScheduled = "scheduled"
	BacklogStatusDone      = "done"
)

// Task represents an assignable unit of work, optionally scheduled into a sprint
type Task struct {
	ID          int64   `json:"id" db:"id"`
	SprintID    *int64  `json:"sprint_id,omitempty" db:"sprint_id"`
	BacklogID   *int64  `json:"backlog_id,omitempty" db:"backlog_id"`
	ProjectID   int64   `json:"project_id" db:"project_id" validate:"required"`
	Title       string  `json:"title" db:"title" validate:"required,max=300"`
	Description *string `json:"description,omitempty" db:"description" validate:"omitempty,max=5000"`
	AssigneeID  *int64  `json:"assignee_id,omitempty" db:"assignee_id"`
	Status      string  `json:"status" db:"status" validate:"required,oneof=todo in_progress completed"`

	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Task statuses
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// IsCompleted checks whether the task reached its terminal status
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// AuditEntry records a single mutation performed through the API
type AuditEntry struct {
	ID         string         `json:"id" db:"id"`
	ActorID    *int64         `json:"actor_id,omitempty" db:"actor_id"`
	Action     string         `json:"action" db:"action"`
	EntityType string         `json:"entity_type" db:"entity_type"`
	EntityID   string         `json:"entity_id" db:"entity_id"`
	Metadata   map[string]any `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// ===============================
// PAGINATION
// ===============================

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Limit  int    `json:"limit" validate:"min=0,max=100"`
	Offset int    `json:"offset" validate:"min=0"`
	Sort   string `json:"sort,omitempty" validate:"omitempty,oneof=created_at updated_at name title"`
	Order  string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Normalize applies defaults and clamps limits
func (p *PaginationParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Sort == "" {
		p.Sort = "created_at"
	}
	if p.Order == "" {
		p.Order = "desc"
	}
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
	Filters    map[string]any `json:"filters,omitempty"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}
