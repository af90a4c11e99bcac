// file: internal/services/interface.go
package services

import (
	"context"
	"time"

	"sprintdeck/internal/models"
)

// ===============================
// SERVICE INTERFACES
// ===============================

// AuthService handles registration, login and token verification
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	VerifyToken(ctx context.Context, token string) (*TokenClaims, error)
}

// UserService manages user profiles
type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error)
	List(ctx context.Context, filter UserListFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error)
	Deactivate(ctx context.Context, id int64) error
}

// ProjectService manages department-scoped projects
type ProjectService interface {
	Create(ctx context.Context, actorID int64, req CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, actorID, id int64, req UpdateProjectRequest) (*models.Project, error)
	Archive(ctx context.Context, actorID, id int64) error
	List(ctx context.Context, filter ProjectListFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error)
}

// SprintService manages sprints and membership
type SprintService interface {
	Create(ctx context.Context, actorID int64, req CreateSprintRequest) (*models.Sprint, error)
	GetByID(ctx context.Context, id int64) (*models.Sprint, error)
	Update(ctx context.Context, actorID, id int64, req UpdateSprintRequest) (*models.Sprint, error)
	ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Sprint], error)
	Join(ctx context.Context, userID, sprintID int64) error
	// Complete transitions the sprint to completed and runs the finisher and
	// top-performer checks for its members
	Complete(ctx context.Context, actorID, sprintID int64) (*models.Sprint, error)
}

// BacklogService manages backlog items
type BacklogService interface {
	Create(ctx context.Context, actorID int64, req CreateBacklogRequest) (*models.BacklogItem, error)
	GetByID(ctx context.Context, id int64) (*models.BacklogItem, error)
	Update(ctx context.Context, actorID, id int64, req UpdateBacklogRequest) (*models.BacklogItem, error)
	ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.BacklogItem], error)
}

// TaskService manages tasks and their status transitions
type TaskService interface {
	Create(ctx context.Context, actorID int64, req CreateTaskRequest) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, actorID, id int64, req UpdateTaskRequest) (*models.Task, error)
	ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Task], error)
}

// AchievementService is the achievement engine: event handlers mutate per-user
// records and award badges; queries read records and the static catalog.
type AchievementService interface {
	// Event handlers. Each returns the badge ids newly awarded by the call.
	OnTaskCompleted(ctx context.Context, userID int64, sprintID *int64, startedAt *time.Time) ([]string, error)
	OnBacklogCreated(ctx context.Context, userID int64) ([]string, error)
	OnSprintJoined(ctx context.Context, userID, sprintID int64) ([]string, error)
	CheckSprintFinisher(ctx context.Context, userID, sprintID int64) ([]string, error)
	CheckTopPerformer(ctx context.Context, sprintID int64) ([]string, error)

	// Queries. Both tolerate users with no record yet.
	GetUserAchievements(ctx context.Context, userID int64) (*models.UserAchievements, error)
	GetLeaderboard(ctx context.Context, department *string) ([]models.LeaderboardEntry, error)
}

// AuditService records and exposes the audit trail
type AuditService interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, filter AuditListFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.AuditEntry], error)
}

// TokenClaims is the verified identity extracted from a bearer token
type TokenClaims struct {
	UserID     int64
	Username   string
	Email      string
	Role       string
	Department string
	ExpiresAt  time.Time
}
