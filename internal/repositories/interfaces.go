// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"sprintdeck/internal/models"
)

// UserRepository defines user persistence operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context, department *string, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error)
	UpdateLastSeen(ctx context.Context, id int64) error
}

// ProjectRepository defines project persistence operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Archive(ctx context.Context, id int64) error
	List(ctx context.Context, department *string, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error)
}

// SprintRepository defines sprint persistence operations
type SprintRepository interface {
	Create(ctx context.Context, sprint *models.Sprint) error
	GetByID(ctx context.Context, id int64) (*models.Sprint, error)
	Update(ctx context.Context, sprint *models.Sprint) error
	ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Sprint], error)

	// AddMember returns false when the user is already a sprint member
	AddMember(ctx context.Context, sprintID, userID int64) (bool, error)
	ListMembers(ctx context.Context, sprintID int64) ([]int64, error)
	IsMember(ctx context.Context, sprintID, userID int64) (bool, error)
}

// BacklogRepository defines backlog item persistence operations
type BacklogRepository interface {
	Create(ctx context.Context, item *models.BacklogItem) error
	GetByID(ctx context.Context, id int64) (*models.BacklogItem, error)
	Update(ctx context.Context, item *models.BacklogItem) error
	Delete(ctx context.Context, id int64) error
	ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.BacklogItem], error)
}

// TaskRepository defines task persistence operations
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Task], error)
	ListBySprint(ctx context.Context, sprintID int64) ([]*models.Task, error)
	ListBySprintAndAssignee(ctx context.Context, sprintID, assigneeID int64) ([]*models.Task, error)
	ListCompletedBySprint(ctx context.Context, sprintID int64) ([]*models.Task, error)
}

// AchievementRepository defines persistence for per-user achievement records
type AchievementRepository interface {
	// GetOrCreate returns the user's record, creating it with zeroed stats and
	// an identity snapshot read from the users table when absent. Concurrent
	// creation for the same user never produces two records.
	GetOrCreate(ctx context.Context, userID int64) (*models.AchievementRecord, error)

	// GetByUserID returns nil, nil when no record exists
	GetByUserID(ctx context.Context, userID int64) (*models.AchievementRecord, error)

	// Save persists the record's stats under optimistic concurrency;
	// returns ErrVersionConflict when the stored version moved on
	Save(ctx context.Context, record *models.AchievementRecord) error

	// AddBadge inserts an earned badge; returns false when already earned
	AddBadge(ctx context.Context, userID int64, badgeID string, earnedAt time.Time) (bool, error)

	// ListTop returns records ordered by badge count desc, tasks completed desc,
	// optionally filtered by department, with earned badges populated
	ListTop(ctx context.Context, department *string, limit int) ([]*models.AchievementRecord, error)

	// SyncIdentitySnapshots refreshes denormalized identity fields from the
	// users table; used by the backfill utility only
	SyncIdentitySnapshots(ctx context.Context) (int64, error)

	// RecountTaskStats rebuilds tasks_completed from task history; backfill only
	RecountTaskStats(ctx context.Context) (int64, error)
}

// AuditRepository defines audit log persistence operations
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, entityType *string, params models.PaginationParams) (*models.PaginatedResponse[*models.AuditEntry], error)
}
