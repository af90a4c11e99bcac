// file: internal/repositories/collection.go
package repositories

import (
	"sprintdeck/internal/database"

	"go.uber.org/zap"
)

// Collection aggregates all repositories for dependency injection
type Collection struct {
	User        UserRepository
	Project     ProjectRepository
	Sprint      SprintRepository
	Backlog     BacklogRepository
	Task        TaskRepository
	Achievement AchievementRepository
	Audit       AuditRepository
}

// NewCollection wires every repository against the shared database manager
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		User:        NewUserRepository(db, logger),
		Project:     NewProjectRepository(db, logger),
		Sprint:      NewSprintRepository(db, logger),
		Backlog:     NewBacklogRepository(db, logger),
		Task:        NewTaskRepository(db, logger),
		Achievement: NewAchievementRepository(db, logger),
		Audit:       NewAuditRepository(db, logger),
	}
}
