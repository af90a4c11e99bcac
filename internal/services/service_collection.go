// file: internal/services/service_collection.go
package services

import (
	"sprintdeck/internal/cache"
	"sprintdeck/internal/config"
	"sprintdeck/internal/events"
	"sprintdeck/internal/repositories"

	"go.uber.org/zap"
)

// Collection aggregates all services for dependency injection
type Collection struct {
	Auth        AuthService
	User        UserService
	Project     ProjectService
	Sprint      SprintService
	Backlog     BacklogService
	Task        TaskService
	Achievement AchievementService
	Audit       AuditService
}

// NewCollection wires the full service graph. The achievement service is built
// first so the task, sprint and backlog services can hook into it; the audit
// service subscribes to the bus last so it sees every published event.
func NewCollection(
	repos *repositories.Collection,
	c cache.Cache,
	bus events.EventBus,
	cfg *config.Config,
	logger *zap.Logger,
) *Collection {
	achievement := NewAchievementService(repos.Achievement, repos.Task, c, bus, cfg.Cache.LeaderboardTTL, logger)
	audit := NewAuditService(repos.Audit, logger)
	SubscribeTo(bus, audit, logger)

	return &Collection{
		Auth:        NewAuthService(repos.User, c, bus, cfg.Auth, logger),
		User:        NewUserService(repos.User, logger),
		Project:     NewProjectService(repos.Project, repos.User, bus, logger),
		Sprint:      NewSprintService(repos.Sprint, repos.Project, achievement, bus, logger),
		Backlog:     NewBacklogService(repos.Backlog, repos.Project, achievement, bus, logger),
		Task:        NewTaskService(repos.Task, repos.Sprint, repos.Project, achievement, bus, logger),
		Achievement: achievement,
		Audit:       audit,
	}
}
