// file: internal/services/project_service.go
package services

import (
	"context"
	"strconv"

	"sprintdeck/internal/events"
	"sprintdeck/internal/models"
	"sprintdeck/internal/repositories"
	"sprintdeck/internal/validation"

	"go.uber.org/zap"
)

// projectService implements ProjectService. Writes require manage rights over
// the project's department.
type projectService struct {
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	bus      events.EventBus
	logger   *zap.Logger
}

// NewProjectService creates the project service
func NewProjectService(projects repositories.ProjectRepository, users repositories.UserRepository, bus events.EventBus, logger *zap.Logger) ProjectService {
	return &projectService{projects: projects, users: users, bus: bus, logger: logger}
}

func (s *projectService) Create(ctx context.Context, actorID int64, req CreateProjectRequest) (*models.Project, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(req.Department) {
		return nil, InsufficientPermissionsError("create", "project")
	}

	project := &models.Project{
		Name:       req.Name,
		Department: req.Department,
		OwnerID:    actorID,
		Status:     models.ProjectStatusActive,
	}
	if req.Description != "" {
		project.Description = &req.Description
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, NewInternalError("failed to create project", err)
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeProjectCreated, actorID, "project", strconv.FormatInt(project.ID, 10), map[string]interface{}{
		"department": project.Department,
	}))
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load project", err)
	}
	if project == nil {
		return nil, EntityNotFoundError("project", id)
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, actorID, id int64, req UpdateProjectRequest) (*models.Project, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(ctx, actorID, project.Department); err != nil {
		return nil, err
	}
	if project.Status == models.ProjectStatusArchived {
		return nil, NewBusinessError("archived projects cannot be updated", "PROJECT_ARCHIVED")
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, NewInternalError("failed to update project", err)
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeProjectUpdated, actorID, "project", strconv.FormatInt(id, 10), nil))
	return project, nil
}

func (s *projectService) Archive(ctx context.Context, actorID, id int64) error {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireManage(ctx, actorID, project.Department); err != nil {
		return err
	}

	if err := s.projects.Archive(ctx, id); err != nil {
		if err == repositories.ErrNotFound {
			return NewBusinessError("project is already archived", "PROJECT_ARCHIVED")
		}
		return NewInternalError("failed to archive project", err)
	}

	s.logger.Info("Project archived", zap.Int64("project_id", id), zap.Int64("actor_id", actorID))
	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeProjectUpdated, actorID, "project", strconv.FormatInt(id, 10), map[string]interface{}{
		"status": models.ProjectStatusArchived,
	}))
	return nil
}

func (s *projectService) List(ctx context.Context, filter ProjectListFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	result, err := s.projects.List(ctx, filter.Department, params)
	if err != nil {
		return nil, NewInternalError("failed to list projects", err)
	}
	return result, nil
}

func (s *projectService) loadActor(ctx context.Context, actorID int64) (*models.User, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, NewInternalError("failed to load actor", err)
	}
	if actor == nil || !actor.IsActive {
		return nil, NewUnauthorizedError("unknown or inactive actor")
	}
	return actor, nil
}

func (s *projectService) requireManage(ctx context.Context, actorID int64, department string) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.CanManage(department) {
		return InsufficientPermissionsError("manage", "project")
	}
	return nil
}
