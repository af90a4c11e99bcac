// file: internal/services/backlog_service.go
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

// backlogService implements BacklogService
type backlogService struct {
	backlogs     repositories.BacklogRepository
	projects     repositories.ProjectRepository
	achievements AchievementService
	bus          events.EventBus
	logger       *zap.Logger
}

// NewBacklogService creates the backlog service
func NewBacklogService(
	backlogs repositories.BacklogRepository,
	projects repositories.ProjectRepository,
	achievements AchievementService,
	bus events.EventBus,
	logger *zap.Logger,
) BacklogService {
	return &backlogService{
		backlogs:     backlogs,
		projects:     projects,
		achievements: achievements,
		bus:          bus,
		logger:       logger,
	}
}

func (s *backlogService) Create(ctx context.Context, actorID int64, req CreateBacklogRequest) (*models.BacklogItem, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	project, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, NewInternalError("failed to load project", err)
	}
	if project == nil {
		return nil, EntityNotFoundError("project", req.ProjectID)
	}
	if project.Status == models.ProjectStatusArchived {
		return nil, NewBusinessError("cannot add backlog items to an archived project", "PROJECT_ARCHIVED")
	}

	item := &models.BacklogItem{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Priority:  req.Priority,
		Status:    models.BacklogStatusOpen,
		CreatedBy: actorID,
	}
	if req.Description != "" {
		item.Description = &req.Description
	}

	if err := s.backlogs.Create(ctx, item); err != nil {
		return nil, NewInternalError("failed to create backlog item", err)
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeBacklogCreated, actorID, "backlog_item", strconv.FormatInt(item.ID, 10), map[string]interface{}{
		"project_id": item.ProjectID,
		"priority":   item.Priority,
	}))

	if _, err := s.achievements.OnBacklogCreated(ctx, actorID); err != nil {
		s.logger.Error("Achievement update failed for backlog creation",
			zap.Int64("user_id", actorID),
			zap.Int64("backlog_id", item.ID),
			zap.Error(err),
		)
	}

	return item, nil
}

func (s *backlogService) GetByID(ctx context.Context, id int64) (*models.BacklogItem, error) {
	item, err := s.backlogs.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load backlog item", err)
	}
	if item == nil {
		return nil, EntityNotFoundError("backlog item", id)
	}
	return item, nil
}

func (s *backlogService) Update(ctx context.Context, actorID, id int64, req UpdateBacklogRequest) (*models.BacklogItem, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.Status != nil {
		item.Status = *req.Status
	}

	if err := s.backlogs.Update(ctx, item); err != nil {
		return nil, NewInternalError("failed to update backlog item", err)
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeBacklogUpdated, actorID, "backlog_item", strconv.FormatInt(id, 10), nil))
	return item, nil
}

func (s *backlogService) ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.BacklogItem], error) {
	result, err := s.backlogs.ListByProject(ctx, projectID, params)
	if err != nil {
		return nil, NewInternalError("failed to list backlog items", err)
	}
	return result, nil
}
