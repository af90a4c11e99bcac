// file: internal/services/task_service.go
package services

import (
	"context"
	"strconv"
	"time"

	"sprintdeck/internal/events"
	"sprintdeck/internal/models"
	"sprintdeck/internal/repositories"
	"sprintdeck/internal/validation"

	"go.uber.org/zap"
)

// taskService implements TaskService. The status transition to completed is
// the single source of task-completion achievement events: it fires once per
// actual transition, never on re-saves of an already completed task.
type taskService struct {
	tasks        repositories.TaskRepository
	sprints      repositories.SprintRepository
	projects     repositories.ProjectRepository
	achievements AchievementService
	bus          events.EventBus
	logger       *zap.Logger
	now          func() time.Time
}

// NewTaskService creates the task service
func NewTaskService(
	tasks repositories.TaskRepository,
	sprints repositories.SprintRepository,
	projects repositories.ProjectRepository,
	achievements AchievementService,
	bus events.EventBus,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		tasks:        tasks,
		sprints:      sprints,
		projects:     projects,
		achievements: achievements,
		bus:          bus,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, actorID int64, req CreateTaskRequest) (*models.Task, error) {
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
		return nil, NewBusinessError("cannot add tasks to an archived project", "PROJECT_ARCHIVED")
	}

	if req.SprintID != nil {
		sprint, err := s.sprints.GetByID(ctx, *req.SprintID)
		if err != nil {
			return nil, NewInternalError("failed to load sprint", err)
		}
		if sprint == nil {
			return nil, EntityNotFoundError("sprint", *req.SprintID)
		}
		if sprint.ProjectID != req.ProjectID {
			return nil, NewValidationError("sprint belongs to a different project", nil)
		}
		if sprint.Status == models.SprintStatusCompleted {
			return nil, NewBusinessError("cannot add tasks to a completed sprint", "SPRINT_COMPLETED")
		}
	}

	task := &models.Task{
		ProjectID:  req.ProjectID,
		SprintID:   req.SprintID,
		BacklogID:  req.BacklogID,
		AssigneeID: req.AssigneeID,
		Title:      req.Title,
		Status:     models.TaskStatusTodo,
	}
	if req.Description != "" {
		task.Description = &req.Description
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, NewInternalError("failed to create task", err)
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeTaskCreated, actorID, "task", strconv.FormatInt(task.ID, 10), map[string]interface{}{
		"project_id": task.ProjectID,
	}))
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load task", err)
	}
	if task == nil {
		return nil, EntityNotFoundError("task", id)
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, actorID, id int64, req UpdateTaskRequest) (*models.Task, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := task.IsCompleted()

	if req.SprintID != nil {
		task.SprintID = req.SprintID
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		s.applyStatusTransition(task, *req.Status)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewInternalError("failed to update task", err)
	}

	eventType := events.TypeTaskUpdated
	justCompleted := task.IsCompleted() && !wasCompleted
	if justCompleted {
		eventType = events.TypeTaskCompleted
	}
	s.bus.Publish(ctx, events.NewEntityEvent(eventType, actorID, "task", strconv.FormatInt(id, 10), map[string]interface{}{
		"status": task.Status,
	}))

	if justCompleted && task.AssigneeID != nil {
		if _, err := s.achievements.OnTaskCompleted(ctx, *task.AssigneeID, task.SprintID, task.StartedAt); err != nil {
			s.logger.Error("Achievement update failed for task completion",
				zap.Int64("user_id", *task.AssigneeID),
				zap.Int64("task_id", task.ID),
				zap.Error(err),
			)
		}
	}

	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Task], error) {
	result, err := s.tasks.ListByProject(ctx, projectID, params)
	if err != nil {
		return nil, NewInternalError("failed to list tasks", err)
	}
	return result, nil
}

func (s *taskService) applyStatusTransition(task *models.Task, status string) {
	if task.Status == status {
		return
	}
	now := s.now()

	switch status {
	case models.TaskStatusInProgress:
		if task.StartedAt == nil {
			task.StartedAt = &now
		}
		task.CompletedAt = nil
	case models.TaskStatusCompleted:
		if task.StartedAt == nil {
			task.StartedAt = &now
		}
		task.CompletedAt = &now
	case models.TaskStatusTodo:
		task.CompletedAt = nil
	}
	task.Status = status
}
