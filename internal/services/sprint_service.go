// file: internal/services/sprint_service.go
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

// sprintService implements SprintService. Achievement hooks run best-effort:
// a failed achievement write never fails the sprint mutation that triggered it.
type sprintService struct {
	sprints      repositories.SprintRepository
	projects     repositories.ProjectRepository
	achievements AchievementService
	bus          events.EventBus
	logger       *zap.Logger
}

// NewSprintService creates the sprint service
func NewSprintService(
	sprints repositories.SprintRepository,
	projects repositories.ProjectRepository,
	achievements AchievementService,
	bus events.EventBus,
	logger *zap.Logger,
) SprintService {
	return &sprintService{
		sprints:      sprints,
		projects:     projects,
		achievements: achievements,
		bus:          bus,
		logger:       logger,
	}
}

func (s *sprintService) Create(ctx context.Context, actorID int64, req CreateSprintRequest) (*models.Sprint, error) {
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
		return nil, NewBusinessError("cannot create sprints in an archived project", "PROJECT_ARCHIVED")
	}

	sprint := &models.Sprint{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Status:    models.SprintStatusPlanned,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Goal != "" {
		sprint.Goal = &req.Goal
	}

	if err := s.sprints.Create(ctx, sprint); err != nil {
		return nil, NewInternalError("failed to create sprint", err)
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeSprintCreated, actorID, "sprint", strconv.FormatInt(sprint.ID, 10), map[string]interface{}{
		"project_id": sprint.ProjectID,
	}))
	return sprint, nil
}

func (s *sprintService) GetByID(ctx context.Context, id int64) (*models.Sprint, error) {
	sprint, err := s.sprints.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load sprint", err)
	}
	if sprint == nil {
		return nil, EntityNotFoundError("sprint", id)
	}
	return sprint, nil
}

func (s *sprintService) Update(ctx context.Context, actorID, id int64, req UpdateSprintRequest) (*models.Sprint, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}
	if req.Status != nil && *req.Status == models.SprintStatusCompleted {
		return nil, NewBusinessError("use the complete endpoint to finish a sprint", "USE_COMPLETE_ENDPOINT")
	}

	sprint, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sprint.Status == models.SprintStatusCompleted {
		return nil, NewBusinessError("completed sprints cannot be updated", "SPRINT_COMPLETED")
	}

	if req.Name != nil {
		sprint.Name = *req.Name
	}
	if req.Goal != nil {
		sprint.Goal = req.Goal
	}
	if req.Status != nil {
		sprint.Status = *req.Status
	}
	if req.StartDate != nil {
		sprint.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		sprint.EndDate = *req.EndDate
	}
	if !sprint.EndDate.After(sprint.StartDate) {
		return nil, NewValidationError("end_date must be after start_date", nil)
	}

	if err := s.sprints.Update(ctx, sprint); err != nil {
		return nil, NewInternalError("failed to update sprint", err)
	}
	return sprint, nil
}

func (s *sprintService) ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Sprint], error) {
	result, err := s.sprints.ListByProject(ctx, projectID, params)
	if err != nil {
		return nil, NewInternalError("failed to list sprints", err)
	}
	return result, nil
}

func (s *sprintService) Join(ctx context.Context, userID, sprintID int64) error {
	sprint, err := s.GetByID(ctx, sprintID)
	if err != nil {
		return err
	}
	if sprint.Status == models.SprintStatusCompleted {
		return NewBusinessError("cannot join a completed sprint", "SPRINT_COMPLETED")
	}

	added, err := s.sprints.AddMember(ctx, sprintID, userID)
	if err != nil {
		return NewInternalError("failed to join sprint", err)
	}
	if !added {
		// already a member, joining again is a no-op
		return nil
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeSprintJoined, userID, "sprint", strconv.FormatInt(sprintID, 10), nil))

	if _, err := s.achievements.OnSprintJoined(ctx, userID, sprintID); err != nil {
		s.logger.Error("Achievement update failed for sprint join",
			zap.Int64("user_id", userID),
			zap.Int64("sprint_id", sprintID),
			zap.Error(err),
		)
	}
	return nil
}

func (s *sprintService) Complete(ctx context.Context, actorID, sprintID int64) (*models.Sprint, error) {
	sprint, err := s.GetByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sprint.Status == models.SprintStatusCompleted {
		return nil, NewBusinessError("sprint is already completed", "SPRINT_COMPLETED")
	}

	sprint.Status = models.SprintStatusCompleted
	if err := s.sprints.Update(ctx, sprint); err != nil {
		return nil, NewInternalError("failed to complete sprint", err)
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeSprintCompleted, actorID, "sprint", strconv.FormatInt(sprintID, 10), nil))

	// Finisher and top-performer checks run once, on completion, against a
	// point-in-time snapshot of the sprint's tasks.
	for _, memberID := range sprint.MemberIDs {
		if _, err := s.achievements.CheckSprintFinisher(ctx, memberID, sprintID); err != nil {
			s.logger.Error("Sprint finisher check failed",
				zap.Int64("user_id", memberID),
				zap.Int64("sprint_id", sprintID),
				zap.Error(err),
			)
		}
	}
	if _, err := s.achievements.CheckTopPerformer(ctx, sprintID); err != nil {
		s.logger.Error("Top performer check failed",
			zap.Int64("sprint_id", sprintID),
			zap.Error(err),
		)
	}

	return sprint, nil
}
