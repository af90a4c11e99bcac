// file: internal/repositories/sprint_repository.go
package repositories

import (
	"context"
	"fmt"

	"sprintdeck/internal/database"
	"sprintdeck/internal/models"

	"go.uber.org/zap"
)

// sprintRepository implements SprintRepository on Postgres
type sprintRepository struct {
	*BaseRepository
}

// NewSprintRepository creates a new sprint repository
func NewSprintRepository(db *database.Manager, logger *zap.Logger) SprintRepository {
	return &sprintRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *sprintRepository) Create(ctx context.Context, sprint *models.Sprint) error {
	query := `
		INSERT INTO sprints (project_id, name, goal, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		sprint.ProjectID, sprint.Name, sprint.Goal,
		sprint.Status, sprint.StartDate, sprint.EndDate,
	).Scan(&sprint.ID, &sprint.CreatedAt, &sprint.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", err)
	}

	r.GetLogger().Info("Sprint created",
		zap.Int64("sprint_id", sprint.ID),
		zap.Int64("project_id", sprint.ProjectID),
	)

	return nil
}

func (r *sprintRepository) GetByID(ctx context.Context, id int64) (*models.Sprint, error) {
	query := `
		SELECT
			s.id, s.project_id, s.name, s.goal, s.status,
			s.start_date, s.end_date, s.created_at, s.updated_at,
			p.department, p.name,
			(SELECT COUNT(*) FROM tasks t WHERE t.sprint_id = s.id) AS task_count,
			(SELECT COUNT(*) FROM tasks t WHERE t.sprint_id = s.id AND t.status = 'completed') AS done_count
		FROM sprints s
		JOIN projects p ON p.id = s.project_id
		WHERE s.id = $1`

	var sprint models.Sprint
	err := r.QueryRowContext(ctx, query, id).Scan(
		&sprint.ID, &sprint.ProjectID, &sprint.Name, &sprint.Goal, &sprint.Status,
		&sprint.StartDate, &sprint.EndDate, &sprint.CreatedAt, &sprint.UpdatedAt,
		&sprint.Department, &sprint.ProjectName,
		&sprint.TaskCount, &sprint.DoneCount,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sprint: %w", err)
	}

	members, err := r.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	sprint.MemberIDs = members

	return &sprint, nil
}

func (r *sprintRepository) Update(ctx context.Context, sprint *models.Sprint) error {
	query := `
		UPDATE sprints SET
			name = $1, goal = $2, status = $3,
			start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		sprint.Name, sprint.Goal, sprint.Status,
		sprint.StartDate, sprint.EndDate, sprint.ID,
	).Scan(&sprint.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update sprint: %w", err)
	}

	return nil
}

func (r *sprintRepository) ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Sprint], error) {
	params.Normalize()

	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*) FROM sprints WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sprints: %w", err)
	}

	query := `
		SELECT id, project_id, name, goal, status, start_date, end_date, created_at, updated_at
		FROM sprints
		WHERE project_id = $1
		ORDER BY start_date DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.QueryContext(ctx, query, projectID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	defer rows.Close()

	var sprints []*models.Sprint
	for rows.Next() {
		var s models.Sprint
		if err := rows.Scan(
			&s.ID, &s.ProjectID, &s.Name, &s.Goal, &s.Status,
			&s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		sprints = append(sprints, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[*models.Sprint]{
		Data:       sprints,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}

func (r *sprintRepository) AddMember(ctx context.Context, sprintID, userID int64) (bool, error) {
	result, err := r.ExecContext(ctx, `
		INSERT INTO sprint_members (sprint_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (sprint_id, user_id) DO NOTHING`, sprintID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add sprint member: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *sprintRepository) ListMembers(ctx context.Context, sprintID int64) ([]int64, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT user_id FROM sprint_members WHERE sprint_id = $1 ORDER BY joined_at ASC`, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprint members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *sprintRepository) IsMember(ctx context.Context, sprintID, userID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sprint_members WHERE sprint_id = $1 AND user_id = $2)`,
		sprintID, userID).Scan(&exists)
	return exists, err
}
