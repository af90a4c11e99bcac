// file: internal/repositories/task_repository.go
package repositories

import (
	"context"
	"fmt"

	"sprintdeck/internal/database"
	"sprintdeck/internal/models"

	"go.uber.org/zap"
)

// taskRepository implements TaskRepository on Postgres
type taskRepository struct {
	*BaseRepository
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.Manager, logger *zap.Logger) TaskRepository {
	return &taskRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const taskColumns = `id, project_id, sprint_id, backlog_id, assignee_id, title, description, status, started_at, completed_at, created_at, updated_at`

func scanTask(scanner interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	err := scanner.Scan(
		&t.ID, &t.ProjectID, &t.SprintID, &t.BacklogID, &t.AssigneeID,
		&t.Title, &t.Description, &t.Status,
		&t.StartedAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (project_id, sprint_id, backlog_id, assignee_id, title, description, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		task.ProjectID, task.SprintID, task.BacklogID, task.AssigneeID,
		task.Title, task.Description, task.Status, task.StartedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	r.GetLogger().Info("Task created",
		zap.Int64("task_id", task.ID),
		zap.Int64("project_id", task.ProjectID),
	)

	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			sprint_id = $1, assignee_id = $2, title = $3, description = $4,
			status = $5, started_at = $6, completed_at = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		task.SprintID, task.AssigneeID, task.Title, task.Description,
		task.Status, task.StartedAt, task.CompletedAt, task.ID,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Task], error) {
	params.Normalize()

	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	tasks, err := r.queryTasks(ctx, query, projectID, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[*models.Task]{
		Data:       tasks,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}

func (r *taskRepository) ListBySprint(ctx context.Context, sprintID int64) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE sprint_id = $1 ORDER BY created_at ASC`
	return r.queryTasks(ctx, query, sprintID)
}

func (r *taskRepository) ListBySprintAndAssignee(ctx context.Context, sprintID, assigneeID int64) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE sprint_id = $1 AND assignee_id = $2 ORDER BY created_at ASC`
	return r.queryTasks(ctx, query, sprintID, assigneeID)
}

func (r *taskRepository) ListCompletedBySprint(ctx context.Context, sprintID int64) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE sprint_id = $1 AND status = 'completed' ORDER BY completed_at ASC`
	return r.queryTasks(ctx, query, sprintID)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
