// file: internal/repositories/project_repository.go
package repositories

import (
	"context"
	"fmt"

	"sprintdeck/internal/database"
	"sprintdeck/internal/models"

	"go.uber.org/zap"
)

// projectRepository implements ProjectRepository on Postgres
type projectRepository struct {
	*BaseRepository
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.Manager, logger *zap.Logger) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (name, description, department, owner_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		project.Name, project.Description, project.Department,
		project.OwnerID, project.Status,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	r.GetLogger().Info("Project created",
		zap.Int64("project_id", project.ID),
		zap.String("department", project.Department),
	)

	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := `
		SELECT
			p.id, p.name, p.description, p.department, p.owner_id, p.status,
			p.created_at, p.updated_at,
			(SELECT COUNT(*) FROM sprints s WHERE s.project_id = p.id) AS sprint_count,
			(SELECT COUNT(*) FROM backlog_items b WHERE b.project_id = p.id) AS backlog_count
		FROM projects p
		WHERE p.id = $1`

	var project models.Project
	err := r.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Name, &project.Description, &project.Department,
		&project.OwnerID, &project.Status, &project.CreatedAt, &project.UpdatedAt,
		&project.SprintCount, &project.BacklogCount,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects SET
			name = $1, description = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		project.Name, project.Description, project.Status, project.ID,
	).Scan(&project.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

func (r *projectRepository) Archive(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx,
		`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2 AND status != $1`,
		models.ProjectStatusArchived, id)
	if err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepository) List(ctx context.Context, department *string, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	params.Normalize()

	where := `1=1`
	args := []interface{}{}
	if department != nil {
		where = `department = $1`
		args = append(args, *department)
	}

	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*) FROM projects WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, department, owner_id, status, created_at, updated_at
		FROM projects WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Department,
			&p.OwnerID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[*models.Project]{
		Data:       projects,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}
