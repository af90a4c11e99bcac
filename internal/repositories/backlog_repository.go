// file: internal/repositories/backlog_repository.go
package repositories

import (
	"context"
	"fmt"

	"sprintdeck/internal/database"
	"sprintdeck/internal/models"

	"go.uber.org/zap"
)

// backlogRepository implements BacklogRepository on Postgres
type backlogRepository struct {
	*BaseRepository
}

// NewBacklogRepository creates a new backlog repository
func NewBacklogRepository(db *database.Manager, logger *zap.Logger) BacklogRepository {
	return &backlogRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const backlogColumns = `id, project_id, created_by, title, description, priority, status, created_at, updated_at`

func (r *backlogRepository) Create(ctx context.Context, item *models.BacklogItem) error {
	query := `
		INSERT INTO backlog_items (project_id, created_by, title, description, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		item.ProjectID, item.CreatedBy, item.Title,
		item.Description, item.Priority, item.Status,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create backlog item: %w", err)
	}

	r.GetLogger().Info("Backlog item created",
		zap.Int64("backlog_id", item.ID),
		zap.Int64("created_by", item.CreatedBy),
	)

	return nil
}

func (r *backlogRepository) GetByID(ctx context.Context, id int64) (*models.BacklogItem, error) {
	query := `SELECT ` + backlogColumns + ` FROM backlog_items WHERE id = $1`

	var item models.BacklogItem
	err := r.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.ProjectID, &item.CreatedBy, &item.Title,
		&item.Description, &item.Priority, &item.Status,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get backlog item: %w", err)
	}
	return &item, nil
}

func (r *backlogRepository) Update(ctx context.Context, item *models.BacklogItem) error {
	query := `
		UPDATE backlog_items SET
			title = $1, description = $2, priority = $3, status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		item.Title, item.Description, item.Priority, item.Status, item.ID,
	).Scan(&item.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update backlog item: %w", err)
	}
	return nil
}

func (r *backlogRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM backlog_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete backlog item: %w", err)
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

func (r *backlogRepository) ListByProject(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.BacklogItem], error) {
	params.Normalize()

	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*) FROM backlog_items WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count backlog items: %w", err)
	}

	query := `
		SELECT ` + backlogColumns + `
		FROM backlog_items
		WHERE project_id = $1
		ORDER BY
			CASE priority
				WHEN 'critical' THEN 0
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				ELSE 3
			END,
			created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.QueryContext(ctx, query, projectID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list backlog items: %w", err)
	}
	defer rows.Close()

	var items []*models.BacklogItem
	for rows.Next() {
		var item models.BacklogItem
		if err := rows.Scan(
			&item.ID, &item.ProjectID, &item.CreatedBy, &item.Title,
			&item.Description, &item.Priority, &item.Status,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan backlog item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[*models.BacklogItem]{
		Data:       items,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}
