// file: internal/repositories/audit_repository.go
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"sprintdeck/internal/database"
	"sprintdeck/internal/models"

	"go.uber.org/zap"
)

// auditRepository implements AuditRepository on Postgres
type auditRepository struct {
	*BaseRepository
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.Manager, logger *zap.Logger) AuditRepository {
	return &auditRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_entries (id, actor_id, action, entity_type, entity_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.QueryRowContext(
		ctx, query,
		entry.ID, entry.ActorID, entry.Action,
		entry.EntityType, entry.EntityID, metadata,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, entityType *string, params models.PaginationParams) (*models.PaginatedResponse[*models.AuditEntry], error) {
	params.Normalize()

	total, err := r.GetTotalCount(ctx,
		`SELECT COUNT(*) FROM audit_entries WHERE ($1::text IS NULL OR entity_type = $1)`, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `
		SELECT id, actor_id, action, entity_type, entity_id, metadata, created_at
		FROM audit_entries
		WHERE ($1::text IS NULL OR entity_type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.QueryContext(ctx, query, entityType, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		var metadata sql.NullString
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.Action,
			&entry.EntityType, &entry.EntityID, &metadata, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &entry.Metadata); err != nil {
				r.GetLogger().Warn("Skipping malformed audit metadata",
					zap.String("audit_id", entry.ID), zap.Error(err))
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[*models.AuditEntry]{
		Data:       entries,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}
