// file: internal/repositories/base_repository.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sprintdeck/internal/database"
	"sprintdeck/internal/models"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// BaseRepository provides common database operations shared by all repositories
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{db: db, logger: logger}
}

// ExecContext executes a statement through the managed pool
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// WithTransaction executes a function within a database transaction
func (r *BaseRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to rollback transaction", zap.Error(rbErr), zap.NamedError("cause", err))
		}
		return err
	}

	return tx.Commit()
}

// GetTotalCount executes a count query
func (r *BaseRepository) GetTotalCount(ctx context.Context, countQuery string, args ...interface{}) (int64, error) {
	var total int64
	err := r.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	return total, err
}

// BuildPaginationMeta creates pagination metadata from normalized params
func (r *BaseRepository) BuildPaginationMeta(params models.PaginationParams, total int64) models.PaginationMeta {
	currentPage := params.Offset/params.Limit + 1
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	return models.PaginationMeta{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: params.Limit,
		HasNext:      int64(params.Offset+params.Limit) < total,
		HasPrev:      params.Offset > 0,
	}
}

// IsNotFound checks if error is a "not found" error
func (r *BaseRepository) IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// GetDB returns the underlying database manager for advanced operations
func (r *BaseRepository) GetDB() *database.Manager {
	return r.db
}

// GetLogger returns the logger instance
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}
