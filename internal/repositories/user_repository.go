// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"

	"sprintdeck/internal/database"
	"sprintdeck/internal/models"

	"go.uber.org/zap"
)

// userRepository implements UserRepository on Postgres
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const userColumns = `
	id, email, username, password_hash, first_name, last_name,
	department, position, role, is_active, created_at, updated_at, last_seen`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			email, username, password_hash, first_name, last_name,
			department, position, role
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at, updated_at, last_seen`

	err := r.QueryRowContext(
		ctx, query,
		user.Email, user.Username, user.PasswordHash,
		user.FirstName, user.LastName,
		user.Department, user.Position, user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastSeen)

	if err != nil {
		r.GetLogger().Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.GetLogger().Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("department", user.Department),
	)

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1 AND is_active = true`
	return r.scanUser(r.QueryRowContext(ctx, query, id), "get user by ID")
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1 AND is_active = true`
	return r.scanUser(r.QueryRowContext(ctx, query, email), "get user by email")
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE username = $1 AND is_active = true`
	return r.scanUser(r.QueryRowContext(ctx, query, username), "get user by username")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			email = $1, first_name = $2, last_name = $3,
			department = $4, position = $5, role = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		user.Email, user.FirstName, user.LastName,
		user.Department, user.Position, user.Role, user.ID,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *userRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx,
		`UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, department *string, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error) {
	params.Normalize()

	where := `is_active = true`
	args := []interface{}{}
	if department != nil {
		where += ` AND department = $1`
		args = append(args, *department)
	}

	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY username ASC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Username, &user.PasswordHash,
			&user.FirstName, &user.LastName, &user.Department, &user.Position,
			&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[*models.User]{
		Data:       users,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}

func (r *userRepository) UpdateLastSeen(ctx context.Context, id int64) error {
	_, err := r.ExecContext(ctx, `UPDATE users SET last_seen = NOW() WHERE id = $1`, id)
	return err
}

func (r *userRepository) scanUser(row interface {
	Scan(dest ...interface{}) error
}, op string) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Department, &user.Position,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastSeen,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return &user, nil
}
