// file: internal/repositories/achievement_repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sprintdeck/internal/database"
	"sprintdeck/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrVersionConflict signals that an optimistic save raced a concurrent writer
var ErrVersionConflict = errors.New("achievement record version conflict")

// achievementRepository implements AchievementRepository on Postgres
type achievementRepository struct {
	*BaseRepository
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *database.Manager, logger *zap.Logger) AchievementRepository {
	return &achievementRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const achievementColumns = `
	user_id, name, department, position,
	tasks_completed, backlogs_created, sprints_joined, sprints_with_completions,
	current_streak, longest_streak, last_task_completed_at, last_active_at,
	speed_demon_count, sprint_finisher_count, top_performer_count,
	version, created_at, updated_at`

func scanAchievementRecord(scanner interface{ Scan(...any) error }) (*models.AchievementRecord, error) {
	var rec models.AchievementRecord
	var sprintsJoined, sprintsWithCompletions pq.Int64Array

	err := scanner.Scan(
		&rec.UserID, &rec.Name, &rec.Department, &rec.Position,
		&rec.Stats.TasksCompleted, &rec.Stats.BacklogsCreated,
		&sprintsJoined, &sprintsWithCompletions,
		&rec.Stats.CurrentStreak, &rec.Stats.LongestStreak,
		&rec.Stats.LastTaskCompletedAt, &rec.Stats.LastActiveAt,
		&rec.Stats.SpeedDemonCount, &rec.Stats.SprintFinisherCount, &rec.Stats.TopPerformerCount,
		&rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Stats.SprintsJoined = []int64(sprintsJoined)
	rec.Stats.SprintsWithCompletions = []int64(sprintsWithCompletions)
	return &rec, nil
}

func (r *achievementRepository) GetOrCreate(ctx context.Context, userID int64) (*models.AchievementRecord, error) {
	// Seed the record from the user's current identity. ON CONFLICT makes
	// concurrent first-touch for the same user converge on a single row.
	insert := `
		INSERT INTO achievement_records (user_id, name, department, position)
		SELECT id, TRIM(first_name || ' ' || last_name), department, position
		FROM users
		WHERE id = $1
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.ExecContext(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to seed achievement record: %w", err)
	}

	rec, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		// No row even after the insert: the user itself does not exist
		return nil, ErrNotFound
	}
	return rec, nil
}

func (r *achievementRepository) GetByUserID(ctx context.Context, userID int64) (*models.AchievementRecord, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievement_records WHERE user_id = $1`

	rec, err := scanAchievementRecord(r.QueryRowContext(ctx, query, userID))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get achievement record: %w", err)
	}

	badges, err := r.listBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec.EarnedBadges = badges

	return rec, nil
}

func (r *achievementRepository) Save(ctx context.Context, record *models.AchievementRecord) error {
	query := `
		UPDATE achievement_records SET
			tasks_completed = $1, backlogs_created = $2,
			sprints_joined = $3, sprints_with_completions = $4,
			current_streak = $5, longest_streak = $6,
			last_task_completed_at = $7, last_active_at = $8,
			speed_demon_count = $9, sprint_finisher_count = $10, top_performer_count = $11,
			version = version + 1, updated_at = NOW()
		WHERE user_id = $12 AND version = $13
		RETURNING version, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		record.Stats.TasksCompleted, record.Stats.BacklogsCreated,
		pq.Array(record.Stats.SprintsJoined), pq.Array(record.Stats.SprintsWithCompletions),
		record.Stats.CurrentStreak, record.Stats.LongestStreak,
		record.Stats.LastTaskCompletedAt, record.Stats.LastActiveAt,
		record.Stats.SpeedDemonCount, record.Stats.SprintFinisherCount, record.Stats.TopPerformerCount,
		record.UserID, record.Version,
	).Scan(&record.Version, &record.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return ErrVersionConflict
		}
		return fmt.Errorf("failed to save achievement record: %w", err)
	}
	return nil
}

func (r *achievementRepository) AddBadge(ctx context.Context, userID int64, badgeID string, earnedAt time.Time) (bool, error) {
	result, err := r.ExecContext(ctx, `
		INSERT INTO user_badges (user_id, badge_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING`, userID, badgeID, earnedAt)
	if err != nil {
		return false, fmt.Errorf("failed to add badge: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *achievementRepository) ListTop(ctx context.Context, department *string, limit int) ([]*models.AchievementRecord, error) {
	query := `
		SELECT ` + achievementColumns + `,
			(SELECT COUNT(*) FROM user_badges b WHERE b.user_id = achievement_records.user_id) AS badge_count
		FROM achievement_records
		WHERE ($1::text IS NULL OR department = $1)
		ORDER BY badge_count DESC, tasks_completed DESC, user_id ASC
		LIMIT $2`

	rows, err := r.QueryContext(ctx, query, department, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top achievers: %w", err)
	}
	defer rows.Close()

	var records []*models.AchievementRecord
	for rows.Next() {
		var rec models.AchievementRecord
		var sprintsJoined, sprintsWithCompletions pq.Int64Array
		var badgeCount int

		if err := rows.Scan(
			&rec.UserID, &rec.Name, &rec.Department, &rec.Position,
			&rec.Stats.TasksCompleted, &rec.Stats.BacklogsCreated,
			&sprintsJoined, &sprintsWithCompletions,
			&rec.Stats.CurrentStreak, &rec.Stats.LongestStreak,
			&rec.Stats.LastTaskCompletedAt, &rec.Stats.LastActiveAt,
			&rec.Stats.SpeedDemonCount, &rec.Stats.SprintFinisherCount, &rec.Stats.TopPerformerCount,
			&rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
			&badgeCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement record: %w", err)
		}

		rec.Stats.SprintsJoined = []int64(sprintsJoined)
		rec.Stats.SprintsWithCompletions = []int64(sprintsWithCompletions)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range records {
		badges, err := r.listBadges(ctx, rec.UserID)
		if err != nil {
			return nil, err
		}
		rec.EarnedBadges = badges
	}

	return records, nil
}

func (r *achievementRepository) SyncIdentitySnapshots(ctx context.Context) (int64, error) {
	result, err := r.ExecContext(ctx, `
		UPDATE achievement_records ar SET
			name = TRIM(u.first_name || ' ' || u.last_name),
			department = u.department,
			position = u.position,
			updated_at = NOW()
		FROM users u
		WHERE u.id = ar.user_id
		  AND (ar.name IS DISTINCT FROM TRIM(u.first_name || ' ' || u.last_name)
			OR ar.department IS DISTINCT FROM u.department
			OR ar.position IS DISTINCT FROM u.position)`)
	if err != nil {
		return 0, fmt.Errorf("failed to sync identity snapshots: %w", err)
	}
	return result.RowsAffected()
}

func (r *achievementRepository) RecountTaskStats(ctx context.Context) (int64, error) {
	result, err := r.ExecContext(ctx, `
		UPDATE achievement_records ar SET
			tasks_completed = c.cnt,
			updated_at = NOW()
		FROM (
			SELECT assignee_id, COUNT(*) AS cnt
			FROM tasks
			WHERE status = 'completed' AND assignee_id IS NOT NULL
			GROUP BY assignee_id
		) c
		WHERE c.assignee_id = ar.user_id
		  AND ar.tasks_completed IS DISTINCT FROM c.cnt`)
	if err != nil {
		return 0, fmt.Errorf("failed to recount task stats: %w", err)
	}
	return result.RowsAffected()
}

func (r *achievementRepository) listBadges(ctx context.Context, userID int64) ([]models.EarnedBadge, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT badge_id, earned_at FROM user_badges WHERE user_id = $1 ORDER BY earned_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []models.EarnedBadge
	for rows.Next() {
		var b models.EarnedBadge
		if err := rows.Scan(&b.BadgeID, &b.EarnedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
