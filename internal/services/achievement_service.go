// file: internal/services/achievement_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sprintdeck/internal/cache"
	"sprintdeck/internal/events"
	"sprintdeck/internal/models"
	"sprintdeck/internal/repositories"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	leaderboardLimit    = 20
	comebackBadgeID     = "COMEBACK"
	leaderboardCacheKey = "leaderboard"
)

// achievementService implements AchievementService. Event handlers apply a
// read-modify-write against the per-user record under optimistic concurrency,
// retrying on version conflicts, then award any newly qualified badges.
type achievementService struct {
	records repositories.AchievementRepository
	tasks   repositories.TaskRepository
	cache   cache.Cache
	bus     events.EventBus
	logger  *zap.Logger

	leaderboardTTL time.Duration

	// now is injectable for deterministic streak tests
	now func() time.Time
}

// NewAchievementService creates the achievement engine
func NewAchievementService(
	records repositories.AchievementRepository,
	tasks repositories.TaskRepository,
	c cache.Cache,
	bus events.EventBus,
	leaderboardTTL time.Duration,
	logger *zap.Logger,
) AchievementService {
	return &achievementService{
		records:        records,
		tasks:          tasks,
		cache:          c,
		bus:            bus,
		logger:         logger,
		leaderboardTTL: leaderboardTTL,
		now:            time.Now,
	}
}

// ===============================
// EVENT HANDLERS
// ===============================

func (s *achievementService) OnTaskCompleted(ctx context.Context, userID int64, sprintID *int64, startedAt *time.Time) ([]string, error) {
	var comebackDue bool

	rec, err := s.mutate(ctx, userID, func(rec *models.AchievementRecord) {
		now := s.now()
		comebackDue = false

		rec.Stats.TasksCompleted++

		if startedAt != nil && now.Sub(*startedAt) <= 24*time.Hour {
			rec.Stats.SpeedDemonCount++
		}

		if prev := rec.Stats.LastTaskCompletedAt; prev == nil {
			rec.Stats.CurrentStreak = 1
		} else {
			daysDiff := int(now.Sub(*prev).Hours() / 24)
			if daysDiff >= 7 {
				comebackDue = true
			}
			switch {
			case daysDiff == 0:
				// same-day completion, streak unchanged
			case daysDiff == 1:
				rec.Stats.CurrentStreak++
			default:
				rec.Stats.CurrentStreak = 1
			}
		}
		if rec.Stats.CurrentStreak > rec.Stats.LongestStreak {
			rec.Stats.LongestStreak = rec.Stats.CurrentStreak
		}

		rec.Stats.LastTaskCompletedAt = &now
		rec.Stats.LastActiveAt = &now

		if sprintID != nil && !rec.Stats.HasSprintCompletion(*sprintID) {
			rec.Stats.SprintsWithCompletions = append(rec.Stats.SprintsWithCompletions, *sprintID)
		}
	})
	if err != nil {
		return nil, err
	}

	newly := evaluateBadges(rec)
	if comebackDue && !rec.HasBadge(comebackBadgeID) {
		newly = append(newly, comebackBadgeID)
	}
	return s.award(ctx, rec, newly)
}

func (s *achievementService) OnBacklogCreated(ctx context.Context, userID int64) ([]string, error) {
	rec, err := s.mutate(ctx, userID, func(rec *models.AchievementRecord) {
		now := s.now()
		rec.Stats.BacklogsCreated++
		rec.Stats.LastActiveAt = &now
	})
	if err != nil {
		return nil, err
	}
	return s.award(ctx, rec, evaluateBadges(rec))
}

func (s *achievementService) OnSprintJoined(ctx context.Context, userID, sprintID int64) ([]string, error) {
	rec, err := s.mutate(ctx, userID, func(rec *models.AchievementRecord) {
		if rec.Stats.HasSprintJoined(sprintID) {
			return
		}
		now := s.now()
		rec.Stats.SprintsJoined = append(rec.Stats.SprintsJoined, sprintID)
		rec.Stats.LastActiveAt = &now
	})
	if err != nil {
		return nil, err
	}
	return s.award(ctx, rec, evaluateBadges(rec))
}

func (s *achievementService) CheckSprintFinisher(ctx context.Context, userID, sprintID int64) ([]string, error) {
	assigned, err := s.tasks.ListBySprintAndAssignee(ctx, sprintID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprint assignments: %w", err)
	}
	if len(assigned) == 0 {
		// zero assigned tasks never makes a finisher
		return nil, nil
	}
	for _, t := range assigned {
		if !t.IsCompleted() {
			return nil, nil
		}
	}

	rec, err := s.mutate(ctx, userID, func(rec *models.AchievementRecord) {
		rec.Stats.SprintFinisherCount++
	})
	if err != nil {
		return nil, err
	}
	return s.award(ctx, rec, evaluateBadges(rec))
}

func (s *achievementService) CheckTopPerformer(ctx context.Context, sprintID int64) ([]string, error) {
	completed, err := s.tasks.ListCompletedBySprint(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed sprint tasks: %w", err)
	}

	counts := make(map[int64]int)
	for _, t := range completed {
		if t.AssigneeID != nil {
			counts[*t.AssigneeID]++
		}
	}
	if len(counts) == 0 {
		return nil, nil
	}

	// Strict maximum; ties break to the lowest user id for determinism.
	var winner int64
	best := -1
	for userID, n := range counts {
		if n > best || (n == best && userID < winner) {
			winner, best = userID, n
		}
	}

	rec, err := s.mutate(ctx, winner, func(rec *models.AchievementRecord) {
		rec.Stats.TopPerformerCount++
	})
	if err != nil {
		return nil, err
	}
	return s.award(ctx, rec, evaluateBadges(rec))
}

// ===============================
// QUERIES
// ===============================

func (s *achievementService) GetUserAchievements(ctx context.Context, userID int64) (*models.UserAchievements, error) {
	rec, err := s.records.GetByUserID(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to load achievements", err)
	}

	result := &models.UserAchievements{
		UserID:      userID,
		TotalBadges: len(badgeCatalog),
	}
	if rec != nil {
		result.Stats = rec.Stats
	}
	if result.Stats.SprintsJoined == nil {
		result.Stats.SprintsJoined = []int64{}
	}
	if result.Stats.SprintsWithCompletions == nil {
		result.Stats.SprintsWithCompletions = []int64{}
	}

	earnedAt := make(map[string]time.Time)
	if rec != nil {
		for _, b := range rec.EarnedBadges {
			earnedAt[b.BadgeID] = b.EarnedAt
		}
	}

	result.Badges = make([]models.BadgeStatus, 0, len(badgeCatalog))
	for _, b := range badgeCatalog {
		status := models.BadgeStatus{Badge: b}
		if at, ok := earnedAt[b.ID]; ok {
			t := at
			status.Earned = true
			status.EarnedAt = &t
			result.EarnedCount++
		}
		result.Badges = append(result.Badges, status)
	}

	return result, nil
}

func (s *achievementService) GetLeaderboard(ctx context.Context, department *string) ([]models.LeaderboardEntry, error) {
	key := leaderboardCacheKey
	if department != nil {
		key = leaderboardCacheKey + ":dept:" + *department
	}

	if cached, ok := s.cache.Get(ctx, key); ok {
		var entries []models.LeaderboardEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			return entries, nil
		}
		s.logger.Warn("Discarding malformed leaderboard cache entry", zap.String("key", key))
	}

	records, err := s.records.ListTop(ctx, department, leaderboardLimit)
	if err != nil {
		return nil, NewInternalError("failed to load leaderboard", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(records))
	for i, rec := range records {
		entry := models.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         rec.UserID,
			Name:           rec.Name,
			Department:     rec.Department,
			Position:       rec.Position,
			BadgeCount:     rec.BadgeCount(),
			Badges:         make([]models.LeaderboardBadge, 0, len(rec.EarnedBadges)),
			TasksCompleted: rec.Stats.TasksCompleted,
			CurrentStreak:  rec.Stats.CurrentStreak,
		}
		for _, earned := range rec.EarnedBadges {
			if badge, ok := BadgeByID(earned.BadgeID); ok {
				entry.Badges = append(entry.Badges, models.LeaderboardBadge{
					Icon:        badge.Icon,
					Name:        badge.Name,
					Description: badge.Description,
				})
			}
		}
		entries = append(entries, entry)
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.leaderboardTTL); err != nil {
			s.logger.Warn("Failed to cache leaderboard", zap.String("key", key), zap.Error(err))
		}
	}

	return entries, nil
}

// ===============================
// INTERNALS
// ===============================

// mutate runs a load-apply-save cycle under optimistic concurrency. On a
// version conflict it reloads the record and reapplies the mutation, so apply
// must be written against the record's current state only.
func (s *achievementService) mutate(ctx context.Context, userID int64, apply func(*models.AchievementRecord)) (*models.AchievementRecord, error) {
	var rec *models.AchievementRecord

	operation := func() error {
		loaded, err := s.records.GetOrCreate(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return backoff.Permanent(EntityNotFoundError("user", userID))
			}
			return backoff.Permanent(NewInternalError("failed to load achievement record", err))
		}

		apply(loaded)

		if err := loaded.Stats.Validate(); err != nil {
			return backoff.Permanent(NewInternalError("achievement stats invariant violated", err))
		}

		if err := s.records.Save(ctx, loaded); err != nil {
			if errors.Is(err, repositories.ErrVersionConflict) {
				return err
			}
			return backoff.Permanent(NewInternalError("failed to save achievement record", err))
		}

		rec = loaded
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return rec, nil
}

// award persists each newly satisfied badge. Awarding is idempotent at the
// storage boundary, so a concurrent duplicate simply drops out of the result.
func (s *achievementService) award(ctx context.Context, rec *models.AchievementRecord, badgeIDs []string) ([]string, error) {
	if len(badgeIDs) == 0 {
		return nil, nil
	}

	now := s.now()
	awarded := make([]string, 0, len(badgeIDs))
	for _, badgeID := range badgeIDs {
		inserted, err := s.records.AddBadge(ctx, rec.UserID, badgeID, now)
		if err != nil {
			return awarded, NewInternalError("failed to award badge", err)
		}
		if !inserted {
			continue
		}

		rec.EarnedBadges = append(rec.EarnedBadges, models.EarnedBadge{BadgeID: badgeID, EarnedAt: now})
		awarded = append(awarded, badgeID)

		s.logger.Info("Badge awarded",
			zap.Int64("user_id", rec.UserID),
			zap.String("badge_id", badgeID),
		)
		s.bus.Publish(ctx, events.NewBadgeAwardedEvent(rec.UserID, badgeID))
	}

	if len(awarded) > 0 {
		s.invalidateLeaderboard(ctx, rec.Department)
	}
	return awarded, nil
}

func (s *achievementService) invalidateLeaderboard(ctx context.Context, department string) {
	for _, key := range []string{leaderboardCacheKey, leaderboardCacheKey + ":dept:" + department} {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to invalidate leaderboard cache", zap.String("key", key), zap.Error(err))
		}
	}
}

// evaluateBadges tests every catalog badge not yet earned against the record's
// stats and returns the newly satisfied ids in catalog order.
func evaluateBadges(rec *models.AchievementRecord) []string {
	var newly []string
	for _, b := range badgeCatalog {
		if rec.HasBadge(b.ID) {
			continue
		}
		if criterionSatisfied(b.Criterion, &rec.Stats) {
			newly = append(newly, b.ID)
		}
	}
	return newly
}

func criterionSatisfied(c models.BadgeCriterion, s *models.AchievementStats) bool {
	switch c.Kind {
	case models.CriterionTasksCompleted:
		return s.TasksCompleted >= c.Threshold
	case models.CriterionSprintsJoined:
		return len(s.SprintsJoined) >= c.Threshold
	case models.CriterionBacklogsCreated:
		return s.BacklogsCreated >= c.Threshold
	case models.CriterionSprintAllTasksCompleted:
		return s.SprintFinisherCount >= c.Threshold
	case models.CriterionTaskWithin24h:
		return s.SpeedDemonCount >= c.Threshold
	case models.CriterionSprintsWithCompletions:
		return len(s.SprintsWithCompletions) >= c.Threshold
	case models.CriterionTopPerformerInSprint:
		return s.TopPerformerCount >= c.Threshold
	case models.CriterionDailyStreak:
		return s.CurrentStreak >= c.Threshold
	case models.CriterionComebackAfterInactive:
		// transition-based, awarded directly by OnTaskCompleted
		return false
	default:
		return false
	}
}
