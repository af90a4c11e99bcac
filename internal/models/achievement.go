// file: internal/models/achievement.go
package models

import (
	"errors"
	"time"
)

// ===============================
// BADGE CATALOG TYPES
// ===============================

// BadgeCategory groups badges for display
type BadgeCategory string

// Badge categories
const (
	CategoryBeginner BadgeCategory = "beginner"
	CategoryProgress BadgeCategory = "progress"
	CategoryElite    BadgeCategory = "elite"
	CategoryStreak   BadgeCategory = "streak"
)

// CriterionKind identifies which stat a badge criterion is tested against
type CriterionKind string

// Criterion kinds
const (
	CriterionTasksCompleted          CriterionKind = "tasks_completed"
	CriterionSprintsJoined           CriterionKind = "sprints_joined"
	CriterionBacklogsCreated         CriterionKind = "backlogs_created"
	CriterionSprintAllTasksCompleted CriterionKind = "sprint_all_tasks_completed"
	CriterionTaskWithin24h           CriterionKind = "task_within_24h"
	CriterionSprintsWithCompletions  CriterionKind = "sprints_with_completions"
	CriterionTopPerformerInSprint    CriterionKind = "top_performer_in_sprint"
	CriterionDailyStreak             CriterionKind = "daily_streak"
	CriterionComebackAfterInactive   CriterionKind = "comeback_after_inactive"
)

// BadgeCriterion is the typed unlock rule for a badge
type BadgeCriterion struct {
	Kind      CriterionKind `json:"kind"`
	Threshold int           `json:"threshold"`
}

// Badge is an immutable catalog entry
type Badge struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Icon        string         `json:"icon"`
	Description string         `json:"description"`
	Category    BadgeCategory  `json:"category"`
	Criterion   BadgeCriterion `json:"criterion"`
}

// ===============================
// ACHIEVEMENT RECORD
// ===============================

// EarnedBadge is one unlocked badge on a user's record
type EarnedBadge struct {
	BadgeID  string    `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

// AchievementStats holds the cumulative counters badge criteria are tested against
type AchievementStats struct {
	TasksCompleted         int        `json:"tasks_completed" db:"tasks_completed"`
	BacklogsCreated        int        `json:"backlogs_created" db:"backlogs_created"`
	SprintsJoined          []int64    `json:"sprints_joined" db:"sprints_joined"`
	SprintsWithCompletions []int64    `json:"sprints_with_completions" db:"sprints_with_completions"`
	CurrentStreak          int        `json:"current_streak" db:"current_streak"`
	LongestStreak          int        `json:"longest_streak" db:"longest_streak"`
	LastTaskCompletedAt    *time.Time `json:"last_task_completed_at,omitempty" db:"last_task_completed_at"`
	LastActiveAt           *time.Time `json:"last_active_at,omitempty" db:"last_active_at"`
	SpeedDemonCount        int        `json:"speed_demon_count" db:"speed_demon_count"`
	SprintFinisherCount    int        `json:"sprint_finisher_count" db:"sprint_finisher_count"`
	TopPerformerCount      int        `json:"top_performer_count" db:"top_performer_count"`
}

// HasSprintJoined checks sprint membership on the stats set
func (s *AchievementStats) HasSprintJoined(sprintID int64) bool {
	for _, id := range s.SprintsJoined {
		if id == sprintID {
			return true
		}
	}
	return false
}

// HasSprintCompletion checks whether the user already completed a task in the sprint
func (s *AchievementStats) HasSprintCompletion(sprintID int64) bool {
	for _, id := range s.SprintsWithCompletions {
		if id == sprintID {
			return true
		}
	}
	return false
}

// Validate checks the counter invariants after a stats mutation
func (s *AchievementStats) Validate() error {
	if s.TasksCompleted < 0 || s.BacklogsCreated < 0 || s.SpeedDemonCount < 0 ||
		s.SprintFinisherCount < 0 || s.TopPerformerCount < 0 {
		return errors.New("negative counter")
	}
	if s.CurrentStreak < 0 || s.LongestStreak < 0 {
		return errors.New("negative streak")
	}
	if s.LongestStreak < s.CurrentStreak {
		return errors.New("longest streak below current streak")
	}
	if s.TasksCompleted < s.SpeedDemonCount {
		return errors.New("speed demon count exceeds tasks completed")
	}
	return nil
}

// AchievementRecord is the per-user mutable record owned by the achievement engine.
// Identity fields are a snapshot taken at record creation; they are not kept in
// sync with later profile edits (cmd/backfill is the explicit re-sync path).
type AchievementRecord struct {
	UserID int64 `json:"user_id" db:"user_id"`

	// Denormalized identity snapshot for leaderboard rendering
	Name       string `json:"name" db:"name"`
	Department string `json:"department" db:"department"`
	Position   string `json:"position" db:"position"`

	Stats        AchievementStats `json:"stats"`
	EarnedBadges []EarnedBadge    `json:"earned_badges"`

	// Optimistic concurrency guard; bumped on every save
	Version int64 `json:"-" db:"version"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasBadge checks the already-earned guard for idempotent awarding
func (r *AchievementRecord) HasBadge(badgeID string) bool {
	for _, b := range r.EarnedBadges {
		if b.BadgeID == badgeID {
			return true
		}
	}
	return false
}

// BadgeCount returns the number of earned badges
func (r *AchievementRecord) BadgeCount() int {
	return len(r.EarnedBadges)
}

// ===============================
// QUERY PROJECTIONS
// ===============================

// BadgeStatus is one catalog badge merged with the user's earned state
type BadgeStatus struct {
	Badge
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// UserAchievements is the single-user achievement summary
type UserAchievements struct {
	UserID      int64            `json:"user_id"`
	Stats       AchievementStats `json:"stats"`
	Badges      []BadgeStatus    `json:"badges"`
	EarnedCount int              `json:"earned_count"`
	TotalBadges int              `json:"total_badges"`
}

// LeaderboardBadge is the lightweight badge detail carried on leaderboard rows
type LeaderboardBadge struct {
	Icon        string `json:"icon"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LeaderboardEntry is one ranked leaderboard row
type LeaderboardEntry struct {
	Rank           int                `json:"rank"`
	UserID         int64              `json:"user_id"`
	Name           string             `json:"name"`
	Department     string             `json:"department"`
	Position       string             `json:"position"`
	BadgeCount     int                `json:"badge_count"`
	Badges         []LeaderboardBadge `json:"badges"`
	TasksCompleted int                `json:"tasks_completed"`
	CurrentStreak  int                `json:"current_streak"`
}
