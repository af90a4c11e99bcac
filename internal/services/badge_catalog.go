// file: internal/services/badge_catalog.go
package services

import (
	"fmt"

	"sprintdeck/internal/models"
)

// ===============================
// BADGE CATALOG
// ===============================

// badgeCatalog is the fixed set of badges, in display order. It is never
// mutated at runtime; ValidateBadgeCatalog checks it once at startup.
var badgeCatalog = []models.Badge{
	{
		ID:          "FIRST_TASK",
		Name:        "First Task",
		Icon:        "🎯",
		Description: "Complete your first task",
		Category:    models.CategoryBeginner,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionTasksCompleted, Threshold: 1},
	},
	{
		ID:          "GETTING_STARTED",
		Name:        "Getting Started",
		Icon:        "🚀",
		Description: "Complete 5 tasks",
		Category:    models.CategoryBeginner,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionTasksCompleted, Threshold: 5},
	},
	{
		ID:          "ON_FIRE",
		Name:        "On Fire",
		Icon:        "🔥",
		Description: "Complete 10 tasks",
		Category:    models.CategoryProgress,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionTasksCompleted, Threshold: 10},
	},
	{
		ID:          "TASK_MASTER",
		Name:        "Task Master",
		Icon:        "⚡",
		Description: "Complete 50 tasks",
		Category:    models.CategoryProgress,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionTasksCompleted, Threshold: 50},
	},
	{
		ID:          "CENTURION",
		Name:        "Centurion",
		Icon:        "💯",
		Description: "Complete 100 tasks",
		Category:    models.CategoryElite,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionTasksCompleted, Threshold: 100},
	},
	{
		ID:          "TEAM_PLAYER",
		Name:        "Team Player",
		Icon:        "🤝",
		Description: "Join 3 sprints",
		Category:    models.CategoryBeginner,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionSprintsJoined, Threshold: 3},
	},
	{
		ID:          "SPRINT_VETERAN",
		Name:        "Sprint Veteran",
		Icon:        "🎖️",
		Description: "Join 10 sprints",
		Category:    models.CategoryProgress,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionSprintsJoined, Threshold: 10},
	},
	{
		ID:          "IDEA_FACTORY",
		Name:        "Idea Factory",
		Icon:        "💡",
		Description: "Create 10 backlog items",
		Category:    models.CategoryProgress,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionBacklogsCreated, Threshold: 10},
	},
	{
		ID:          "SPRINT_FINISHER",
		Name:        "Sprint Finisher",
		Icon:        "🏁",
		Description: "Complete every task assigned to you in a sprint",
		Category:    models.CategoryProgress,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionSprintAllTasksCompleted, Threshold: 1},
	},
	{
		ID:          "SPEED_DEMON",
		Name:        "Speed Demon",
		Icon:        "⏱️",
		Description: "Complete 5 tasks within 24 hours of starting them",
		Category:    models.CategoryElite,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionTaskWithin24h, Threshold: 5},
	},
	{
		ID:          "CONSISTENT",
		Name:        "Consistent",
		Icon:        "📈",
		Description: "Complete tasks in 3 sprints",
		Category:    models.CategoryProgress,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionSprintsWithCompletions, Threshold: 3},
	},
	{
		ID:          "TOP_PERFORMER",
		Name:        "Top Performer",
		Icon:        "🏆",
		Description: "Complete the most tasks in a sprint",
		Category:    models.CategoryElite,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionTopPerformerInSprint, Threshold: 1},
	},
	{
		ID:          "WEEK_STREAK",
		Name:        "Week Streak",
		Icon:        "📅",
		Description: "Complete tasks on 7 days in a row",
		Category:    models.CategoryStreak,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionDailyStreak, Threshold: 7},
	},
	{
		ID:          "COMEBACK",
		Name:        "Comeback",
		Icon:        "💪",
		Description: "Return and complete a task after 7+ days away",
		Category:    models.CategoryStreak,
		Criterion:   models.BadgeCriterion{Kind: models.CriterionComebackAfterInactive, Threshold: 7},
	},
}

var badgesByID = func() map[string]models.Badge {
	m := make(map[string]models.Badge, len(badgeCatalog))
	for _, b := range badgeCatalog {
		m[b.ID] = b
	}
	return m
}()

// AllBadges returns the catalog in stable declaration order
func AllBadges() []models.Badge {
	out := make([]models.Badge, len(badgeCatalog))
	copy(out, badgeCatalog)
	return out
}

// BadgeByID looks up a catalog badge; ok is false for unknown ids
func BadgeByID(id string) (models.Badge, bool) {
	b, ok := badgesByID[id]
	return b, ok
}

// ValidateBadgeCatalog sanity-checks the static catalog. Called once at startup.
func ValidateBadgeCatalog() error {
	seen := make(map[string]bool, len(badgeCatalog))
	for _, b := range badgeCatalog {
		if b.ID == "" || b.Name == "" || b.Icon == "" || b.Description == "" {
			return fmt.Errorf("badge %q has empty display metadata", b.ID)
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate badge id %q", b.ID)
		}
		seen[b.ID] = true
		if b.Criterion.Threshold <= 0 {
			return fmt.Errorf("badge %q has non-positive threshold %d", b.ID, b.Criterion.Threshold)
		}
		switch b.Criterion.Kind {
		case models.CriterionTasksCompleted, models.CriterionSprintsJoined,
			models.CriterionBacklogsCreated, models.CriterionSprintAllTasksCompleted,
			models.CriterionTaskWithin24h, models.CriterionSprintsWithCompletions,
			models.CriterionTopPerformerInSprint, models.CriterionDailyStreak,
			models.CriterionComebackAfterInactive:
		default:
			return fmt.Errorf("badge %q has unknown criterion kind %q", b.ID, b.Criterion.Kind)
		}
		switch b.Category {
		case models.CategoryBeginner, models.CategoryProgress, models.CategoryElite, models.CategoryStreak:
		default:
			return fmt.Errorf("badge %q has unknown category %q", b.ID, b.Category)
		}
	}
	if len(badgeCatalog) != 14 {
		return fmt.Errorf("badge catalog has %d entries, want 14", len(badgeCatalog))
	}
	return nil
}
