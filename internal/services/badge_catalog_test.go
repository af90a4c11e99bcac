// file: internal/services/badge_catalog_test.go
package services

import (
	"testing"

	"sprintdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBadgeCatalog(t *testing.T) {
	require.NoError(t, ValidateBadgeCatalog())
}

func TestAllBadgesReturnsFullCatalog(t *testing.T) {
	badges := AllBadges()
	assert.Len(t, badges, 14)

	seen := make(map[string]bool)
	for _, b := range badges {
		assert.False(t, seen[b.ID], "duplicate badge id %s", b.ID)
		seen[b.ID] = true
		assert.NotEmpty(t, b.Name)
		assert.NotEmpty(t, b.Icon)
		assert.NotEmpty(t, b.Description)
		assert.Positive(t, b.Criterion.Threshold)
	}
}

func TestAllBadgesReturnsCopy(t *testing.T) {
	badges := AllBadges()
	badges[0].Name = "mutated"
	assert.NotEqual(t, "mutated", AllBadges()[0].Name)
}

func TestBadgeByID(t *testing.T) {
	badge, ok := BadgeByID("WEEK_STREAK")
	require.True(t, ok)
	assert.Equal(t, models.CriterionDailyStreak, badge.Criterion.Kind)
	assert.Equal(t, 7, badge.Criterion.Threshold)

	_, ok = BadgeByID("NO_SUCH_BADGE")
	assert.False(t, ok)
}

func TestBadgeThresholds(t *testing.T) {
	expected := map[string]int{
		"FIRST_TASK":      1,
		"GETTING_STARTED": 5,
		"ON_FIRE":         10,
		"TASK_MASTER":     50,
		"CENTURION":       100,
		"TEAM_PLAYER":     3,
		"SPRINT_VETERAN":  10,
		"IDEA_FACTORY":    10,
		"SPRINT_FINISHER": 1,
		"SPEED_DEMON":     5,
		"CONSISTENT":      3,
		"TOP_PERFORMER":   1,
		"WEEK_STREAK":     7,
		"COMEBACK":        7,
	}
	for id, threshold := range expected {
		badge, ok := BadgeByID(id)
		require.True(t, ok, "missing badge %s", id)
		assert.Equal(t, threshold, badge.Criterion.Threshold, "badge %s", id)
	}
}
