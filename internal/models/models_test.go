// file: internal/models/models_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", u.FullName())

	u = &User{FirstName: "Prince"}
	assert.Equal(t, "Prince", u.FullName())
}

func TestUserCanManage(t *testing.T) {
	admin := &User{Role: RoleAdmin, Department: "design"}
	assert.True(t, admin.CanManage("engineering"), "admins manage every department")

	manager := &User{Role: RoleManager, Department: "engineering"}
	assert.True(t, manager.CanManage("engineering"))
	assert.False(t, manager.CanManage("design"))

	member := &User{Role: RoleMember, Department: "engineering"}
	assert.False(t, member.CanManage("engineering"))
}

func TestTaskIsCompleted(t *testing.T) {
	assert.True(t, (&Task{Status: TaskStatusCompleted}).IsCompleted())
	assert.False(t, (&Task{Status: TaskStatusInProgress}).IsCompleted())
	assert.False(t, (&Task{Status: TaskStatusTodo}).IsCompleted())
}

func TestPaginationNormalize(t *testing.T) {
	p := &PaginationParams{}
	p.Normalize()
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, "created_at", p.Sort)
	assert.Equal(t, "desc", p.Order)

	p = &PaginationParams{Limit: 500, Offset: -3}
	p.Normalize()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestAchievementStatsValidate(t *testing.T) {
	valid := &AchievementStats{TasksCompleted: 5, SpeedDemonCount: 2, CurrentStreak: 1, LongestStreak: 3}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&AchievementStats{TasksCompleted: -1}).Validate())
	assert.Error(t, (&AchievementStats{CurrentStreak: 4, LongestStreak: 2}).Validate())
	assert.Error(t, (&AchievementStats{TasksCompleted: 1, SpeedDemonCount: 2}).Validate())
}

func TestAchievementStatsSetMembership(t *testing.T) {
	s := &AchievementStats{SprintsJoined: []int64{1, 2}, SprintsWithCompletions: []int64{2}}
	assert.True(t, s.HasSprintJoined(2))
	assert.False(t, s.HasSprintJoined(3))
	assert.True(t, s.HasSprintCompletion(2))
	assert.False(t, s.HasSprintCompletion(1))
}

func TestRecordBadgeHelpers(t *testing.T) {
	rec := &AchievementRecord{EarnedBadges: []EarnedBadge{{BadgeID: "FIRST_TASK"}}}
	assert.True(t, rec.HasBadge("FIRST_TASK"))
	assert.False(t, rec.HasBadge("ON_FIRE"))
	assert.Equal(t, 1, rec.BadgeCount())
}
