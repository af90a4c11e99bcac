// file: internal/services/sprint_service_test.go
package services

import (
	"context"
	"testing"

	"sprintdeck/internal/events"
	"sprintdeck/internal/models"
	"sprintdeck/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSprintRepo struct {
	repositories.SprintRepository
	byID    map[int64]*models.Sprint
	members map[int64][]int64
}

func newFakeSprintRepo(sprints ...*models.Sprint) *fakeSprintRepo {
	f := &fakeSprintRepo{byID: make(map[int64]*models.Sprint), members: make(map[int64][]int64)}
	for _, s := range sprints {
		stored := *s
		f.byID[s.ID] = &stored
	}
	return f
}

func (f *fakeSprintRepo) GetByID(_ context.Context, id int64) (*models.Sprint, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	out := *s
	out.MemberIDs = append([]int64(nil), f.members[id]...)
	return &out, nil
}

func (f *fakeSprintRepo) Update(_ context.Context, sprint *models.Sprint) error {
	stored := *sprint
	f.byID[sprint.ID] = &stored
	return nil
}

func (f *fakeSprintRepo) AddMember(_ context.Context, sprintID, userID int64) (bool, error) {
	for _, id := range f.members[sprintID] {
		if id == userID {
			return false, nil
		}
	}
	f.members[sprintID] = append(f.members[sprintID], userID)
	return true, nil
}

// sprintAchievementsStub records which hooks ran
type sprintAchievementsStub struct {
	AchievementService
	joins     []int64
	finishers []int64
	topChecks []int64
	hookErr   error
}

func (s *sprintAchievementsStub) OnSprintJoined(_ context.Context, userID, _ int64) ([]string, error) {
	s.joins = append(s.joins, userID)
	return nil, s.hookErr
}

func (s *sprintAchievementsStub) CheckSprintFinisher(_ context.Context, userID, _ int64) ([]string, error) {
	s.finishers = append(s.finishers, userID)
	return nil, s.hookErr
}

func (s *sprintAchievementsStub) CheckTopPerformer(_ context.Context, sprintID int64) ([]string, error) {
	s.topChecks = append(s.topChecks, sprintID)
	return nil, s.hookErr
}

func newSprintHarness(t *testing.T, sprints ...*models.Sprint) (SprintService, *fakeSprintRepo, *sprintAchievementsStub) {
	t.Helper()
	repo := newFakeSprintRepo(sprints...)
	achievements := &sprintAchievementsStub{}
	projects := &fakeProjectStore{byID: map[int64]*models.Project{
		1: {ID: 1, Name: "Platform", Department: "engineering", Status: models.ProjectStatusActive},
	}}
	svc := NewSprintService(repo, projects, achievements, events.NewInMemoryBus(zap.NewNop()), zap.NewNop())
	return svc, repo, achievements
}

func activeSprint(id int64) *models.Sprint {
	return &models.Sprint{ID: id, ProjectID: 1, Name: "Sprint", Status: models.SprintStatusActive}
}

func TestJoinSprint(t *testing.T) {
	svc, repo, achievements := newSprintHarness(t, activeSprint(5))
	ctx := context.Background()

	require.NoError(t, svc.Join(ctx, 7, 5))
	assert.Equal(t, []int64{7}, repo.members[5])
	assert.Equal(t, []int64{7}, achievements.joins)
}

func TestJoinSprintTwiceIsNoOp(t *testing.T) {
	svc, repo, achievements := newSprintHarness(t, activeSprint(5))
	ctx := context.Background()

	require.NoError(t, svc.Join(ctx, 7, 5))
	require.NoError(t, svc.Join(ctx, 7, 5))

	assert.Equal(t, []int64{7}, repo.members[5])
	assert.Equal(t, []int64{7}, achievements.joins, "the achievement hook fires only on first join")
}

func TestJoinCompletedSprintRejected(t *testing.T) {
	sprint := activeSprint(5)
	sprint.Status = models.SprintStatusCompleted
	svc, _, achievements := newSprintHarness(t, sprint)

	err := svc.Join(context.Background(), 7, 5)
	require.Error(t, err)
	assert.True(t, IsErrorType(err, "BUSINESS_ERROR"))
	assert.Empty(t, achievements.joins)
}

func TestJoinUnknownSprint(t *testing.T) {
	svc, _, _ := newSprintHarness(t)

	err := svc.Join(context.Background(), 7, 99)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestJoinSurvivesAchievementFailure(t *testing.T) {
	svc, repo, achievements := newSprintHarness(t, activeSprint(5))
	achievements.hookErr = NewInternalError("achievement store down", nil)

	require.NoError(t, svc.Join(context.Background(), 7, 5))
	assert.Equal(t, []int64{7}, repo.members[5])
}

func TestCompleteSprintRunsChecksForEveryMember(t *testing.T) {
	svc, repo, achievements := newSprintHarness(t, activeSprint(5))
	ctx := context.Background()

	require.NoError(t, svc.Join(ctx, 7, 5))
	require.NoError(t, svc.Join(ctx, 8, 5))

	sprint, err := svc.Complete(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, models.SprintStatusCompleted, sprint.Status)
	assert.Equal(t, models.SprintStatusCompleted, repo.byID[5].Status)

	assert.ElementsMatch(t, []int64{7, 8}, achievements.finishers)
	assert.Equal(t, []int64{5}, achievements.topChecks, "top performer runs once per completion")
}

func TestCompleteSprintTwiceRejected(t *testing.T) {
	svc, _, achievements := newSprintHarness(t, activeSprint(5))
	ctx := context.Background()

	_, err := svc.Complete(ctx, 1, 5)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, 1, 5)
	require.Error(t, err)
	assert.True(t, IsErrorType(err, "BUSINESS_ERROR"))
	assert.Equal(t, []int64{5}, achievements.topChecks, "checks never rerun")
}

func TestCompleteSurvivesAchievementFailure(t *testing.T) {
	svc, _, achievements := newSprintHarness(t, activeSprint(5))
	achievements.hookErr = NewInternalError("achievement store down", nil)
	ctx := context.Background()

	require.NoError(t, svc.Join(ctx, 7, 5))
	achievements.hookErr = NewInternalError("achievement store down", nil)

	sprint, err := svc.Complete(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, models.SprintStatusCompleted, sprint.Status)
}

func TestUpdateCannotSetCompletedStatus(t *testing.T) {
	svc, _, _ := newSprintHarness(t, activeSprint(5))

	status := models.SprintStatusCompleted
	_, err := svc.Update(context.Background(), 1, 5, UpdateSprintRequest{Status: &status})
	require.Error(t, err)
	assert.True(t, IsErrorType(err, "BUSINESS_ERROR"))
}
