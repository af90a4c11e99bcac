// file: internal/services/task_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"sprintdeck/internal/events"
	"sprintdeck/internal/models"
	"sprintdeck/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTaskStore struct {
	repositories.TaskRepository
	nextID int64
	byID   map[int64]*models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{nextID: 1, byID: make(map[int64]*models.Task)}
}

func (f *fakeTaskStore) Create(_ context.Context, task *models.Task) error {
	task.ID = f.nextID
	f.nextID++
	stored := *task
	f.byID[task.ID] = &stored
	return nil
}

func (f *fakeTaskStore) GetByID(_ context.Context, id int64) (*models.Task, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (f *fakeTaskStore) Update(_ context.Context, task *models.Task) error {
	stored := *task
	f.byID[task.ID] = &stored
	return nil
}

type fakeProjectStore struct {
	repositories.ProjectRepository
	byID map[int64]*models.Project
}

func (f *fakeProjectStore) GetByID(_ context.Context, id int64) (*models.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

type fakeSprintStore struct {
	repositories.SprintRepository
	byID map[int64]*models.Sprint
}

func (f *fakeSprintStore) GetByID(_ context.Context, id int64) (*models.Sprint, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

// stubAchievements records trigger calls and optionally fails them
type stubAchievements struct {
	AchievementService
	completions []int64
	err         error
}

func (s *stubAchievements) OnTaskCompleted(_ context.Context, userID int64, _ *int64, _ *time.Time) ([]string, error) {
	s.completions = append(s.completions, userID)
	return nil, s.err
}

type taskHarness struct {
	svc          TaskService
	tasks        *fakeTaskStore
	achievements *stubAchievements
}

func newTaskHarness(t *testing.T) *taskHarness {
	t.Helper()
	h := &taskHarness{
		tasks:        newFakeTaskStore(),
		achievements: &stubAchievements{},
	}
	projects := &fakeProjectStore{byID: map[int64]*models.Project{
		1: {ID: 1, Name: "Platform", Department: "engineering", Status: models.ProjectStatusActive},
		2: {ID: 2, Name: "Legacy", Department: "engineering", Status: models.ProjectStatusArchived},
	}}
	sprints := &fakeSprintStore{byID: map[int64]*models.Sprint{
		5: {ID: 5, ProjectID: 1, Name: "Sprint 5", Status: models.SprintStatusActive},
		6: {ID: 6, ProjectID: 1, Name: "Sprint 6", Status: models.SprintStatusCompleted},
	}}
	h.svc = NewTaskService(h.tasks, sprints, projects, h.achievements, events.NewInMemoryBus(zap.NewNop()), zap.NewNop())
	return h
}

func strPtr(s string) *string { return &s }
func idPtr(id int64) *int64   { return &id }

func TestCreateTask(t *testing.T) {
	h := newTaskHarness(t)

	task, err := h.svc.Create(context.Background(), 1, CreateTaskRequest{
		ProjectID: 1,
		Title:     "Wire up the tracker",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Nil(t, task.StartedAt)
	assert.Nil(t, task.CompletedAt)
}

func TestCreateTaskArchivedProject(t *testing.T) {
	h := newTaskHarness(t)

	_, err := h.svc.Create(context.Background(), 1, CreateTaskRequest{
		ProjectID: 2,
		Title:     "Should not exist",
	})
	require.Error(t, err)
	assert.True(t, IsErrorType(err, "BUSINESS_ERROR"))
}

func TestCreateTaskSprintChecks(t *testing.T) {
	h := newTaskHarness(t)
	ctx := context.Background()

	_, err := h.svc.Create(ctx, 1, CreateTaskRequest{ProjectID: 1, SprintID: idPtr(99), Title: "Ghost sprint"})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))

	_, err = h.svc.Create(ctx, 1, CreateTaskRequest{ProjectID: 1, SprintID: idPtr(6), Title: "Closed sprint"})
	require.Error(t, err)
	assert.True(t, IsErrorType(err, "BUSINESS_ERROR"))
}

func TestStatusTransitionTimestamps(t *testing.T) {
	h := newTaskHarness(t)
	ctx := context.Background()

	task, err := h.svc.Create(ctx, 1, CreateTaskRequest{ProjectID: 1, Title: "Timestamps"})
	require.NoError(t, err)

	task, err = h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Status: strPtr(models.TaskStatusInProgress)})
	require.NoError(t, err)
	require.NotNil(t, task.StartedAt)
	assert.Nil(t, task.CompletedAt)
	started := *task.StartedAt

	task, err = h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Status: strPtr(models.TaskStatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, started, *task.StartedAt, "started_at is set once")
	require.NotNil(t, task.CompletedAt)

	task, err = h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Status: strPtr(models.TaskStatusTodo)})
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt, "reopening clears completion")
}

func TestCompletionTriggersAchievementsOnce(t *testing.T) {
	h := newTaskHarness(t)
	ctx := context.Background()

	task, err := h.svc.Create(ctx, 1, CreateTaskRequest{ProjectID: 1, AssigneeID: idPtr(7), Title: "Single fire"})
	require.NoError(t, err)

	_, err = h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Status: strPtr(models.TaskStatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, h.achievements.completions)

	// Re-saving an already completed task must not fire again
	_, err = h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Title: strPtr("Renamed"), Status: strPtr(models.TaskStatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, h.achievements.completions)

	// Reopen and complete again: a fresh transition fires once more
	_, err = h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Status: strPtr(models.TaskStatusTodo)})
	require.NoError(t, err)
	_, err = h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Status: strPtr(models.TaskStatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 7}, h.achievements.completions)
}

func TestCompletionWithoutAssigneeSkipsAchievements(t *testing.T) {
	h := newTaskHarness(t)
	ctx := context.Background()

	task, err := h.svc.Create(ctx, 1, CreateTaskRequest{ProjectID: 1, Title: "Unassigned"})
	require.NoError(t, err)

	_, err = h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Status: strPtr(models.TaskStatusCompleted)})
	require.NoError(t, err)
	assert.Empty(t, h.achievements.completions)
}

func TestAchievementFailureDoesNotFailUpdate(t *testing.T) {
	h := newTaskHarness(t)
	h.achievements.err = NewInternalError("achievement store down", nil)
	ctx := context.Background()

	task, err := h.svc.Create(ctx, 1, CreateTaskRequest{ProjectID: 1, AssigneeID: idPtr(7), Title: "Best effort"})
	require.NoError(t, err)

	updated, err := h.svc.Update(ctx, 1, task.ID, UpdateTaskRequest{Status: strPtr(models.TaskStatusCompleted)})
	require.NoError(t, err, "achievement errors never fail the task mutation")
	assert.True(t, updated.IsCompleted())
}
