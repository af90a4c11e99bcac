// file: internal/handlers/api/v1/achievements/achievements_controller_test.go
package achievements

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sprintdeck/internal/middleware"
	"sprintdeck/internal/models"
	"sprintdeck/internal/response"
	"sprintdeck/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAchievementService struct {
	services.AchievementService
	achievements map[int64]*models.UserAchievements
	leaderboard  []models.LeaderboardEntry
	leaderboardQ []*string
}

func (s *stubAchievementService) GetUserAchievements(_ context.Context, userID int64) (*models.UserAchievements, error) {
	if a, ok := s.achievements[userID]; ok {
		return a, nil
	}
	return &models.UserAchievements{
		UserID:      userID,
		TotalBadges: 14,
		Badges:      []models.BadgeStatus{},
	}, nil
}

func (s *stubAchievementService) GetLeaderboard(_ context.Context, department *string) ([]models.LeaderboardEntry, error) {
	s.leaderboardQ = append(s.leaderboardQ, department)
	return s.leaderboard, nil
}

func newTestRouter(t *testing.T, svc services.AchievementService) *mux.Router {
	t.Helper()
	builder := response.NewBuilder(response.DefaultConfig(), zap.NewNop())
	ctrl := NewController(svc, builder, zap.NewNop())
	r := mux.NewRouter()
	ctrl.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, router *mux.Router, req *http.Request) (*httptest.ResponseRecorder, *response.APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope response.APIResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, &envelope
}

func TestMeRequiresAuth(t *testing.T) {
	router := newTestRouter(t, &stubAchievementService{})

	req := httptest.NewRequest(http.MethodGet, "/achievements/me", nil)
	rec, envelope := doJSON(t, router, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, envelope.Success)
}

func TestMeReturnsCallerAchievements(t *testing.T) {
	now := time.Now()
	svc := &stubAchievementService{achievements: map[int64]*models.UserAchievements{
		7: {
			UserID:      7,
			EarnedCount: 1,
			TotalBadges: 14,
			Badges: []models.BadgeStatus{
				{Badge: models.Badge{ID: "FIRST_TASK", Name: "First Task", Icon: "🎯"}, Earned: true, EarnedAt: &now},
			},
		},
	}}
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/achievements/me", nil)
	req = req.WithContext(middleware.WithAuthContext(req.Context(), &middleware.AuthContext{UserID: 7, Role: models.RoleMember}))
	rec, envelope := doJSON(t, router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)

	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var result models.UserAchievements
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.Equal(t, int64(7), result.UserID)
	assert.Equal(t, 1, result.EarnedCount)
}

func TestGetUnknownUserReturnsZeroState(t *testing.T) {
	router := newTestRouter(t, &stubAchievementService{})

	req := httptest.NewRequest(http.MethodGet, "/achievements/42", nil)
	rec, envelope := doJSON(t, router, req)

	require.Equal(t, http.StatusOK, rec.Code)

	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var result models.UserAchievements
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.Equal(t, int64(42), result.UserID)
	assert.Zero(t, result.EarnedCount)
	assert.Equal(t, 14, result.TotalBadges)
}

func TestGetRejectsNonNumericUserID(t *testing.T) {
	router := newTestRouter(t, &stubAchievementService{})

	req := httptest.NewRequest(http.MethodGet, "/achievements/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The numeric route pattern never matches
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaderboard(t *testing.T) {
	svc := &stubAchievementService{leaderboard: []models.LeaderboardEntry{
		{Rank: 1, UserID: 2, BadgeCount: 5, TasksCompleted: 20},
		{Rank: 2, UserID: 1, BadgeCount: 5, TasksCompleted: 10},
		{Rank: 3, UserID: 3, BadgeCount: 2, TasksCompleted: 1},
	}}
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/achievements/leaderboard", nil)
	rec, envelope := doJSON(t, router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var entries []models.LeaderboardEntry
	require.NoError(t, json.Unmarshal(payload, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, int64(2), entries[0].UserID)

	require.Len(t, svc.leaderboardQ, 1)
	assert.Nil(t, svc.leaderboardQ[0], "no department filter by default")
}

func TestLeaderboardDepartmentFilter(t *testing.T) {
	svc := &stubAchievementService{}
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/achievements/leaderboard?department=design", nil)
	rec, _ := doJSON(t, router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.leaderboardQ, 1)
	require.NotNil(t, svc.leaderboardQ[0])
	assert.Equal(t, "design", *svc.leaderboardQ[0])
}
