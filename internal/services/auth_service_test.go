// file: internal/services/auth_service_test.go
package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"sprintdeck/internal/cache"
	"sprintdeck/internal/config"
	"sprintdeck/internal/events"
	"sprintdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	nextID int64
	byID   map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byID: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id int64) error {
	if u, ok := f.byID[id]; ok {
		u.IsActive = false
	}
	return nil
}

func (f *fakeUserRepo) List(context.Context, *string, models.PaginationParams) (*models.PaginatedResponse[*models.User], error) {
	return &models.PaginatedResponse[*models.User]{}, nil
}

func (f *fakeUserRepo) UpdateLastSeen(_ context.Context, id int64) error {
	if u, ok := f.byID[id]; ok {
		u.LastSeen = time.Now()
	}
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:        "test-secret-please-rotate",
		JWTExpiry:        time.Hour,
		BCryptCost:       4, // MinCost keeps the suite fast
		MaxLoginAttempts: 3,
		LockoutDuration:  time.Minute,
	}
}

func newTestAuthService() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, cache.NewMemoryCache(), events.NewInMemoryBus(zap.NewNop()), testAuthConfig(), zap.NewNop())
	return svc, repo
}

func registerReq() RegisterRequest {
	return RegisterRequest{
		Email:      "ada@example.com",
		Username:   "ada",
		Password:   "correct-horse",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Department: "engineering",
		Position:   "Engineer",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleMember, resp.User.Role)
	assert.Empty(t, resp.User.PasswordHash, "the hash must never leave the service")

	login, err := svc.Login(ctx, LoginRequest{Email: "Ada@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	dup := registerReq()
	dup.Username = "otherada"
	_, err = svc.Register(ctx, dup)
	require.Error(t, err)
	assert.True(t, IsConflictError(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService()

	req := registerReq()
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, IsUnauthorizedError(err))
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"})
		require.Error(t, err)
	}

	// Even the correct password is rejected while locked out
	_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))
}

func TestLoginDeactivatedUser(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(ctx, resp.User.ID))

	_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.True(t, IsUnauthorizedError(err))
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	claims, err := svc.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "engineering", claims.Department)
	assert.Equal(t, models.RoleMember, claims.Role)
	assert.WithinDuration(t, resp.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.VerifyToken(context.Background(), "not.a.token")
	require.Error(t, err)
	assert.True(t, IsUnauthorizedError(err))
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	other := testAuthConfig()
	other.JWTSecret = "a-different-secret"
	otherSvc := NewAuthService(repo, cache.NewMemoryCache(), events.NewInMemoryBus(zap.NewNop()), other, zap.NewNop())

	_, err = otherSvc.VerifyToken(ctx, resp.Token)
	require.Error(t, err)
	assert.True(t, IsUnauthorizedError(err))
}
