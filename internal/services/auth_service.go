// file: internal/services/auth_service.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sprintdeck/internal/cache"
	"sprintdeck/internal/config"
	"sprintdeck/internal/events"
	"sprintdeck/internal/models"
	"sprintdeck/internal/repositories"
	"sprintdeck/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService with bcrypt credentials, HS256 tokens
// and a cache-backed login lockout.
type authService struct {
	users  repositories.UserRepository
	cache  cache.Cache
	bus    events.EventBus
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewAuthService creates the auth service
func NewAuthService(users repositories.UserRepository, c cache.Cache, bus events.EventBus, cfg config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{users: users, cache: c, bus: bus, cfg: cfg, logger: logger}
}

type tokenClaims struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	jwt.RegisteredClaims
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, NewInternalError("failed to check email", err)
	} else if existing != nil {
		return nil, EntityAlreadyExistsError("user", "email", email)
	}
	if existing, err := s.users.GetByUsername(ctx, req.Username); err != nil {
		return nil, NewInternalError("failed to check username", err)
	} else if existing != nil {
		return nil, EntityAlreadyExistsError("user", "username", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		return nil, NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Email:        email,
		Username:     req.Username,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Department:   req.Department,
		Position:     req.Position,
		Role:         models.RoleMember,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, NewInternalError("failed to create user", err)
	}

	s.bus.Publish(ctx, events.NewEntityEvent(events.TypeUserRegistered, user.ID, "user", strconv.FormatInt(user.ID, 10), nil))
	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("department", user.Department))

	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	lockKey := "login_attempts:" + email

	if locked, err := s.isLockedOut(ctx, lockKey); err == nil && locked {
		return nil, NewForbiddenError("account temporarily locked, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, NewInternalError("failed to load user", err)
	}
	if user == nil || !user.IsActive {
		s.recordFailedAttempt(ctx, lockKey)
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedAttempt(ctx, lockKey)
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if err := s.cache.Delete(ctx, lockKey); err != nil {
		s.logger.Warn("Failed to clear login attempts", zap.Error(err))
	}
	if err := s.users.UpdateLastSeen(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to update last seen", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return s.issueToken(user)
}

func (s *authService) VerifyToken(_ context.Context, token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return nil, NewUnauthorizedError("invalid token claims")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, NewUnauthorizedError("invalid token subject")
	}

	return &TokenClaims{
		UserID:     userID,
		Username:   claims.Username,
		Email:      claims.Email,
		Role:       claims.Role,
		Department: claims.Department,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

func (s *authService) issueToken(user *models.User) (*AuthResponse, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiry)

	claims := tokenClaims{
		Username:   user.Username,
		Email:      user.Email,
		Role:       string(user.Role),
		Department: user.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, NewInternalError("failed to sign token", err)
	}

	user.PasswordHash = ""
	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) isLockedOut(ctx context.Context, key string) (bool, error) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return false, nil
	}
	attempts, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return false, err
	}
	return attempts >= int64(s.cfg.MaxLoginAttempts), nil
}

func (s *authService) recordFailedAttempt(ctx context.Context, key string) {
	attempts, err := s.cache.Increment(ctx, key, s.cfg.LockoutDuration)
	if err != nil {
		s.logger.Warn("Failed to record login attempt", zap.Error(err))
		return
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		s.logger.Warn("Login lockout engaged", zap.String("key", key), zap.Int64("attempts", attempts))
	}
}
