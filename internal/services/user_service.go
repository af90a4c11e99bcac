// file: internal/services/user_service.go
package services

import (
	"context"

	"sprintdeck/internal/models"
	"sprintdeck/internal/repositories"
	"sprintdeck/internal/validation"

	"go.uber.org/zap"
)

// userService implements UserService
type userService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates the user service
func NewUserService(users repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", id)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", id)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Position != nil {
		user.Position = *req.Position
	}

	if err := s.users.Update(ctx, user); err != nil {
		if err == repositories.ErrNotFound {
			return nil, EntityNotFoundError("user", id)
		}
		return nil, NewInternalError("failed to update user", err)
	}

	s.logger.Info("User profile updated", zap.Int64("user_id", id))
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) List(ctx context.Context, filter UserListFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error) {
	result, err := s.users.List(ctx, filter.Department, params)
	if err != nil {
		return nil, NewInternalError("failed to list users", err)
	}
	for _, u := range result.Data {
		u.PasswordHash = ""
	}
	return result, nil
}

func (s *userService) Deactivate(ctx context.Context, id int64) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		if err == repositories.ErrNotFound {
			return EntityNotFoundError("user", id)
		}
		return NewInternalError("failed to deactivate user", err)
	}
	s.logger.Info("User deactivated", zap.Int64("user_id", id))
	return nil
}
