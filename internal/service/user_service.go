package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, query *dto.PaginationQuery, role string, isActive *bool) (*dto.Page[*dto.UserResponse], error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	RestoreUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

// userServiceImpl is the implementation of UserService
type userServiceImpl struct {
	userRepo repository.UserRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, m *metrics.Metrics, logger *zap.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		metrics:  m,
		logger:   logger,
	}
}

// CreateUser creates a new user with a unique email
func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := domain.UserRole(req.Role)
	if req.Role == "" {
		role = domain.UserRoleDeveloper
	}
	if !role.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid role: "+req.Role, "")
	}

	// Email uniqueness among non-deleted users
	if _, err := s.userRepo.FindByEmail(ctx, req.Email, uuid.Nil); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Email already in use", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check email uniqueness", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
		AvatarURL:    req.AvatarURL,
		Bio:          req.Bio,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create user", err.Error())
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return dto.ToUserResponse(user), nil
}

// GetUser retrieves a user by ID
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User")
	}
	return dto.ToUserResponse(user), nil
}

// ListUsers returns one page of users, optionally filtered by role and
// active state
func (s *userServiceImpl) ListUsers(ctx context.Context, query *dto.PaginationQuery, role string, isActive *bool) (*dto.Page[*dto.UserResponse], error) {
	filters := map[string]interface{}{}
	if role != "" {
		if !domain.UserRole(role).Valid() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid role: "+role, "")
		}
		filters["role"] = role
	}
	if isActive != nil {
		filters["is_active"] = *isActive
	}

	users, meta, err := s.userRepo.List(ctx, repository.ListParams{
		Page:    query.Page,
		Size:    query.Size,
		Filters: filters,
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list users", err.Error())
	}

	items := make([]*dto.UserResponse, len(users))
	for i, u := range users {
		items[i] = dto.ToUserResponse(u)
	}
	return dto.NewPage(items, meta), nil
}

// UpdateUser applies a versioned update to a user
func (s *userServiceImpl) UpdateUser(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	fields := map[string]interface{}{}

	if req.Email != nil {
		if _, err := s.userRepo.FindByEmail(ctx, *req.Email, userID); err == nil {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Email already in use", *req.Email)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check email uniqueness", err.Error())
		}
		fields["email"] = *req.Email
	}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Role != nil {
		if !domain.UserRole(*req.Role).Valid() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid role: "+*req.Role, "")
		}
		fields["role"] = *req.Role
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}

	if len(fields) == 0 {
		return nil, response.NewAppError(response.ErrCodeValidation, "No fields to update", "")
	}

	user, err := s.userRepo.UpdateVersioned(ctx, userID, req.Version, fields)
	if err != nil {
		return nil, translateUpdateError(err, "User", s.metrics)
	}
	return dto.ToUserResponse(user), nil
}

// DeleteUser soft-deletes a user and deactivates the account
func (s *userServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SoftDelete(ctx, userID); err != nil {
		return notFoundOrInternal(err, "User")
	}
	if err := s.userRepo.Deactivate(ctx, userID); err != nil {
		s.logger.Error("Failed to deactivate deleted user",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// RestoreUser reverses a soft delete. The account stays inactive until
// explicitly reactivated.
func (s *userServiceImpl) RestoreUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	if err := s.userRepo.Restore(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "User not found or not deleted", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to restore user", err.Error())
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal(err, "User")
	}
	return dto.ToUserResponse(user), nil
}
