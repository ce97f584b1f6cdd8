package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByIDAny(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string, excludeID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, params ListParams) ([]*domain.User, dto.PaginationMeta, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*domain.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// userRepositoryImpl is the GORM implementation of UserRepository
type userRepositoryImpl struct {
	*RecordRepository[domain.User, *domain.User]
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{
		RecordRepository: NewRecordRepository[domain.User, *domain.User](db),
	}
}

// FindActiveByID finds a user that is neither deleted nor deactivated.
// Referential checks (creator, assignee, author, owner) go through this.
func (r *userRepositoryImpl) FindActiveByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.DB().WithContext(ctx).
		Where("id = ? AND is_deleted = ? AND is_active = ?", id, false, true).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Deactivate marks a deleted or surviving user as inactive. Deleting a
// user both soft-deletes and deactivates, so restoring later does not
// silently reopen the account.
func (r *userRepositoryImpl) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.DB().WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error
}

// RecordLogin stamps the user's last successful login
func (r *userRepositoryImpl) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB().WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"last_login_at": at,
			"updated_at":    at,
		}).Error
}

// FindByEmail finds a non-deleted user by email, excluding the given ID
// (uuid.Nil to exclude nothing). Used for uniqueness checks.
func (r *userRepositoryImpl) FindByEmail(ctx context.Context, email string, excludeID uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := r.DB().WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
