package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByIDAny(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID, excludeID uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, params ListParams) ([]*domain.Project, dto.PaginationMeta, error)
	Create(ctx context.Context, project *domain.Project) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*domain.Project, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int64, error)
}

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	*RecordRepository[domain.Project, *domain.Project]
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{
		RecordRepository: NewRecordRepository[domain.Project, *domain.Project](db),
	}
}

// FindByNameAndOwner finds a non-deleted project with the given name under
// the given owner, excluding the given ID (uuid.Nil to exclude nothing).
// Used for the per-owner name uniqueness check.
func (r *projectRepositoryImpl) FindByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID, excludeID uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	query := r.DB().WithContext(ctx).
		Where("name = ? AND owner_id = ? AND is_deleted = ?", name, ownerID, false)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// CountAll counts non-deleted projects
func (r *projectRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB().WithContext(ctx).
		Model(&domain.Project{}).
		Where("is_deleted = ?", false).
		Count(&count).Error
	return count, err
}
