package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByIDAny(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByIssue(ctx context.Context, issueID uuid.UUID, page, size int) ([]*domain.Comment, dto.PaginationMeta, error)
	FindAllByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.Comment, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID, page, size int) ([]*domain.Comment, dto.PaginationMeta, error)
	List(ctx context.Context, params ListParams) ([]*domain.Comment, dto.PaginationMeta, error)
	Create(ctx context.Context, comment *domain.Comment) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*domain.Comment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	*RecordRepository[domain.Comment, *domain.Comment]
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{
		RecordRepository: NewRecordRepository[domain.Comment, *domain.Comment](db),
	}
}

// FindByIssue returns an issue's comments oldest first, so a thread reads
// top to bottom
func (r *commentRepositoryImpl) FindByIssue(ctx context.Context, issueID uuid.UUID, page, size int) ([]*domain.Comment, dto.PaginationMeta, error) {
	return r.List(ctx, ListParams{
		Page:    page,
		Size:    size,
		Filters: map[string]interface{}{"issue_id": issueID},
		OrderBy: "created_at",
		Desc:    false,
	})
}

// FindAllByIssue returns an issue's whole comment thread oldest first,
// without pagination
func (r *commentRepositoryImpl) FindAllByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Where("issue_id = ? AND is_deleted = ?", issueID, false).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindByAuthor returns a user's comments newest first
func (r *commentRepositoryImpl) FindByAuthor(ctx context.Context, authorID uuid.UUID, page, size int) ([]*domain.Comment, dto.PaginationMeta, error) {
	return r.List(ctx, ListParams{
		Page:    page,
		Size:    size,
		Filters: map[string]interface{}{"author_id": authorID},
		OrderBy: "created_at",
		Desc:    true,
	})
}
