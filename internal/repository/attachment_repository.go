package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
)

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	FindByIDAny(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	FindByIssue(ctx context.Context, issueID uuid.UUID, page, size int) ([]*domain.Attachment, dto.PaginationMeta, error)
	List(ctx context.Context, params ListParams) ([]*domain.Attachment, dto.PaginationMeta, error)
	Create(ctx context.Context, attachment *domain.Attachment) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*domain.Attachment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	SumSizeByIssue(ctx context.Context, issueID uuid.UUID) (int64, error)
}

// attachmentRepositoryImpl is the GORM implementation of AttachmentRepository
type attachmentRepositoryImpl struct {
	*RecordRepository[domain.Attachment, *domain.Attachment]
}

// NewAttachmentRepository creates a new instance of AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepositoryImpl{
		RecordRepository: NewRecordRepository[domain.Attachment, *domain.Attachment](db),
	}
}

// FindByIssue returns an issue's attachments newest first
func (r *attachmentRepositoryImpl) FindByIssue(ctx context.Context, issueID uuid.UUID, page, size int) ([]*domain.Attachment, dto.PaginationMeta, error) {
	return r.List(ctx, ListParams{
		Page:    page,
		Size:    size,
		Filters: map[string]interface{}{"issue_id": issueID},
		OrderBy: "created_at",
		Desc:    true,
	})
}

// SumSizeByIssue totals the stored bytes of an issue's non-deleted
// attachments
func (r *attachmentRepositoryImpl) SumSizeByIssue(ctx context.Context, issueID uuid.UUID) (int64, error) {
	var total int64
	if err := r.DB().WithContext(ctx).
		Model(&domain.Attachment{}).
		Where("issue_id = ? AND is_deleted = ?", issueID, false).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
