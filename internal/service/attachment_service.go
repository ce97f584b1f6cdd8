package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

// Attachments above this size are rejected at registration time
const maxAttachmentSize = 50 << 20 // 50 MiB

// AttachmentService defines the interface for attachment metadata logic.
// Files themselves live in external storage; this service tracks their
// metadata against issues.
type AttachmentService interface {
	CreateAttachment(ctx context.Context, req *dto.CreateAttachmentRequest) (*dto.AttachmentResponse, error)
	GetAttachment(ctx context.Context, attachmentID uuid.UUID) (*dto.AttachmentResponse, error)
	ListByIssue(ctx context.Context, issueID uuid.UUID, query *dto.PaginationQuery) (*dto.Page[*dto.AttachmentResponse], error)
	DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error
}

// attachmentServiceImpl is the implementation of AttachmentService
type attachmentServiceImpl struct {
	attachmentRepo repository.AttachmentRepository
	issueRepo      repository.IssueRepository
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewAttachmentService creates a new instance of AttachmentService
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	issueRepo repository.IssueRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		attachmentRepo: attachmentRepo,
		issueRepo:      issueRepo,
		metrics:        m,
		logger:         logger,
	}
}

// CreateAttachment registers attachment metadata against a live issue
func (s *attachmentServiceImpl) CreateAttachment(ctx context.Context, req *dto.CreateAttachmentRequest) (*dto.AttachmentResponse, error) {
	if req.FileSize > maxAttachmentSize {
		return nil, response.NewAppError(response.ErrCodeValidation, "Attachment exceeds the maximum allowed size", "")
	}

	if _, err := s.issueRepo.FindByID(ctx, req.IssueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeReferential, "Issue not found", req.IssueID.String())
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify issue", err.Error())
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := &domain.Attachment{
		Filename:    req.Filename,
		FilePath:    req.FilePath,
		FileSize:    req.FileSize,
		ContentType: contentType,
		IssueID:     req.IssueID,
	}
	if uploaderID, ok := domain.UserIDFromContext(ctx); ok {
		attachment.UploaderID = &uploaderID
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create attachment", err.Error())
	}
	return dto.ToAttachmentResponse(attachment), nil
}

// GetAttachment retrieves attachment metadata by ID
func (s *attachmentServiceImpl) GetAttachment(ctx context.Context, attachmentID uuid.UUID) (*dto.AttachmentResponse, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Attachment")
	}
	return dto.ToAttachmentResponse(attachment), nil
}

// ListByIssue returns an issue's attachments newest first
func (s *attachmentServiceImpl) ListByIssue(ctx context.Context, issueID uuid.UUID, query *dto.PaginationQuery) (*dto.Page[*dto.AttachmentResponse], error) {
	if _, err := s.issueRepo.FindByID(ctx, issueID); err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}

	attachments, meta, err := s.attachmentRepo.FindByIssue(ctx, issueID, query.Page, query.Size)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list attachments", err.Error())
	}

	items := make([]*dto.AttachmentResponse, len(attachments))
	for i, a := range attachments {
		items[i] = dto.ToAttachmentResponse(a)
	}
	return dto.NewPage(items, meta), nil
}

// DeleteAttachment soft-deletes attachment metadata
func (s *attachmentServiceImpl) DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error {
	if err := s.attachmentRepo.SoftDelete(ctx, attachmentID); err != nil {
		return notFoundOrInternal(err, "Attachment")
	}
	return nil
}
