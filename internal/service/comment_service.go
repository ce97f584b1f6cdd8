package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetComment(ctx context.Context, commentID uuid.UUID) (*dto.CommentResponse, error)
	ListByIssue(ctx context.Context, issueID uuid.UUID, query *dto.PaginationQuery) (*dto.Page[*dto.CommentResponse], error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, query *dto.PaginationQuery) (*dto.Page[*dto.CommentResponse], error)
	UpdateComment(ctx context.Context, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	issueRepo   repository.IssueRepository
	userRepo    repository.UserRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	issueRepo repository.IssueRepository,
	userRepo repository.UserRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		issueRepo:   issueRepo,
		userRepo:    userRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateComment adds a comment to a live issue. Content is trimmed;
// whitespace-only content is rejected.
func (s *commentServiceImpl) CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Comment content must not be blank", "")
	}

	if _, err := s.issueRepo.FindByID(ctx, req.IssueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeReferential, "Issue not found", req.IssueID.String())
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify issue", err.Error())
	}

	comment := &domain.Comment{
		Content: content,
		IssueID: req.IssueID,
	}
	if authorID, ok := domain.UserIDFromContext(ctx); ok {
		if _, err := s.userRepo.FindActiveByID(ctx, authorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeReferential, "Author not found or inactive", authorID.String())
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify author", err.Error())
		}
		comment.AuthorID = &authorID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}
	return dto.ToCommentResponse(comment), nil
}

// GetComment retrieves a comment by ID
func (s *commentServiceImpl) GetComment(ctx context.Context, commentID uuid.UUID) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Comment")
	}
	return dto.ToCommentResponse(comment), nil
}

// ListByIssue returns an issue's comments oldest first
func (s *commentServiceImpl) ListByIssue(ctx context.Context, issueID uuid.UUID, query *dto.PaginationQuery) (*dto.Page[*dto.CommentResponse], error) {
	if _, err := s.issueRepo.FindByID(ctx, issueID); err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}

	comments, meta, err := s.commentRepo.FindByIssue(ctx, issueID, query.Page, query.Size)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list comments", err.Error())
	}
	return dto.NewPage(toCommentResponses(comments), meta), nil
}

// ListByAuthor returns a user's comments newest first
func (s *commentServiceImpl) ListByAuthor(ctx context.Context, authorID uuid.UUID, query *dto.PaginationQuery) (*dto.Page[*dto.CommentResponse], error) {
	comments, meta, err := s.commentRepo.FindByAuthor(ctx, authorID, query.Page, query.Size)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list comments", err.Error())
	}
	return dto.NewPage(toCommentResponses(comments), meta), nil
}

// UpdateComment applies a versioned content edit. Only the original
// author may edit a comment.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Comment content must not be blank", "")
	}

	current, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Comment")
	}

	if current.AuthorID != nil {
		callerID, ok := domain.UserIDFromContext(ctx)
		if !ok || callerID != *current.AuthorID {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "Only the author can edit a comment", "")
		}
	}

	comment, err := s.commentRepo.UpdateVersioned(ctx, commentID, req.Version, map[string]interface{}{
		"content": content,
	})
	if err != nil {
		return nil, translateUpdateError(err, "Comment", s.metrics)
	}
	return dto.ToCommentResponse(comment), nil
}

// DeleteComment soft-deletes a comment
func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	if err := s.commentRepo.SoftDelete(ctx, commentID); err != nil {
		return notFoundOrInternal(err, "Comment")
	}
	return nil
}

func toCommentResponses(comments []*domain.Comment) []*dto.CommentResponse {
	items := make([]*dto.CommentResponse, len(comments))
	for i, c := range comments {
		items[i] = dto.ToCommentResponse(c)
	}
	return items
}
