package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

// IssueService defines the interface for issue business logic
type IssueService interface {
	CreateIssue(ctx context.Context, req *dto.CreateIssueRequest) (*dto.IssueResponse, error)
	GetIssue(ctx context.Context, issueID uuid.UUID) (*dto.IssueResponse, error)
	GetIssueDetail(ctx context.Context, issueID uuid.UUID) (*dto.IssueDetailResponse, error)
	ListIssues(ctx context.Context, query *dto.PaginationQuery, filters *dto.IssueFilters) (*dto.Page[*dto.IssueResponse], error)
	SearchIssues(ctx context.Context, q string, query *dto.PaginationQuery) (*dto.Page[*dto.IssueResponse], error)
	UpdateIssue(ctx context.Context, issueID uuid.UUID, req *dto.UpdateIssueRequest) (*dto.IssueResponse, error)
	UpdateIssueStatus(ctx context.Context, issueID uuid.UUID, req *dto.UpdateIssueStatusRequest) (*dto.IssueResponse, error)
	DeleteIssue(ctx context.Context, issueID uuid.UUID) error
	RestoreIssue(ctx context.Context, issueID uuid.UUID) (*dto.IssueResponse, error)
	GetIssueStatistics(ctx context.Context, projectID *uuid.UUID) (*dto.IssueStatisticsResponse, error)
	BulkUpdateStatus(ctx context.Context, req *dto.BulkStatusUpdateRequest) (*dto.BulkStatusUpdateResponse, error)
}

// issueServiceImpl is the implementation of IssueService
type issueServiceImpl struct {
	issueRepo   repository.IssueRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	labelRepo   repository.LabelRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewIssueService creates a new instance of IssueService
func NewIssueService(
	issueRepo repository.IssueRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	labelRepo repository.LabelRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) IssueService {
	return &issueServiceImpl{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		labelRepo:   labelRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateIssue creates a new issue in the open state
func (s *issueServiceImpl) CreateIssue(ctx context.Context, req *dto.CreateIssueRequest) (*dto.IssueResponse, error) {
	issueType := domain.IssueType(req.Type)
	if req.Type == "" {
		issueType = domain.IssueTypeTask
	}
	if !issueType.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid issue type: "+req.Type, "")
	}

	priority := domain.IssuePriority(req.Priority)
	if req.Priority == "" {
		priority = domain.IssuePriorityMedium
	}
	if !priority.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid priority: "+req.Priority, "")
	}

	project, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeReferential, "Project not found", req.ProjectID.String())
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify project", err.Error())
	}
	if !project.CanAddIssues() {
		return nil, response.NewAppError(response.ErrCodeValidation,
			"Cannot add issues to a "+string(project.Status)+" project", "")
	}

	// Titles are unique within a project
	if _, err := s.issueRepo.FindByTitleInProject(ctx, req.Title, req.ProjectID, uuid.Nil); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Issue title already exists in this project", req.Title)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check title uniqueness", err.Error())
	}

	if req.AssigneeID != nil {
		if _, err := s.userRepo.FindActiveByID(ctx, *req.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeReferential, "Assignee not found or inactive", req.AssigneeID.String())
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify assignee", err.Error())
		}
	}

	issue := &domain.Issue{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.IssueStatusOpen,
		Type:        issueType,
		Priority:    priority,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	}

	// Creator comes from the auth middleware when present. A stale token
	// for a deactivated account must not create records.
	if creatorID, ok := domain.UserIDFromContext(ctx); ok {
		if _, err := s.userRepo.FindActiveByID(ctx, creatorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeReferential, "Creator not found or inactive", creatorID.String())
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify creator", err.Error())
		}
		issue.CreatorID = &creatorID
	}

	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create issue", err.Error())
	}

	s.metrics.IncrementIssueCreated()
	s.logger.Info("Issue created",
		zap.String("issue_id", issue.ID.String()),
		zap.String("project_id", issue.ProjectID.String()),
	)

	return dto.ToIssueResponse(issue), nil
}

// GetIssue retrieves an issue by ID
func (s *issueServiceImpl) GetIssue(ctx context.Context, issueID uuid.UUID) (*dto.IssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}
	return dto.ToIssueResponse(issue), nil
}

// GetIssueDetail retrieves an issue with its comment thread (oldest first)
// and labels (alphabetical)
func (s *issueServiceImpl) GetIssueDetail(ctx context.Context, issueID uuid.UUID) (*dto.IssueDetailResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}

	comments, err := s.commentRepo.FindAllByIssue(ctx, issueID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load comments", err.Error())
	}
	labels, err := s.labelRepo.FindLabelsByIssue(ctx, issueID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load labels", err.Error())
	}

	detail := &dto.IssueDetailResponse{
		Issue:    *dto.ToIssueResponse(issue),
		Comments: make([]dto.CommentResponse, len(comments)),
		Labels:   make([]dto.LabelResponse, len(labels)),
	}
	for i, c := range comments {
		detail.Comments[i] = *dto.ToCommentResponse(c)
	}
	for i, l := range labels {
		detail.Labels[i] = *dto.ToLabelResponse(l)
	}
	return detail, nil
}

// ListIssues returns one page of issues matching the equality filters
func (s *issueServiceImpl) ListIssues(ctx context.Context, query *dto.PaginationQuery, filters *dto.IssueFilters) (*dto.Page[*dto.IssueResponse], error) {
	filterMap := map[string]interface{}{}
	if filters != nil {
		if filters.ProjectID != nil {
			filterMap["project_id"] = *filters.ProjectID
		}
		if filters.Status != "" {
			if !domain.IssueStatus(filters.Status).Valid() {
				return nil, response.NewAppError(response.ErrCodeValidation, "Invalid status: "+filters.Status, "")
			}
			filterMap["status"] = filters.Status
		}
		if filters.AssigneeID != nil {
			filterMap["assignee_id"] = *filters.AssigneeID
		}
		if filters.CreatorID != nil {
			filterMap["creator_id"] = *filters.CreatorID
		}
	}

	issues, meta, err := s.issueRepo.List(ctx, repository.ListParams{
		Page:    query.Page,
		Size:    query.Size,
		Filters: filterMap,
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list issues", err.Error())
	}

	items := make([]*dto.IssueResponse, len(issues))
	for i, issue := range issues {
		items[i] = dto.ToIssueResponse(issue)
	}
	return dto.NewPage(items, meta), nil
}

// SearchIssues finds issues whose title or description contains the query,
// case-insensitively
func (s *issueServiceImpl) SearchIssues(ctx context.Context, q string, query *dto.PaginationQuery) (*dto.Page[*dto.IssueResponse], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Search query must not be empty", "")
	}

	issues, meta, err := s.issueRepo.Search(ctx, q, query.Page, query.Size)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to search issues", err.Error())
	}

	items := make([]*dto.IssueResponse, len(issues))
	for i, issue := range issues {
		items[i] = dto.ToIssueResponse(issue)
	}
	return dto.NewPage(items, meta), nil
}

// UpdateIssue applies a versioned update to an issue. Status changes must
// follow the workflow graph; entering resolved or closed stamps the
// matching timestamp and reopening clears both.
func (s *issueServiceImpl) UpdateIssue(ctx context.Context, issueID uuid.UUID, req *dto.UpdateIssueRequest) (*dto.IssueResponse, error) {
	current, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}

	fields := map[string]interface{}{}

	if req.Title != nil {
		if _, err := s.issueRepo.FindByTitleInProject(ctx, *req.Title, current.ProjectID, issueID); err == nil {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Issue title already exists in this project", *req.Title)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check title uniqueness", err.Error())
		}
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Type != nil {
		if !domain.IssueType(*req.Type).Valid() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid issue type: "+*req.Type, "")
		}
		fields["type"] = *req.Type
	}
	if req.Priority != nil {
		if !domain.IssuePriority(*req.Priority).Valid() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid priority: "+*req.Priority, "")
		}
		fields["priority"] = *req.Priority
	}
	if req.AssigneeID != nil {
		if _, err := s.userRepo.FindActiveByID(ctx, *req.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeReferential, "Assignee not found or inactive", req.AssigneeID.String())
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify assignee", err.Error())
		}
		fields["assignee_id"] = *req.AssigneeID
	}

	var transitionFrom, transitionTo domain.IssueStatus
	if req.Status != nil {
		newStatus := domain.IssueStatus(*req.Status)
		if !newStatus.Valid() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid status: "+*req.Status, "")
		}
		if !domain.CanTransition(current.Status, newStatus) {
			return nil, response.NewInvalidTransitionError(string(current.Status), string(newStatus))
		}
		if newStatus != current.Status {
			transitionFrom, transitionTo = current.Status, newStatus
			applyStatusTimestamps(fields, newStatus)
		}
		fields["status"] = *req.Status
	}

	if len(fields) == 0 {
		return nil, response.NewAppError(response.ErrCodeValidation, "No fields to update", "")
	}

	issue, err := s.issueRepo.UpdateVersioned(ctx, issueID, req.Version, fields)
	if err != nil {
		return nil, translateUpdateError(err, "Issue", s.metrics)
	}

	if transitionTo != "" {
		s.metrics.RecordStatusTransition(string(transitionFrom), string(transitionTo))
	}

	return dto.ToIssueResponse(issue), nil
}

// UpdateIssueStatus changes only the status, validating the transition
// against the current state. The current version backs the conditional
// write, so a concurrent edit surfaces as a version conflict.
func (s *issueServiceImpl) UpdateIssueStatus(ctx context.Context, issueID uuid.UUID, req *dto.UpdateIssueStatusRequest) (*dto.IssueResponse, error) {
	newStatus := domain.IssueStatus(req.Status)
	if !newStatus.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid status: "+req.Status, "")
	}

	current, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}
	if !domain.CanTransition(current.Status, newStatus) {
		return nil, response.NewInvalidTransitionError(string(current.Status), string(newStatus))
	}
	if newStatus == current.Status {
		return dto.ToIssueResponse(current), nil
	}

	fields := map[string]interface{}{"status": string(newStatus)}
	applyStatusTimestamps(fields, newStatus)

	issue, err := s.issueRepo.UpdateVersioned(ctx, issueID, current.Version, fields)
	if err != nil {
		return nil, translateUpdateError(err, "Issue", s.metrics)
	}

	s.metrics.RecordStatusTransition(string(current.Status), string(newStatus))
	return dto.ToIssueResponse(issue), nil
}

// DeleteIssue soft-deletes an issue
func (s *issueServiceImpl) DeleteIssue(ctx context.Context, issueID uuid.UUID) error {
	if err := s.issueRepo.SoftDelete(ctx, issueID); err != nil {
		return notFoundOrInternal(err, "Issue")
	}
	return nil
}

// RestoreIssue reverses a soft delete
func (s *issueServiceImpl) RestoreIssue(ctx context.Context, issueID uuid.UUID) (*dto.IssueResponse, error) {
	if err := s.issueRepo.Restore(ctx, issueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Issue not found or not deleted", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to restore issue", err.Error())
	}
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}
	return dto.ToIssueResponse(issue), nil
}

// GetIssueStatistics summarizes issue counts, optionally scoped to a
// project
func (s *issueServiceImpl) GetIssueStatistics(ctx context.Context, projectID *uuid.UUID) (*dto.IssueStatisticsResponse, error) {
	if projectID != nil {
		if _, err := s.projectRepo.FindByID(ctx, *projectID); err != nil {
			return nil, notFoundOrInternal(err, "Project")
		}
	}

	total, err := s.issueRepo.CountAll(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count issues", err.Error())
	}
	open, err := s.issueRepo.CountByStatuses(ctx, projectID, []domain.IssueStatus{
		domain.IssueStatusOpen, domain.IssueStatusInProgress, domain.IssueStatusInReview, domain.IssueStatusReopened,
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count open issues", err.Error())
	}
	closed, err := s.issueRepo.CountByStatuses(ctx, projectID, []domain.IssueStatus{
		domain.IssueStatusResolved, domain.IssueStatusClosed,
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count closed issues", err.Error())
	}

	rate := 0.0
	if total > 0 {
		rate = float64(closed) / float64(total)
	}

	return &dto.IssueStatisticsResponse{
		TotalIssues:    total,
		OpenIssues:     open,
		ClosedIssues:   closed,
		ResolutionRate: rate,
	}, nil
}

// applyStatusTimestamps stamps or clears the resolution timestamps for a
// status change
func applyStatusTimestamps(fields map[string]interface{}, newStatus domain.IssueStatus) {
	now := time.Now().UTC()
	switch newStatus {
	case domain.IssueStatusResolved:
		fields["resolved_at"] = now
	case domain.IssueStatusClosed:
		fields["closed_at"] = now
	case domain.IssueStatusReopened:
		fields["resolved_at"] = nil
		fields["closed_at"] = nil
	}
}
