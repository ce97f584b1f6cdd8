package service

import (
	"context"
	"errors"
	"regexp"
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

// Hex color in #RRGGBB form
var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const defaultLabelColor = "#007bff"

// LabelService defines the interface for label business logic, including
// issue-label assignments
type LabelService interface {
	CreateLabel(ctx context.Context, req *dto.CreateLabelRequest) (*dto.LabelResponse, error)
	GetLabel(ctx context.Context, labelID uuid.UUID) (*dto.LabelResponse, error)
	ListLabels(ctx context.Context, query *dto.PaginationQuery, projectID *uuid.UUID) (*dto.Page[*dto.LabelResponse], error)
	UpdateLabel(ctx context.Context, labelID uuid.UUID, req *dto.UpdateLabelRequest) (*dto.LabelResponse, error)
	DeleteLabel(ctx context.Context, labelID uuid.UUID) error

	AssignLabel(ctx context.Context, issueID, labelID uuid.UUID) error
	RemoveLabel(ctx context.Context, issueID, labelID uuid.UUID) error
	ReplaceLabels(ctx context.Context, issueID uuid.UUID, req *dto.ReplaceLabelsRequest) ([]*dto.LabelResponse, error)
	ListByIssue(ctx context.Context, issueID uuid.UUID) ([]*dto.LabelResponse, error)
}

// labelServiceImpl is the implementation of LabelService
type labelServiceImpl struct {
	labelRepo   repository.LabelRepository
	issueRepo   repository.IssueRepository
	projectRepo repository.ProjectRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewLabelService creates a new instance of LabelService
func NewLabelService(
	labelRepo repository.LabelRepository,
	issueRepo repository.IssueRepository,
	projectRepo repository.ProjectRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) LabelService {
	return &labelServiceImpl{
		labelRepo:   labelRepo,
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateLabel creates a new label. Label names are unique across the
// whole tracker, not per project.
func (s *labelServiceImpl) CreateLabel(ctx context.Context, req *dto.CreateLabelRequest) (*dto.LabelResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Label name must not be blank", "")
	}

	color := req.Color
	if color == "" {
		color = defaultLabelColor
	}
	if !colorPattern.MatchString(color) {
		return nil, response.NewAppError(response.ErrCodeValidation, "Color must be a #RRGGBB hex value", color)
	}

	if req.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(ctx, *req.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeReferential, "Project not found", req.ProjectID.String())
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify project", err.Error())
		}
	}

	if _, err := s.labelRepo.FindByName(ctx, name, uuid.Nil); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Label name already in use", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check label name", err.Error())
	}

	label := &domain.Label{
		Name:        name,
		Color:       color,
		Description: req.Description,
		ProjectID:   req.ProjectID,
	}

	if err := s.labelRepo.Create(ctx, label); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create label", err.Error())
	}
	return dto.ToLabelResponse(label), nil
}

// GetLabel retrieves a label by ID
func (s *labelServiceImpl) GetLabel(ctx context.Context, labelID uuid.UUID) (*dto.LabelResponse, error) {
	label, err := s.labelRepo.FindByID(ctx, labelID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Label")
	}
	return dto.ToLabelResponse(label), nil
}

// ListLabels returns one page of labels, alphabetical, optionally scoped
// to a project
func (s *labelServiceImpl) ListLabels(ctx context.Context, query *dto.PaginationQuery, projectID *uuid.UUID) (*dto.Page[*dto.LabelResponse], error) {
	filters := map[string]interface{}{}
	if projectID != nil {
		filters["project_id"] = *projectID
	}

	labels, meta, err := s.labelRepo.List(ctx, repository.ListParams{
		Page:    query.Page,
		Size:    query.Size,
		Filters: filters,
		OrderBy: "name",
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list labels", err.Error())
	}
	return dto.NewPage(toLabelResponses(labels), meta), nil
}

// UpdateLabel applies a versioned update to a label
func (s *labelServiceImpl) UpdateLabel(ctx context.Context, labelID uuid.UUID, req *dto.UpdateLabelRequest) (*dto.LabelResponse, error) {
	fields := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, response.NewAppError(response.ErrCodeValidation, "Label name must not be blank", "")
		}
		if _, err := s.labelRepo.FindByName(ctx, name, labelID); err == nil {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Label name already in use", name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check label name", err.Error())
		}
		fields["name"] = name
	}
	if req.Color != nil {
		if !colorPattern.MatchString(*req.Color) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Color must be a #RRGGBB hex value", *req.Color)
		}
		fields["color"] = *req.Color
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	if len(fields) == 0 {
		return nil, response.NewAppError(response.ErrCodeValidation, "No fields to update", "")
	}

	label, err := s.labelRepo.UpdateVersioned(ctx, labelID, req.Version, fields)
	if err != nil {
		return nil, translateUpdateError(err, "Label", s.metrics)
	}
	return dto.ToLabelResponse(label), nil
}

// DeleteLabel soft-deletes a label and removes it from every issue
func (s *labelServiceImpl) DeleteLabel(ctx context.Context, labelID uuid.UUID) error {
	if err := s.labelRepo.SoftDelete(ctx, labelID); err != nil {
		return notFoundOrInternal(err, "Label")
	}
	if err := s.labelRepo.RemoveAssignmentsForLabel(ctx, labelID); err != nil {
		s.logger.Error("Failed to remove assignments of deleted label",
			zap.String("label_id", labelID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// AssignLabel attaches a label to an issue. Assigning an already-attached
// label is rejected.
func (s *labelServiceImpl) AssignLabel(ctx context.Context, issueID, labelID uuid.UUID) error {
	if _, err := s.issueRepo.FindByID(ctx, issueID); err != nil {
		return notFoundOrInternal(err, "Issue")
	}
	if _, err := s.labelRepo.FindByID(ctx, labelID); err != nil {
		return notFoundOrInternal(err, "Label")
	}

	if _, err := s.labelRepo.FindAssignment(ctx, issueID, labelID); err == nil {
		return response.NewAppError(response.ErrCodeAlreadyExists, "Label already assigned to this issue", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check assignment", err.Error())
	}

	if err := s.labelRepo.AssignLabel(ctx, issueID, labelID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to assign label", err.Error())
	}
	return nil
}

// RemoveLabel detaches a label from an issue
func (s *labelServiceImpl) RemoveLabel(ctx context.Context, issueID, labelID uuid.UUID) error {
	removed, err := s.labelRepo.RemoveLabel(ctx, issueID, labelID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove label", err.Error())
	}
	if !removed {
		return response.NewAppError(response.ErrCodeNotFound, "Label is not assigned to this issue", "")
	}
	return nil
}

// ReplaceLabels atomically swaps an issue's label set. Every requested
// label must exist; otherwise nothing changes and the missing IDs are
// reported. An empty list clears all labels.
func (s *labelServiceImpl) ReplaceLabels(ctx context.Context, issueID uuid.UUID, req *dto.ReplaceLabelsRequest) ([]*dto.LabelResponse, error) {
	if _, err := s.issueRepo.FindByID(ctx, issueID); err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}

	// Collapse duplicates so the unique index never trips on the insert
	unique := make([]uuid.UUID, 0, len(req.LabelIDs))
	seen := make(map[uuid.UUID]bool, len(req.LabelIDs))
	for _, id := range req.LabelIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	labels, err := s.labelRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load labels", err.Error())
	}
	if len(labels) != len(unique) {
		found := make(map[uuid.UUID]bool, len(labels))
		for _, l := range labels {
			found[l.ID] = true
		}
		var missing []string
		for _, id := range unique {
			if !found[id] {
				missing = append(missing, id.String())
			}
		}
		return nil, response.NewAppError(response.ErrCodeReferential,
			"Some labels do not exist", strings.Join(missing, ", "))
	}

	if err := s.labelRepo.ReplaceIssueLabels(ctx, issueID, unique); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to replace labels", err.Error())
	}

	result, err := s.labelRepo.FindLabelsByIssue(ctx, issueID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load labels", err.Error())
	}
	return toLabelResponses(result), nil
}

// ListByIssue returns an issue's labels in alphabetical order
func (s *labelServiceImpl) ListByIssue(ctx context.Context, issueID uuid.UUID) ([]*dto.LabelResponse, error) {
	if _, err := s.issueRepo.FindByID(ctx, issueID); err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}
	labels, err := s.labelRepo.FindLabelsByIssue(ctx, issueID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load labels", err.Error())
	}
	return toLabelResponses(labels), nil
}

func toLabelResponses(labels []*domain.Label) []*dto.LabelResponse {
	items := make([]*dto.LabelResponse, len(labels))
	for i, l := range labels {
		items[i] = dto.ToLabelResponse(l)
	}
	return items
}
