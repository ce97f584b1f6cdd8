package dto

import (
	"time"

	"github.com/google/uuid"

	"issue-tracker-api/internal/domain"
)

// CreateIssueRequest represents the request to create a new issue
type CreateIssueRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=500"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	ProjectID   uuid.UUID  `json:"projectId" binding:"required"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
}

// UpdateIssueRequest represents the request to update an issue.
// Version is required for the optimistic concurrency check.
type UpdateIssueRequest struct {
	Version     int        `json:"version" binding:"required,min=1"`
	Title       *string    `json:"title,omitempty" binding:"omitempty,min=1,max=500"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Type        *string    `json:"type,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
}

// UpdateIssueStatusRequest represents the request to change only the status
type UpdateIssueStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// IssueFilters holds the equality filters accepted by issue listing
type IssueFilters struct {
	ProjectID  *uuid.UUID `form:"projectId"`
	Status     string     `form:"status"`
	AssigneeID *uuid.UUID `form:"assigneeId"`
	CreatorID  *uuid.UUID `form:"creatorId"`
}

// IssueResponse represents the issue response
type IssueResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	ProjectID   uuid.UUID  `json:"projectId"`
	CreatorID   *uuid.UUID `json:"creatorId"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IssueDetailResponse is an issue together with its comments (ascending by
// creation time) and labels (alphabetical), read as one logical view.
type IssueDetailResponse struct {
	Issue    IssueResponse     `json:"issue"`
	Comments []CommentResponse `json:"comments"`
	Labels   []LabelResponse   `json:"labels"`
}

// BulkStatusUpdateRequest represents a bulk status update over issue IDs
type BulkStatusUpdateRequest struct {
	IssueIDs  []uuid.UUID `json:"issueIds" binding:"required,min=1"`
	NewStatus string      `json:"newStatus" binding:"required"`
}

// BulkOperationError reports a single failed item of a bulk operation
type BulkOperationError struct {
	IssueID uuid.UUID `json:"issueId"`
	Error   string    `json:"error"`
}

// BulkStatusUpdateResponse reports the outcome of a bulk status update
type BulkStatusUpdateResponse struct {
	SuccessCount int                  `json:"successCount"`
	FailureCount int                  `json:"failureCount"`
	Errors       []BulkOperationError `json:"errors"`
	Message      string               `json:"message"`
}

// ReplaceLabelsRequest represents an atomic label-set replacement
type ReplaceLabelsRequest struct {
	LabelIDs []uuid.UUID `json:"labelIds"`
}

// ImportRowError reports a single failed CSV row
type ImportRowError struct {
	RowNumber int               `json:"rowNumber"`
	Field     string            `json:"field,omitempty"`
	Value     string            `json:"value,omitempty"`
	Error     string            `json:"error"`
	RawData   map[string]string `json:"rawData,omitempty"`
}

// CSVImportResponse reports the outcome of a CSV import
type CSVImportResponse struct {
	CreatedCount int              `json:"createdCount"`
	FailedCount  int              `json:"failedCount"`
	TotalRows    int              `json:"totalRows"`
	Errors       []ImportRowError `json:"errors"`
	Message      string           `json:"message"`
}

// IssueStatisticsResponse summarizes issue counts and resolution rate
type IssueStatisticsResponse struct {
	TotalIssues    int64   `json:"totalIssues"`
	OpenIssues     int64   `json:"openIssues"`
	ClosedIssues   int64   `json:"closedIssues"`
	ResolutionRate float64 `json:"resolutionRate"`
}

// ToIssueResponse converts a domain.Issue to an IssueResponse
func ToIssueResponse(i *domain.Issue) *IssueResponse {
	return &IssueResponse{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Status:      string(i.Status),
		Type:        string(i.Type),
		Priority:    string(i.Priority),
		ProjectID:   i.ProjectID,
		CreatorID:   i.CreatorID,
		AssigneeID:  i.AssigneeID,
		ResolvedAt:  i.ResolvedAt,
		ClosedAt:    i.ClosedAt,
		Version:     i.Version,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
