package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
)

// BulkUpdateStatus moves a set of issues to one target status. The whole
// batch is validated first; if any issue is missing, duplicated, or cannot
// legally reach the target, nothing is written and every problem is
// reported. A clean batch commits as a single transactional update.
func (s *issueServiceImpl) BulkUpdateStatus(ctx context.Context, req *dto.BulkStatusUpdateRequest) (*dto.BulkStatusUpdateResponse, error) {
	newStatus := domain.IssueStatus(req.NewStatus)
	if !newStatus.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid status: "+req.NewStatus, "")
	}

	// Reject duplicate IDs up front; a duplicated row would otherwise get
	// its version bumped once while the caller expects per-ID semantics.
	seen := make(map[uuid.UUID]bool, len(req.IssueIDs))
	var bulkErrors []dto.BulkOperationError
	for _, id := range req.IssueIDs {
		if seen[id] {
			bulkErrors = append(bulkErrors, dto.BulkOperationError{
				IssueID: id,
				Error:   "Duplicate issue ID in request",
			})
		}
		seen[id] = true
	}

	issues, err := s.issueRepo.FindByIDs(ctx, req.IssueIDs)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load issues", err.Error())
	}

	found := make(map[uuid.UUID]*domain.Issue, len(issues))
	for _, issue := range issues {
		found[issue.ID] = issue
	}

	for id := range seen {
		issue, ok := found[id]
		if !ok {
			bulkErrors = append(bulkErrors, dto.BulkOperationError{
				IssueID: id,
				Error:   "Issue not found",
			})
			continue
		}
		if !domain.CanTransition(issue.Status, newStatus) {
			bulkErrors = append(bulkErrors, dto.BulkOperationError{
				IssueID: id,
				Error:   fmt.Sprintf("Cannot transition from %s to %s", issue.Status, newStatus),
			})
		}
	}

	// Any failure aborts the whole batch before a single write happens
	if len(bulkErrors) > 0 {
		return &dto.BulkStatusUpdateResponse{
			SuccessCount: 0,
			FailureCount: len(bulkErrors),
			Errors:       bulkErrors,
			Message:      "Bulk update aborted, no issues were modified",
		}, nil
	}

	updated, err := s.issueRepo.BulkUpdateStatus(ctx, req.IssueIDs, newStatus)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to apply bulk update", err.Error())
	}

	s.metrics.IncrementBulkStatusUpdate()
	s.logger.Info("Bulk status update committed",
		zap.Int64("updated", updated),
		zap.String("new_status", string(newStatus)),
	)

	return &dto.BulkStatusUpdateResponse{
		SuccessCount: int(updated),
		FailureCount: 0,
		Errors:       []dto.BulkOperationError{},
		Message:      fmt.Sprintf("Updated %d issues to %s", updated, newStatus),
	}, nil
}
