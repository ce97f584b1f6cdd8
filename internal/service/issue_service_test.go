package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
)

func newIssueService(d *serviceDeps) IssueService {
	return NewIssueService(d.issueRepo, d.projectRepo, d.userRepo, d.commentRepo, d.labelRepo, d.metrics, d.logger)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestIssueService_CreateIssue(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newIssueService(d)
	user := d.createUser(t, "creator@example.com")
	project := d.createProject(t, "Apollo", user.ID)
	ctx := ctxWithUser(user.ID)

	t.Run("applies defaults and records the creator", func(t *testing.T) {
		resp, err := svc.CreateIssue(ctx, &dto.CreateIssueRequest{
			Title:     "First issue",
			ProjectID: project.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "open", resp.Status)
		assert.Equal(t, "task", resp.Type)
		assert.Equal(t, "medium", resp.Priority)
		assert.Equal(t, 1, resp.Version)
		require.NotNil(t, resp.CreatorID)
		assert.Equal(t, user.ID, *resp.CreatorID)
	})

	t.Run("rejects duplicate titles within the project", func(t *testing.T) {
		_, err := svc.CreateIssue(ctx, &dto.CreateIssueRequest{
			Title:     "First issue",
			ProjectID: project.ID,
		})
		assertAppErrorCode(t, err, response.ErrCodeAlreadyExists)
	})

	t.Run("rejects unknown assignee", func(t *testing.T) {
		bogus := uuid.New()
		_, err := svc.CreateIssue(ctx, &dto.CreateIssueRequest{
			Title:      "Assigned issue",
			ProjectID:  project.ID,
			AssigneeID: &bogus,
		})
		assertAppErrorCode(t, err, response.ErrCodeReferential)
	})

	t.Run("rejects a deactivated creator", func(t *testing.T) {
		gone := d.createUser(t, "departed@example.com")
		require.NoError(t, d.userRepo.Deactivate(context.Background(), gone.ID))

		_, err := svc.CreateIssue(ctxWithUser(gone.ID), &dto.CreateIssueRequest{
			Title:     "Posthumous",
			ProjectID: project.ID,
		})
		assertAppErrorCode(t, err, response.ErrCodeReferential)
	})

	t.Run("rejects archived project", func(t *testing.T) {
		archived := &domain.Project{Name: "Archived", Status: domain.ProjectStatusArchived, OwnerID: &user.ID}
		require.NoError(t, d.projectRepo.Create(context.Background(), archived))

		_, err := svc.CreateIssue(ctx, &dto.CreateIssueRequest{
			Title:     "Too late",
			ProjectID: archived.ID,
		})
		assertAppErrorCode(t, err, response.ErrCodeValidation)
	})
}

func TestIssueService_UpdateIssueStatus(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newIssueService(d)
	user := d.createUser(t, "status@example.com")
	project := d.createProject(t, "Workflow", user.ID)
	ctx := ctxWithUser(user.ID)

	issue := d.createIssue(t, project.ID, "Tracked", domain.IssueStatusOpen)

	t.Run("rejects an illegal transition", func(t *testing.T) {
		_, err := svc.UpdateIssueStatus(ctx, issue.ID, &dto.UpdateIssueStatusRequest{Status: "resolved"})
		assertAppErrorCode(t, err, response.ErrCodeInvalidTransition)
	})

	t.Run("same-state update is a no-op", func(t *testing.T) {
		resp, err := svc.UpdateIssueStatus(ctx, issue.ID, &dto.UpdateIssueStatusRequest{Status: "open"})
		require.NoError(t, err)
		assert.Equal(t, "open", resp.Status)
		assert.Equal(t, 1, resp.Version, "a no-op must not bump the version")
	})

	t.Run("resolving stamps resolvedAt", func(t *testing.T) {
		for _, status := range []string{"in_progress", "in_review", "resolved"} {
			resp, err := svc.UpdateIssueStatus(ctx, issue.ID, &dto.UpdateIssueStatusRequest{Status: status})
			require.NoError(t, err, "transition to %s", status)
			assert.Equal(t, status, resp.Status)
		}
		current, err := svc.GetIssue(ctx, issue.ID)
		require.NoError(t, err)
		assert.NotNil(t, current.ResolvedAt)
	})

	t.Run("reopening clears both timestamps", func(t *testing.T) {
		_, err := svc.UpdateIssueStatus(ctx, issue.ID, &dto.UpdateIssueStatusRequest{Status: "closed"})
		require.NoError(t, err)
		resp, err := svc.UpdateIssueStatus(ctx, issue.ID, &dto.UpdateIssueStatusRequest{Status: "reopened"})
		require.NoError(t, err)
		assert.Nil(t, resp.ResolvedAt)
		assert.Nil(t, resp.ClosedAt)
	})
}

func TestIssueService_UpdateIssueVersionConflict(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newIssueService(d)
	user := d.createUser(t, "occ@example.com")
	project := d.createProject(t, "Conflicts", user.ID)
	ctx := ctxWithUser(user.ID)

	issue := d.createIssue(t, project.ID, "Contested", domain.IssueStatusOpen)

	title := "Renamed"
	_, err := svc.UpdateIssue(ctx, issue.ID, &dto.UpdateIssueRequest{Version: 1, Title: &title})
	require.NoError(t, err)

	stale := "Stale write"
	_, err = svc.UpdateIssue(ctx, issue.ID, &dto.UpdateIssueRequest{Version: 1, Title: &stale})
	assertAppErrorCode(t, err, response.ErrCodeVersionConflict)

	current, err := svc.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", current.Title)
	assert.Equal(t, 2, current.Version)
}

func TestIssueService_BulkUpdateStatus(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newIssueService(d)
	user := d.createUser(t, "bulk@example.com")
	project := d.createProject(t, "Bulk", user.ID)
	ctx := ctxWithUser(user.ID)

	open1 := d.createIssue(t, project.ID, "Open one", domain.IssueStatusOpen)
	open2 := d.createIssue(t, project.ID, "Open two", domain.IssueStatusOpen)
	closed := d.createIssue(t, project.ID, "Already closed", domain.IssueStatusClosed)

	t.Run("duplicate IDs abort the batch", func(t *testing.T) {
		resp, err := svc.BulkUpdateStatus(ctx, &dto.BulkStatusUpdateRequest{
			IssueIDs:  []uuid.UUID{open1.ID, open1.ID},
			NewStatus: "in_progress",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.SuccessCount)
		assert.NotEmpty(t, resp.Errors)
	})

	t.Run("one invalid transition aborts the whole batch", func(t *testing.T) {
		resp, err := svc.BulkUpdateStatus(ctx, &dto.BulkStatusUpdateRequest{
			IssueIDs:  []uuid.UUID{open1.ID, open2.ID, closed.ID},
			NewStatus: "in_progress",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.SuccessCount)
		assert.Equal(t, 1, resp.FailureCount)

		// Nothing was written
		current, err := svc.GetIssue(ctx, open1.ID)
		require.NoError(t, err)
		assert.Equal(t, "open", current.Status)
		assert.Equal(t, 1, current.Version)
	})

	t.Run("clean batch updates every issue", func(t *testing.T) {
		resp, err := svc.BulkUpdateStatus(ctx, &dto.BulkStatusUpdateRequest{
			IssueIDs:  []uuid.UUID{open1.ID, open2.ID},
			NewStatus: "in_progress",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.SuccessCount)
		assert.Equal(t, 0, resp.FailureCount)

		for _, id := range []uuid.UUID{open1.ID, open2.ID} {
			current, err := svc.GetIssue(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "in_progress", current.Status)
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.BulkUpdateStatus(ctx, &dto.BulkStatusUpdateRequest{
			IssueIDs:  []uuid.UUID{open1.ID},
			NewStatus: "vanished",
		})
		assertAppErrorCode(t, err, response.ErrCodeValidation)
	})
}

func TestIssueService_GetIssueDetailFullThread(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newIssueService(d)
	user := d.createUser(t, "thread@example.com")
	project := d.createProject(t, "Threads", user.ID)
	issue := d.createIssue(t, project.ID, "Busy thread", domain.IssueStatusOpen)
	ctx := context.Background()

	// Well past any single page of comments
	const total = 120
	for i := 0; i < total; i++ {
		comment := &domain.Comment{
			Content:  fmt.Sprintf("note %d", i),
			IssueID:  issue.ID,
			AuthorID: &user.ID,
		}
		require.NoError(t, d.commentRepo.Create(ctx, comment))
	}

	detail, err := svc.GetIssueDetail(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Comments, total, "the detail view carries the whole thread")
}

func TestIssueService_SearchRequiresQuery(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newIssueService(d)

	_, err := svc.SearchIssues(context.Background(), "  ", &dto.PaginationQuery{Page: 1, Size: 20})
	assertAppErrorCode(t, err, response.ErrCodeValidation)
}
