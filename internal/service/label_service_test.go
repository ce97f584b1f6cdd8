package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
)

func newLabelService(d *serviceDeps) LabelService {
	return NewLabelService(d.labelRepo, d.issueRepo, d.projectRepo, d.metrics, d.logger)
}

func TestLabelService_CreateLabel(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newLabelService(d)
	ctx := context.Background()

	t.Run("applies the default color", func(t *testing.T) {
		resp, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "bug"})
		require.NoError(t, err)
		assert.Equal(t, "#007bff", resp.Color)
	})

	t.Run("rejects a malformed color", func(t *testing.T) {
		_, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "styled", Color: "red"})
		assertAppErrorCode(t, err, response.ErrCodeValidation)
	})

	t.Run("name is unique globally", func(t *testing.T) {
		_, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "bug"})
		assertAppErrorCode(t, err, response.ErrCodeAlreadyExists)
	})

	t.Run("rejects an unknown project", func(t *testing.T) {
		ghost := uuid.New()
		_, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "scoped", ProjectID: &ghost})
		assertAppErrorCode(t, err, response.ErrCodeReferential)
	})

	t.Run("accepts an existing project", func(t *testing.T) {
		owner := d.createUser(t, "labelowner@example.com")
		project := d.createProject(t, "Scoped labels", owner.ID)
		resp, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "scoped", ProjectID: &project.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.ProjectID)
		assert.Equal(t, project.ID, *resp.ProjectID)
	})
}

func TestLabelService_ReplaceLabels(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newLabelService(d)
	user := d.createUser(t, "labels@example.com")
	project := d.createProject(t, "Labels", user.ID)
	issue := d.createIssue(t, project.ID, "Target", domain.IssueStatusOpen)
	ctx := context.Background()

	bug, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "bug"})
	require.NoError(t, err)
	urgent, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "urgent"})
	require.NoError(t, err)

	t.Run("replaces the full set and returns it sorted", func(t *testing.T) {
		labels, err := svc.ReplaceLabels(ctx, issue.ID, &dto.ReplaceLabelsRequest{
			LabelIDs: []uuid.UUID{urgent.ID, bug.ID},
		})
		require.NoError(t, err)
		require.Len(t, labels, 2)
		assert.Equal(t, "bug", labels[0].Name)
		assert.Equal(t, "urgent", labels[1].Name)
	})

	t.Run("request duplicates collapse to one assignment", func(t *testing.T) {
		labels, err := svc.ReplaceLabels(ctx, issue.ID, &dto.ReplaceLabelsRequest{
			LabelIDs: []uuid.UUID{bug.ID, bug.ID},
		})
		require.NoError(t, err)
		assert.Len(t, labels, 1)
	})

	t.Run("unknown label aborts and keeps the current set", func(t *testing.T) {
		_, err := svc.ReplaceLabels(ctx, issue.ID, &dto.ReplaceLabelsRequest{
			LabelIDs: []uuid.UUID{bug.ID, uuid.New()},
		})
		assertAppErrorCode(t, err, response.ErrCodeReferential)

		labels, err := svc.ListByIssue(ctx, issue.ID)
		require.NoError(t, err)
		require.Len(t, labels, 1)
		assert.Equal(t, "bug", labels[0].Name)
	})

	t.Run("empty set clears all assignments", func(t *testing.T) {
		labels, err := svc.ReplaceLabels(ctx, issue.ID, &dto.ReplaceLabelsRequest{LabelIDs: []uuid.UUID{}})
		require.NoError(t, err)
		assert.Empty(t, labels)
	})
}

func TestLabelService_AssignAndRemove(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newLabelService(d)
	user := d.createUser(t, "assign@example.com")
	project := d.createProject(t, "Assign", user.ID)
	issue := d.createIssue(t, project.ID, "Target", domain.IssueStatusOpen)
	ctx := context.Background()

	label, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "bug"})
	require.NoError(t, err)

	require.NoError(t, svc.AssignLabel(ctx, issue.ID, label.ID))

	t.Run("double assignment conflicts", func(t *testing.T) {
		err := svc.AssignLabel(ctx, issue.ID, label.ID)
		assertAppErrorCode(t, err, response.ErrCodeAlreadyExists)
	})

	t.Run("removal is idempotent until gone", func(t *testing.T) {
		require.NoError(t, svc.RemoveLabel(ctx, issue.ID, label.ID))
		err := svc.RemoveLabel(ctx, issue.ID, label.ID)
		assertAppErrorCode(t, err, response.ErrCodeNotFound)
	})
}

func TestLabelService_DeleteLabelDetachesAssignments(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newLabelService(d)
	user := d.createUser(t, "detach@example.com")
	project := d.createProject(t, "Detach", user.ID)
	issue := d.createIssue(t, project.ID, "Target", domain.IssueStatusOpen)
	ctx := context.Background()

	label, err := svc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "ephemeral"})
	require.NoError(t, err)
	require.NoError(t, svc.AssignLabel(ctx, issue.ID, label.ID))

	require.NoError(t, svc.DeleteLabel(ctx, label.ID))

	labels, err := svc.ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, labels)
}
