package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
)

func createTestLabel(t *testing.T, repo LabelRepository, name string) *domain.Label {
	t.Helper()
	label := &domain.Label{Name: name, Color: "#ff0000"}
	require.NoError(t, repo.Create(context.Background(), label))
	return label
}

func TestLabelRepository_AssignAndRemove(t *testing.T) {
	db := setupRepoDB(t)
	labelRepo := NewLabelRepository(db)
	issueRepo := NewIssueRepository(db)
	ctx := context.Background()

	project := createTestProject(t, db, "Labels")
	issue := createTestIssue(t, issueRepo, project.ID, "Labeled", domain.IssueStatusOpen)
	label := createTestLabel(t, labelRepo, "bug")

	require.NoError(t, labelRepo.AssignLabel(ctx, issue.ID, label.ID))

	assignment, err := labelRepo.FindAssignment(ctx, issue.ID, label.ID)
	require.NoError(t, err)
	assert.Equal(t, label.ID, assignment.LabelID)

	removed, err := labelRepo.RemoveLabel(ctx, issue.ID, label.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = labelRepo.RemoveLabel(ctx, issue.ID, label.ID)
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent assignment reports false")
}

func TestLabelRepository_ReplaceIssueLabels(t *testing.T) {
	db := setupRepoDB(t)
	labelRepo := NewLabelRepository(db)
	issueRepo := NewIssueRepository(db)
	ctx := context.Background()

	project := createTestProject(t, db, "Replace")
	issue := createTestIssue(t, issueRepo, project.ID, "Target", domain.IssueStatusOpen)

	bug := createTestLabel(t, labelRepo, "bug")
	urgent := createTestLabel(t, labelRepo, "urgent")
	docs := createTestLabel(t, labelRepo, "docs")

	require.NoError(t, labelRepo.AssignLabel(ctx, issue.ID, bug.ID))

	// Replacing swaps the entire set in one shot
	require.NoError(t, labelRepo.ReplaceIssueLabels(ctx, issue.ID, []uuid.UUID{urgent.ID, docs.ID}))

	labels, err := labelRepo.FindLabelsByIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "docs", labels[0].Name, "labels are returned alphabetically")
	assert.Equal(t, "urgent", labels[1].Name)

	// An empty set clears all assignments
	require.NoError(t, labelRepo.ReplaceIssueLabels(ctx, issue.ID, nil))
	labels, err = labelRepo.FindLabelsByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestLabelRepository_FindByName(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewLabelRepository(db)
	ctx := context.Background()

	label := createTestLabel(t, repo, "frontend")

	found, err := repo.FindByName(ctx, "frontend", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, label.ID, found.ID)

	_, err = repo.FindByName(ctx, "frontend", label.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByName(ctx, "backend", uuid.Nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLabelRepository_FindLabelsByIssueSkipsDeleted(t *testing.T) {
	db := setupRepoDB(t)
	labelRepo := NewLabelRepository(db)
	issueRepo := NewIssueRepository(db)
	ctx := context.Background()

	project := createTestProject(t, db, "Deleted labels")
	issue := createTestIssue(t, issueRepo, project.ID, "Target", domain.IssueStatusOpen)

	keep := createTestLabel(t, labelRepo, "keep")
	gone := createTestLabel(t, labelRepo, "gone")
	require.NoError(t, labelRepo.AssignLabel(ctx, issue.ID, keep.ID))
	require.NoError(t, labelRepo.AssignLabel(ctx, issue.ID, gone.ID))
	require.NoError(t, labelRepo.SoftDelete(ctx, gone.ID))

	labels, err := labelRepo.FindLabelsByIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, keep.ID, labels[0].ID)
}
