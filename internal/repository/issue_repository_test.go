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

func createTestIssue(t *testing.T, repo IssueRepository, projectID uuid.UUID, title string, status domain.IssueStatus) *domain.Issue {
	t.Helper()
	issue := &domain.Issue{
		Title:     title,
		Status:    status,
		Type:      domain.IssueTypeTask,
		Priority:  domain.IssuePriorityMedium,
		ProjectID: projectID,
	}
	require.NoError(t, repo.Create(context.Background(), issue))
	return issue
}

func TestIssueRepository_BulkUpdateStatus(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := createTestProject(t, db, "Bulk")

	first := createTestIssue(t, repo, project.ID, "First", domain.IssueStatusOpen)
	second := createTestIssue(t, repo, project.ID, "Second", domain.IssueStatusOpen)

	affected, err := repo.BulkUpdateStatus(ctx, []uuid.UUID{first.ID, second.ID}, domain.IssueStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		issue, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.IssueStatusInProgress, issue.Status)
		assert.Equal(t, 2, issue.Version, "bulk update must bump the version")
	}
}

func TestIssueRepository_BulkUpdateStatusTimestamps(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := createTestProject(t, db, "Timestamps")

	issue := createTestIssue(t, repo, project.ID, "Tracked", domain.IssueStatusInReview)

	_, err := repo.BulkUpdateStatus(ctx, []uuid.UUID{issue.ID}, domain.IssueStatusResolved)
	require.NoError(t, err)
	resolved, err := repo.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt, "resolving must stamp resolved_at")

	_, err = repo.BulkUpdateStatus(ctx, []uuid.UUID{issue.ID}, domain.IssueStatusClosed)
	require.NoError(t, err)
	closed, err := repo.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt, "closing must stamp closed_at")

	_, err = repo.BulkUpdateStatus(ctx, []uuid.UUID{issue.ID}, domain.IssueStatusReopened)
	require.NoError(t, err)
	reopened, err := repo.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Nil(t, reopened.ResolvedAt, "reopening must clear resolved_at")
	assert.Nil(t, reopened.ClosedAt, "reopening must clear closed_at")
}

func TestIssueRepository_FindByTitleInProject(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := createTestProject(t, db, "Titles")
	other := createTestProject(t, db, "Other")

	issue := createTestIssue(t, repo, project.ID, "Unique title", domain.IssueStatusOpen)

	found, err := repo.FindByTitleInProject(ctx, "Unique title", project.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, found.ID)

	// Same title in another project does not collide
	_, err = repo.FindByTitleInProject(ctx, "Unique title", other.ID, uuid.Nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Excluding the issue itself finds nothing
	_, err = repo.FindByTitleInProject(ctx, "Unique title", project.ID, issue.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIssueRepository_Search(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := createTestProject(t, db, "Search")

	createTestIssue(t, repo, project.ID, "Login crashes on Safari", domain.IssueStatusOpen)
	createTestIssue(t, repo, project.ID, "Dark mode flickers", domain.IssueStatusOpen)
	deleted := createTestIssue(t, repo, project.ID, "Crash report uploader", domain.IssueStatusOpen)
	require.NoError(t, repo.SoftDelete(ctx, deleted.ID))

	results, meta, err := repo.Search(ctx, "crash", 1, 20)
	require.NoError(t, err)
	require.Len(t, results, 1, "search is case-insensitive and skips deleted issues")
	assert.Equal(t, "Login crashes on Safari", results[0].Title)
	assert.Equal(t, int64(1), meta.Total)
}

func TestIssueRepository_FindByIDs(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := createTestProject(t, db, "Lookup")

	first := createTestIssue(t, repo, project.ID, "First", domain.IssueStatusOpen)
	second := createTestIssue(t, repo, project.ID, "Second", domain.IssueStatusOpen)
	require.NoError(t, repo.SoftDelete(ctx, second.ID))

	found, err := repo.FindByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 1, "deleted and unknown IDs are omitted")
	assert.Equal(t, first.ID, found[0].ID)
}
