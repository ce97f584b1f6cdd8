package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/repository"
)

func newReportService(d *serviceDeps) ReportService {
	return NewReportService(repository.NewReportRepository(d.db), d.logger)
}

func TestReportService_TopAssignees(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newReportService(d)
	ctx := context.Background()

	owner := d.createUser(t, "owner@example.com")
	busy := d.createUser(t, "busy@example.com")
	idle := d.createUser(t, "idle@example.com")
	project := d.createProject(t, "Reports", owner.ID)

	for i, title := range []string{"One", "Two", "Three"} {
		issue := &domain.Issue{
			Title:      title,
			Status:     domain.IssueStatusOpen,
			Type:       domain.IssueTypeTask,
			Priority:   domain.IssuePriorityMedium,
			ProjectID:  project.ID,
			AssigneeID: &busy.ID,
		}
		if i == 2 {
			issue.AssigneeID = &idle.ID
		}
		require.NoError(t, d.issueRepo.Create(ctx, issue))
	}

	// Unassigned issues never appear in the report
	d.createIssue(t, project.ID, "Unassigned", domain.IssueStatusOpen)

	entries, err := svc.TopAssignees(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, busy.ID, entries[0].UserID)
	assert.Equal(t, int64(2), entries[0].IssueCount)
	assert.Equal(t, idle.ID, entries[1].UserID)
	assert.Equal(t, int64(1), entries[1].IssueCount)

	t.Run("limit caps the result", func(t *testing.T) {
		entries, err := svc.TopAssignees(ctx, 1, nil)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("deactivated assignees are excluded", func(t *testing.T) {
		require.NoError(t, d.db.Model(&domain.User{}).
			Where("id = ?", idle.ID).
			Update("is_active", false).Error)

		entries, err := svc.TopAssignees(ctx, 10, nil)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, busy.ID, entries[0].UserID)
	})

	t.Run("project scope filters other projects out", func(t *testing.T) {
		other := d.createProject(t, "Elsewhere", owner.ID)
		issue := &domain.Issue{
			Title:      "Foreign",
			Status:     domain.IssueStatusOpen,
			Type:       domain.IssueTypeTask,
			Priority:   domain.IssuePriorityMedium,
			ProjectID:  other.ID,
			AssigneeID: &busy.ID,
		}
		require.NoError(t, d.issueRepo.Create(ctx, issue))

		entries, err := svc.TopAssignees(ctx, 10, &other.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(1), entries[0].IssueCount)
	})
}

// capturingReportRepo records the arguments the service hands down
type capturingReportRepo struct {
	lastLimit int
}

func (r *capturingReportRepo) TopAssignees(_ context.Context, limit int, _ *uuid.UUID) ([]dto.TopAssigneeEntry, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *capturingReportRepo) FindResolvedSince(context.Context, time.Time, *uuid.UUID) ([]*domain.Issue, error) {
	return nil, nil
}

func (r *capturingReportRepo) CountCreatedSince(context.Context, time.Time, *uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *capturingReportRepo) CountResolvedSince(context.Context, time.Time, *uuid.UUID) (int64, error) {
	return 0, nil
}

func TestReportService_TopAssigneesClampsLimit(t *testing.T) {
	repo := &capturingReportRepo{}
	svc := NewReportService(repo, zap.NewNop())

	_, err := svc.TopAssignees(context.Background(), 5000, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastLimit)
}

func TestReportService_ResolutionLatency(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newReportService(d)
	ctx := context.Background()

	owner := d.createUser(t, "latency@example.com")
	project := d.createProject(t, "Latency", owner.ID)

	now := time.Now().UTC()
	resolvedAt := now.Add(-1 * time.Hour)

	issue := d.createIssue(t, project.ID, "Slow fix", domain.IssueStatusResolved)
	require.NoError(t, d.db.Model(&domain.Issue{}).
		Where("id = ?", issue.ID).
		Updates(map[string]interface{}{
			"created_at":  now.Add(-25 * time.Hour),
			"resolved_at": resolvedAt,
		}).Error)

	result, err := svc.ResolutionLatency(ctx, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ResolvedCount)
	assert.Equal(t, 7, result.PeriodDays)
	assert.InDelta(t, 24.0, result.AverageResolutionHours, 0.1)

	t.Run("empty window reports zeros", func(t *testing.T) {
		fresh := setupServiceDeps(t)
		result, err := newReportService(fresh).ResolutionLatency(ctx, 7, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.ResolvedCount)
		assert.Equal(t, float64(0), result.AverageResolutionHours)
	})

	t.Run("project scope excludes other projects", func(t *testing.T) {
		other := d.createProject(t, "Other latency", owner.ID)
		result, err := svc.ResolutionLatency(ctx, 7, &other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.ResolvedCount)
	})
}

func TestReportService_Velocity(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newReportService(d)
	ctx := context.Background()

	owner := d.createUser(t, "velocity@example.com")
	project := d.createProject(t, "Velocity", owner.ID)

	d.createIssue(t, project.ID, "Created one", domain.IssueStatusOpen)
	d.createIssue(t, project.ID, "Created two", domain.IssueStatusOpen)

	resolved := d.createIssue(t, project.ID, "Done", domain.IssueStatusResolved)
	now := time.Now().UTC()
	require.NoError(t, d.db.Model(&domain.Issue{}).
		Where("id = ?", resolved.ID).
		Update("resolved_at", now.Add(-2*time.Hour)).Error)

	result, err := svc.Velocity(ctx, 30, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.CreatedCount)
	assert.Equal(t, int64(1), result.ResolvedCount)
	assert.Equal(t, int64(2), result.NetChange)
	assert.Equal(t, 30, result.PeriodDays)
	assert.InDelta(t, 0.1, result.DailyCreationRate, 0.001)

	t.Run("project scope counts only that project", func(t *testing.T) {
		other := d.createProject(t, "Other velocity", owner.ID)
		d.createIssue(t, other.ID, "Scoped", domain.IssueStatusOpen)

		result, err := svc.Velocity(ctx, 30, &other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.CreatedCount)
		assert.Equal(t, int64(0), result.ResolvedCount)
	})
}
