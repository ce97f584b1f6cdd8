package job

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"issue-tracker-api/internal/database"
	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
)

func setupStatsJob(t *testing.T) (*StatsJob, *metrics.Metrics, repository.IssueRepository, repository.ProjectRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	issueRepo := repository.NewIssueRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	return NewStatsJob(issueRepo, projectRepo, m, zap.NewNop()), m, issueRepo, projectRepo
}

func TestStatsJob_RefreshesGauges(t *testing.T) {
	job, m, issueRepo, projectRepo := setupStatsJob(t)
	ctx := context.Background()

	project := &domain.Project{Name: "Gauge project"}
	require.NoError(t, projectRepo.Create(ctx, project))

	for _, title := range []string{"First", "Second", "Third"} {
		issue := &domain.Issue{
			Title:     title,
			Status:    domain.IssueStatusOpen,
			Type:      domain.IssueTypeTask,
			Priority:  domain.IssuePriorityMedium,
			ProjectID: project.ID,
		}
		require.NoError(t, issueRepo.Create(ctx, issue))
	}

	job.Run()

	assert.Equal(t, float64(3), testutil.ToFloat64(m.IssuesTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProjectsTotal))
}

func TestStatsJob_ExcludesSoftDeleted(t *testing.T) {
	job, m, issueRepo, projectRepo := setupStatsJob(t)
	ctx := context.Background()

	project := &domain.Project{Name: "Gauge project"}
	require.NoError(t, projectRepo.Create(ctx, project))

	issue := &domain.Issue{
		Title:     "Doomed",
		Status:    domain.IssueStatusOpen,
		Type:      domain.IssueTypeTask,
		Priority:  domain.IssuePriorityMedium,
		ProjectID: project.ID,
	}
	require.NoError(t, issueRepo.Create(ctx, issue))
	require.NoError(t, issueRepo.SoftDelete(ctx, issue.ID))

	job.Run()

	assert.Equal(t, float64(0), testutil.ToFloat64(m.IssuesTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProjectsTotal))
}
