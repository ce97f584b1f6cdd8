package job

import (
	"context"

	"go.uber.org/zap"

	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
)

// StatsJob periodically refreshes the gauge metrics that report how many
// issues and projects currently exist. Counters are updated inline by the
// services; gauges are recomputed here so restarts and out-of-band changes
// do not leave them stale.
type StatsJob struct {
	issueRepo   repository.IssueRepository
	projectRepo repository.ProjectRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewStatsJob creates a new StatsJob instance
func NewStatsJob(
	issueRepo repository.IssueRepository,
	projectRepo repository.ProjectRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *StatsJob {
	return &StatsJob{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
		metrics:     m,
		logger:      logger,
	}
}

// Run recomputes the issue and project totals. Implements cron.Job.
func (j *StatsJob) Run() {
	ctx := context.Background()

	issueCount, err := j.issueRepo.CountAll(ctx, nil)
	if err != nil {
		j.logger.Error("Failed to count issues for stats refresh",
			zap.Error(err),
		)
		return
	}

	projectCount, err := j.projectRepo.CountAll(ctx)
	if err != nil {
		j.logger.Error("Failed to count projects for stats refresh",
			zap.Error(err),
		)
		return
	}

	j.metrics.SetIssuesTotal(issueCount)
	j.metrics.SetProjectsTotal(projectCount)

	j.logger.Debug("Refreshed business stats gauges",
		zap.Int64("issues", issueCount),
		zap.Int64("projects", projectCount),
	)
}
