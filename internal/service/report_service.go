package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

const (
	defaultReportPeriodDays = 30
	maxTopAssigneesLimit    = 100
)

// ReportService defines the interface for reporting queries. A nil
// projectID means tracker-wide.
type ReportService interface {
	TopAssignees(ctx context.Context, limit int, projectID *uuid.UUID) ([]dto.TopAssigneeEntry, error)
	ResolutionLatency(ctx context.Context, periodDays int, projectID *uuid.UUID) (*dto.ResolutionLatencyResponse, error)
	Velocity(ctx context.Context, periodDays int, projectID *uuid.UUID) (*dto.VelocityResponse, error)
}

// reportServiceImpl is the implementation of ReportService
type reportServiceImpl struct {
	reportRepo repository.ReportRepository
	logger     *zap.Logger
}

// NewReportService creates a new instance of ReportService
func NewReportService(reportRepo repository.ReportRepository, logger *zap.Logger) ReportService {
	return &reportServiceImpl{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// TopAssignees returns the active users carrying the most open work
func (s *reportServiceImpl) TopAssignees(ctx context.Context, limit int, projectID *uuid.UUID) ([]dto.TopAssigneeEntry, error) {
	if limit > maxTopAssigneesLimit {
		limit = maxTopAssigneesLimit
	}
	entries, err := s.reportRepo.TopAssignees(ctx, limit, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to compute top assignees", err.Error())
	}
	if entries == nil {
		entries = []dto.TopAssigneeEntry{}
	}
	return entries, nil
}

// ResolutionLatency reports min/avg/max resolution time in hours over the
// lookback window. Latency is measured from creation to resolved_at, or
// to closed_at for issues that went straight to closed. All values are
// zero when nothing resolved in the window.
func (s *reportServiceImpl) ResolutionLatency(ctx context.Context, periodDays int, projectID *uuid.UUID) (*dto.ResolutionLatencyResponse, error) {
	if periodDays < 1 {
		periodDays = defaultReportPeriodDays
	}
	since := time.Now().UTC().AddDate(0, 0, -periodDays)

	issues, err := s.reportRepo.FindResolvedSince(ctx, since, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load resolved issues", err.Error())
	}

	result := &dto.ResolutionLatencyResponse{PeriodDays: periodDays}
	if len(issues) == 0 {
		return result, nil
	}

	var sum, min, max float64
	for i, issue := range issues {
		endpoint := issue.ResolvedAt
		if endpoint == nil {
			endpoint = issue.ClosedAt
		}
		hours := endpoint.Sub(issue.CreatedAt).Hours()
		if hours < 0 {
			hours = 0
		}
		sum += hours
		if i == 0 || hours < min {
			min = hours
		}
		if hours > max {
			max = hours
		}
	}

	result.ResolvedCount = int64(len(issues))
	result.AverageResolutionHours = sum / float64(len(issues))
	result.MinResolutionHours = min
	result.MaxResolutionHours = max
	return result, nil
}

// Velocity reports creation vs. resolution rates over the lookback window
func (s *reportServiceImpl) Velocity(ctx context.Context, periodDays int, projectID *uuid.UUID) (*dto.VelocityResponse, error) {
	if periodDays < 1 {
		periodDays = defaultReportPeriodDays
	}
	since := time.Now().UTC().AddDate(0, 0, -periodDays)

	created, err := s.reportRepo.CountCreatedSince(ctx, since, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count created issues", err.Error())
	}
	resolved, err := s.reportRepo.CountResolvedSince(ctx, since, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count resolved issues", err.Error())
	}

	return &dto.VelocityResponse{
		CreatedCount:        created,
		ResolvedCount:       resolved,
		NetChange:           created - resolved,
		PeriodDays:          periodDays,
		DailyCreationRate:   float64(created) / float64(periodDays),
		DailyResolutionRate: float64(resolved) / float64(periodDays),
	}, nil
}
