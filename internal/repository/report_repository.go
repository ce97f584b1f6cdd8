package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
)

// ReportRepository defines the aggregate queries behind the reporting
// endpoints. Every query takes an optional project scope; nil means
// tracker-wide.
type ReportRepository interface {
	TopAssignees(ctx context.Context, limit int, projectID *uuid.UUID) ([]dto.TopAssigneeEntry, error)
	FindResolvedSince(ctx context.Context, since time.Time, projectID *uuid.UUID) ([]*domain.Issue, error)
	CountCreatedSince(ctx context.Context, since time.Time, projectID *uuid.UUID) (int64, error)
	CountResolvedSince(ctx context.Context, since time.Time, projectID *uuid.UUID) (int64, error)
}

// reportRepositoryImpl is the GORM implementation of ReportRepository
type reportRepositoryImpl struct {
	db *gorm.DB
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// TopAssignees returns the active users carrying the most non-deleted
// issues, busiest first, ties broken by name for a stable order
func (r *reportRepositoryImpl) TopAssignees(ctx context.Context, limit int, projectID *uuid.UUID) ([]dto.TopAssigneeEntry, error) {
	if limit < 1 {
		limit = 10
	}
	var entries []dto.TopAssigneeEntry
	query := r.db.WithContext(ctx).
		Model(&domain.Issue{}).
		Select("users.id AS user_id, users.full_name AS full_name, users.email AS email, COUNT(issues.id) AS issue_count").
		Joins("JOIN users ON users.id = issues.assignee_id").
		Where("issues.is_deleted = ? AND users.is_deleted = ? AND users.is_active = ?", false, false, true)
	if projectID != nil {
		query = query.Where("issues.project_id = ?", *projectID)
	}
	if err := query.
		Group("users.id, users.full_name, users.email").
		Order("issue_count DESC, full_name ASC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindResolvedSince returns non-deleted issues whose resolution timestamp
// (resolved_at, or closed_at when an issue went straight to closed) falls
// inside the window. Latency math happens in the service so the query
// stays portable across the Postgres and SQLite drivers.
func (r *reportRepositoryImpl) FindResolvedSince(ctx context.Context, since time.Time, projectID *uuid.UUID) ([]*domain.Issue, error) {
	var issues []*domain.Issue
	query := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Where("(resolved_at IS NOT NULL AND resolved_at >= ?) OR (resolved_at IS NULL AND closed_at IS NOT NULL AND closed_at >= ?)", since, since)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if err := query.Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// CountCreatedSince counts non-deleted issues created inside the window
func (r *reportRepositoryImpl) CountCreatedSince(ctx context.Context, since time.Time, projectID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&domain.Issue{}).
		Where("is_deleted = ? AND created_at >= ?", false, since)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountResolvedSince counts non-deleted issues resolved or closed inside
// the window
func (r *reportRepositoryImpl) CountResolvedSince(ctx context.Context, since time.Time, projectID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&domain.Issue{}).
		Where("is_deleted = ?", false).
		Where("(resolved_at IS NOT NULL AND resolved_at >= ?) OR (resolved_at IS NULL AND closed_at IS NOT NULL AND closed_at >= ?)", since, since)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
