package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
)

// ImportRowFailure reports one issue of an import batch that failed its
// in-transaction referential re-validation.
type ImportRowFailure struct {
	Index  int
	Field  string
	Value  string
	Reason string
}

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
	FindByIDAny(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Issue, error)
	FindByTitleInProject(ctx context.Context, title string, projectID uuid.UUID, excludeID uuid.UUID) (*domain.Issue, error)
	List(ctx context.Context, params ListParams) ([]*domain.Issue, dto.PaginationMeta, error)
	Search(ctx context.Context, query string, page, size int) ([]*domain.Issue, dto.PaginationMeta, error)
	Create(ctx context.Context, issue *domain.Issue) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*domain.Issue, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.IssueStatus) (int64, error)
	ImportIssues(ctx context.Context, issues []*domain.Issue) ([]*domain.Issue, []ImportRowFailure, error)
	CountByStatuses(ctx context.Context, projectID *uuid.UUID, statuses []domain.IssueStatus) (int64, error)
	CountAll(ctx context.Context, projectID *uuid.UUID) (int64, error)
}

// issueRepositoryImpl is the GORM implementation of IssueRepository
type issueRepositoryImpl struct {
	*RecordRepository[domain.Issue, *domain.Issue]
}

// NewIssueRepository creates a new instance of IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepositoryImpl{
		RecordRepository: NewRecordRepository[domain.Issue, *domain.Issue](db),
	}
}

// FindByIDs finds non-deleted issues by their IDs
func (r *issueRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Issue, error) {
	if len(ids) == 0 {
		return []*domain.Issue{}, nil
	}
	var issues []*domain.Issue
	if err := r.DB().WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// FindByTitleInProject finds a non-deleted issue with the given title in
// the given project, excluding the given ID (uuid.Nil to exclude nothing).
// Used for the per-project title uniqueness check.
func (r *issueRepositoryImpl) FindByTitleInProject(ctx context.Context, title string, projectID uuid.UUID, excludeID uuid.UUID) (*domain.Issue, error) {
	var issue domain.Issue
	query := r.DB().WithContext(ctx).
		Where("title = ? AND project_id = ? AND is_deleted = ?", title, projectID, false)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// Search finds non-deleted issues whose title or description contains the
// query, case-insensitively, newest first. LOWER/LIKE instead of ILIKE so
// the same statement runs on the SQLite test driver.
func (r *issueRepositoryImpl) Search(ctx context.Context, query string, page, size int) ([]*domain.Issue, dto.PaginationMeta, error) {
	params := ListParams{Page: page, Size: size}.normalize()
	pattern := "%" + query + "%"

	base := r.DB().WithContext(ctx).
		Model(&domain.Issue{}).
		Where("is_deleted = ?", false).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	var issues []*domain.Issue
	if err := base.
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&issues).Error; err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	return issues, dto.NewPaginationMeta(params.Page, params.Size, total), nil
}

// BulkUpdateStatus sets the status of every listed issue in a single
// transactional UPDATE, incrementing each version by exactly 1. Callers
// must have validated existence and transition legality beforehand; the
// single statement makes the change atomic, so no reader observes a
// partially-applied batch.
func (r *issueRepositoryImpl) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.IssueStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":     status,
		"version":    gorm.Expr("version + ?", 1),
		"updated_at": now,
	}
	switch status {
	case domain.IssueStatusResolved:
		updates["resolved_at"] = now
	case domain.IssueStatusClosed:
		updates["closed_at"] = now
	case domain.IssueStatusReopened:
		updates["resolved_at"] = nil
		updates["closed_at"] = nil
	}

	var updated int64
	err := r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Issue{}).
			Where("id IN ? AND is_deleted = ?", ids, false).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		updated = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// ImportIssues creates a batch of pre-validated issues inside one
// transaction, re-checking each row's project and assignee right before
// insertion. Rows that fail the re-check are reported as failures while
// the remaining rows still commit; the caller has already gated on a
// clean validation pass, so these late failures only cover references
// that disappeared between the two phases.
func (r *issueRepositoryImpl) ImportIssues(ctx context.Context, issues []*domain.Issue) ([]*domain.Issue, []ImportRowFailure, error) {
	created := make([]*domain.Issue, 0, len(issues))
	var failures []ImportRowFailure

	err := r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, issue := range issues {
			var projectCount int64
			if err := tx.Model(&domain.Project{}).
				Where("id = ? AND is_deleted = ?", issue.ProjectID, false).
				Count(&projectCount).Error; err != nil {
				return err
			}
			if projectCount == 0 {
				failures = append(failures, ImportRowFailure{
					Index:  i,
					Field:  "project_id",
					Value:  issue.ProjectID.String(),
					Reason: "Project not found",
				})
				continue
			}

			if issue.AssigneeID != nil {
				var assigneeCount int64
				if err := tx.Model(&domain.User{}).
					Where("id = ? AND is_deleted = ? AND is_active = ?", *issue.AssigneeID, false, true).
					Count(&assigneeCount).Error; err != nil {
					return err
				}
				if assigneeCount == 0 {
					failures = append(failures, ImportRowFailure{
						Index:  i,
						Field:  "assignee_id",
						Value:  issue.AssigneeID.String(),
						Reason: "Assignee not found or inactive",
					})
					continue
				}
			}

			base := issue.Base()
			if base.ID == uuid.Nil {
				base.ID = uuid.New()
			}
			base.Version = 1
			now := time.Now().UTC()
			base.CreatedAt = now
			base.UpdatedAt = now
			base.IsDeleted = false

			if err := tx.Create(issue).Error; err != nil {
				return err
			}
			created = append(created, issue)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, failures, nil
}

// CountByStatuses counts non-deleted issues in any of the given statuses,
// optionally scoped to a project
func (r *issueRepositoryImpl) CountByStatuses(ctx context.Context, projectID *uuid.UUID, statuses []domain.IssueStatus) (int64, error) {
	query := r.DB().WithContext(ctx).
		Model(&domain.Issue{}).
		Where("is_deleted = ? AND status IN ?", false, statuses)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountAll counts non-deleted issues, optionally scoped to a project
func (r *issueRepositoryImpl) CountAll(ctx context.Context, projectID *uuid.UUID) (int64, error) {
	query := r.DB().WithContext(ctx).
		Model(&domain.Issue{}).
		Where("is_deleted = ?", false)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
