package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

// ProjectService defines the interface for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, query *dto.PaginationQuery, status string, ownerID *uuid.UUID) (*dto.Page[*dto.ProjectResponse], error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
	RestoreProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error)
	GetProjectStatistics(ctx context.Context, projectID uuid.UUID) (*dto.ProjectStatisticsResponse, error)
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	issueRepo   repository.IssueRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	issueRepo repository.IssueRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		issueRepo:   issueRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateProject creates a new project owned by an active user
func (s *projectServiceImpl) CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	status := domain.ProjectStatus(req.Status)
	if req.Status == "" {
		status = domain.ProjectStatusPlanning
	}
	if !status.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid status: "+req.Status, "")
	}

	// Owner must exist and be active
	if _, err := s.userRepo.FindActiveByID(ctx, req.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeReferential, "Owner not found or inactive", req.OwnerID.String())
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify owner", err.Error())
	}

	// Project names are unique per owner
	if _, err := s.projectRepo.FindByNameAndOwner(ctx, req.Name, req.OwnerID, uuid.Nil); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Project name already in use by this owner", req.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project name", err.Error())
	}

	ownerID := req.OwnerID
	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		OwnerID:     &ownerID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)

	return dto.ToProjectResponse(project), nil
}

// GetProject retrieves a project by ID
func (s *projectServiceImpl) GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Project")
	}
	return dto.ToProjectResponse(project), nil
}

// ListProjects returns one page of projects, optionally filtered by status
// and owner
func (s *projectServiceImpl) ListProjects(ctx context.Context, query *dto.PaginationQuery, status string, ownerID *uuid.UUID) (*dto.Page[*dto.ProjectResponse], error) {
	filters := map[string]interface{}{}
	if status != "" {
		if !domain.ProjectStatus(status).Valid() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid status: "+status, "")
		}
		filters["status"] = status
	}
	if ownerID != nil {
		filters["owner_id"] = *ownerID
	}

	projects, meta, err := s.projectRepo.List(ctx, repository.ListParams{
		Page:    query.Page,
		Size:    query.Size,
		Filters: filters,
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list projects", err.Error())
	}

	items := make([]*dto.ProjectResponse, len(projects))
	for i, p := range projects {
		items[i] = dto.ToProjectResponse(p)
	}
	return dto.NewPage(items, meta), nil
}

// UpdateProject applies a versioned update to a project
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	current, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Project")
	}

	fields := map[string]interface{}{}

	if req.Name != nil {
		ownerID := uuid.Nil
		if current.OwnerID != nil {
			ownerID = *current.OwnerID
		}
		if _, err := s.projectRepo.FindByNameAndOwner(ctx, *req.Name, ownerID, projectID); err == nil {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Project name already in use by this owner", *req.Name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project name", err.Error())
		}
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		if !domain.ProjectStatus(*req.Status).Valid() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid status: "+*req.Status, "")
		}
		fields["status"] = *req.Status
	}

	if len(fields) == 0 {
		return nil, response.NewAppError(response.ErrCodeValidation, "No fields to update", "")
	}

	project, err := s.projectRepo.UpdateVersioned(ctx, projectID, req.Version, fields)
	if err != nil {
		return nil, translateUpdateError(err, "Project", s.metrics)
	}
	return dto.ToProjectResponse(project), nil
}

// DeleteProject soft-deletes a project. Its issues stay in place but are
// no longer reachable through project listings.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	if err := s.projectRepo.SoftDelete(ctx, projectID); err != nil {
		return notFoundOrInternal(err, "Project")
	}
	return nil
}

// RestoreProject reverses a soft delete
func (s *projectServiceImpl) RestoreProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	if err := s.projectRepo.Restore(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Project not found or not deleted", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to restore project", err.Error())
	}
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Project")
	}
	return dto.ToProjectResponse(project), nil
}

// GetProjectStatistics summarizes issue counts for a project. Resolution
// rate is resolved+closed over total; zero when the project has no issues.
func (s *projectServiceImpl) GetProjectStatistics(ctx context.Context, projectID uuid.UUID) (*dto.ProjectStatisticsResponse, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFoundOrInternal(err, "Project")
	}

	pid := projectID
	total, err := s.issueRepo.CountAll(ctx, &pid)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count issues", err.Error())
	}
	open, err := s.issueRepo.CountByStatuses(ctx, &pid, []domain.IssueStatus{
		domain.IssueStatusOpen, domain.IssueStatusInProgress, domain.IssueStatusInReview, domain.IssueStatusReopened,
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count open issues", err.Error())
	}
	closed, err := s.issueRepo.CountByStatuses(ctx, &pid, []domain.IssueStatus{
		domain.IssueStatusResolved, domain.IssueStatusClosed,
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count closed issues", err.Error())
	}

	rate := 0.0
	if total > 0 {
		rate = float64(closed) / float64(total)
	}

	return &dto.ProjectStatisticsResponse{
		TotalIssues:    total,
		OpenIssues:     open,
		ClosedIssues:   closed,
		ResolutionRate: rate,
	}, nil
}
