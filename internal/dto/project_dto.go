package dto

import (
	"time"

	"github.com/google/uuid"

	"issue-tracker-api/internal/domain"
)

// CreateProjectRequest represents the request to create a new project
type CreateProjectRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=255"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	OwnerID     uuid.UUID `json:"ownerId" binding:"required"`
}

// UpdateProjectRequest represents the request to update a project.
// Version is required for the optimistic concurrency check.
type UpdateProjectRequest struct {
	Version     int     `json:"version" binding:"required,min=1"`
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ProjectResponse represents the project response
type ProjectResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	OwnerID     *uuid.UUID `json:"ownerId"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ProjectStatisticsResponse summarizes issue counts for a project
type ProjectStatisticsResponse struct {
	TotalIssues    int64   `json:"totalIssues"`
	OpenIssues     int64   `json:"openIssues"`
	ClosedIssues   int64   `json:"closedIssues"`
	ResolutionRate float64 `json:"resolutionRate"`
}

// ToProjectResponse converts a domain.Project to a ProjectResponse
func ToProjectResponse(p *domain.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		OwnerID:     p.OwnerID,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
