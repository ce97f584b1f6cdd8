package dto

import (
	"time"

	"github.com/google/uuid"

	"issue-tracker-api/internal/domain"
)

// CreateLabelRequest represents the request to create a new label
type CreateLabelRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Color       string     `json:"color,omitempty"`
	Description string     `json:"description,omitempty"`
	ProjectID   *uuid.UUID `json:"projectId,omitempty"`
}

// UpdateLabelRequest represents the request to update a label.
// Version is required for the optimistic concurrency check.
type UpdateLabelRequest struct {
	Version     int     `json:"version" binding:"required,min=1"`
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// LabelResponse represents the label response
type LabelResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Color       string     `json:"color"`
	Description string     `json:"description"`
	ProjectID   *uuid.UUID `json:"projectId"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToLabelResponse converts a domain.Label to a LabelResponse
func ToLabelResponse(l *domain.Label) *LabelResponse {
	return &LabelResponse{
		ID:          l.ID,
		Name:        l.Name,
		Color:       l.Color,
		Description: l.Description,
		ProjectID:   l.ProjectID,
		Version:     l.Version,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
