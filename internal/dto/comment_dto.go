package dto

import (
	"time"

	"github.com/google/uuid"

	"issue-tracker-api/internal/domain"
)

// CreateCommentRequest represents the request to create a new comment
type CreateCommentRequest struct {
	IssueID uuid.UUID `json:"issueId" binding:"required"`
	Content string    `json:"content" binding:"required,min=1"`
}

// UpdateCommentRequest represents the request to update a comment.
// Version is required for the optimistic concurrency check.
type UpdateCommentRequest struct {
	Version int    `json:"version" binding:"required,min=1"`
	Content string `json:"content" binding:"required,min=1"`
}

// CommentResponse represents the comment response
type CommentResponse struct {
	ID        uuid.UUID  `json:"id"`
	IssueID   uuid.UUID  `json:"issueId"`
	AuthorID  *uuid.UUID `json:"authorId"`
	Content   string     `json:"content"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ToCommentResponse converts a domain.Comment to a CommentResponse
func ToCommentResponse(c *domain.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		IssueID:   c.IssueID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
