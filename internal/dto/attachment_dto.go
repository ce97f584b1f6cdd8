package dto

import (
	"time"

	"github.com/google/uuid"

	"issue-tracker-api/internal/domain"
)

// CreateAttachmentRequest represents the request to register attachment
// metadata for an issue
type CreateAttachmentRequest struct {
	Filename    string    `json:"filename" binding:"required,min=1,max=500"`
	FilePath    string    `json:"filePath" binding:"required,min=1"`
	FileSize    int64     `json:"fileSize" binding:"required,min=1"`
	ContentType string    `json:"contentType,omitempty"`
	IssueID     uuid.UUID `json:"issueId" binding:"required"`
}

// AttachmentResponse represents the attachment metadata response
type AttachmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	FilePath    string     `json:"filePath"`
	FileSize    int64      `json:"fileSize"`
	ContentType string     `json:"contentType"`
	IssueID     uuid.UUID  `json:"issueId"`
	UploaderID  *uuid.UUID `json:"uploaderId"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToAttachmentResponse converts a domain.Attachment to an AttachmentResponse
func ToAttachmentResponse(a *domain.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:          a.ID,
		Filename:    a.Filename,
		FilePath:    a.FilePath,
		FileSize:    a.FileSize,
		ContentType: a.ContentType,
		IssueID:     a.IssueID,
		UploaderID:  a.UploaderID,
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
