package domain

import "github.com/google/uuid"

// Attachment holds file metadata for an issue. The file bytes themselves
// live in external storage; this service only manages the records, so there
// is no create path here (upload is handled by the storage collaborator).
type Attachment struct {
	BaseModel
	Filename    string     `gorm:"type:varchar(255);not null" json:"filename"`
	FilePath    string     `gorm:"type:text;not null" json:"filePath"`
	FileSize    int64      `gorm:"not null" json:"fileSize"`
	ContentType string     `gorm:"type:varchar(100);not null" json:"contentType"`
	IssueID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_attachments_issue_id" json:"issueId"`
	UploaderID  *uuid.UUID `gorm:"type:uuid;index:idx_attachments_uploader_id" json:"uploaderId"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
