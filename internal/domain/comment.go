package domain

import "github.com/google/uuid"

// Comment represents a comment on an issue.
// Content is trimmed on write and must be non-empty after trimming.
type Comment struct {
	BaseModel
	Content  string     `gorm:"type:text;not null" json:"content"`
	IssueID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_comments_issue_id" json:"issueId"`
	AuthorID *uuid.UUID `gorm:"type:uuid;index:idx_comments_author_id" json:"authorId"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
