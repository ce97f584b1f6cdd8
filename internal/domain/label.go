package domain

import (
	"time"

	"github.com/google/uuid"
)

// Label categorizes issues with a name and color. ProjectID is nil for
// global labels. Name uniqueness is enforced globally among non-deleted
// labels regardless of project scope.
type Label struct {
	BaseModel
	Name        string     `gorm:"type:varchar(100);not null;index:idx_labels_name" json:"name"`
	Color       string     `gorm:"type:varchar(7);not null;default:'#007bff'" json:"color"`
	Description string     `gorm:"type:text" json:"description"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index:idx_labels_project_id" json:"projectId"`
}

// TableName specifies the table name for Label
func (Label) TableName() string {
	return "labels"
}

// IssueLabel joins issues and labels. The (issue_id, label_id) pair is
// unique; rows are removed when either side is removed. Join rows carry no
// version or soft-delete state, so they do not embed BaseModel.
type IssueLabel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IssueID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_issue_labels_pair,priority:1" json:"issueId"`
	LabelID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_issue_labels_pair,priority:2" json:"labelId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for IssueLabel
func (IssueLabel) TableName() string {
	return "issue_labels"
}
