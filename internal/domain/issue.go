package domain

import (
	"time"

	"github.com/google/uuid"
)

// IssueType represents the category of an issue
type IssueType string

const (
	IssueTypeBug         IssueType = "bug"
	IssueTypeFeature     IssueType = "feature"
	IssueTypeImprovement IssueType = "improvement"
	IssueTypeTask        IssueType = "task"
	IssueTypeEpic        IssueType = "epic"
)

// Valid reports whether the type is one of the known values
func (t IssueType) Valid() bool {
	switch t {
	case IssueTypeBug, IssueTypeFeature, IssueTypeImprovement, IssueTypeTask, IssueTypeEpic:
		return true
	}
	return false
}

// IssuePriority represents the urgency of an issue
type IssuePriority string

const (
	IssuePriorityLow      IssuePriority = "low"
	IssuePriorityMedium   IssuePriority = "medium"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityCritical IssuePriority = "critical"
)

// Valid reports whether the priority is one of the known values
func (p IssuePriority) Valid() bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh, IssuePriorityCritical:
		return true
	}
	return false
}

// Issue represents a tracked unit of work within a project.
//
// Title is unique within a project among non-deleted issues. Status changes
// must follow the workflow transition table (workflow.go). CreatorID and
// AssigneeID are nullable because users are detached (SET NULL) when removed.
type Issue struct {
	BaseModel
	Title       string        `gorm:"type:varchar(500);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Status      IssueStatus   `gorm:"type:varchar(50);not null;default:'open';index:idx_issues_project_status,priority:2;index:idx_issues_assignee_status,priority:2" json:"status"`
	Type        IssueType     `gorm:"type:varchar(50);not null;default:'task'" json:"type"`
	Priority    IssuePriority `gorm:"type:varchar(50);not null;default:'medium'" json:"priority"`
	ProjectID   uuid.UUID     `gorm:"type:uuid;not null;index:idx_issues_project_status,priority:1" json:"projectId"`
	CreatorID   *uuid.UUID    `gorm:"type:uuid;index:idx_issues_creator_id" json:"creatorId"`
	AssigneeID  *uuid.UUID    `gorm:"type:uuid;index:idx_issues_assignee_status,priority:1" json:"assigneeId"`
	ResolvedAt  *time.Time    `gorm:"type:timestamp" json:"resolvedAt,omitempty"`
	ClosedAt    *time.Time    `gorm:"type:timestamp" json:"closedAt,omitempty"`
}

// TableName specifies the table name for Issue
func (Issue) TableName() string {
	return "issues"
}
