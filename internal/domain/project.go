package domain

import "github.com/google/uuid"

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Valid reports whether the status is one of the known values
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// Project groups related issues and defines ownership.
// Name is unique per owner among non-deleted projects.
type Project struct {
	BaseModel
	Name        string        `gorm:"type:varchar(255);not null;index:idx_projects_owner_name,priority:2" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(50);not null;default:'planning'" json:"status"`
	OwnerID     *uuid.UUID    `gorm:"type:uuid;index:idx_projects_owner_name,priority:1" json:"ownerId"`
}

// CanAddIssues reports whether new issues may be created under the project.
// Completed and archived projects no longer accept issues.
func (p *Project) CanAddIssues() bool {
	switch p.Status {
	case ProjectStatusCompleted, ProjectStatusArchived:
		return false
	}
	return true
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}
