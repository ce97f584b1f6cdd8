package domain

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel contains common fields for all domain entities.
//
// Version starts at 1 and is incremented by exactly 1 on every successful
// mutation; it backs the optimistic concurrency check in the repository
// layer. IsDeleted is an explicit soft-delete flag rather than gorm's
// DeletedAt: soft-deleted records must stay addressable by ID for restore.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"isDeleted"`
}

// Base returns the embedded BaseModel. All entities implement Entity
// through this accessor.
func (b *BaseModel) Base() *BaseModel {
	return b
}

// Entity is implemented by every domain model via the embedded BaseModel.
type Entity interface {
	Base() *BaseModel
}
