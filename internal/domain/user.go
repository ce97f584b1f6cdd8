package domain

import "time"

// UserRole represents the role of a user for access control
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleManager   UserRole = "manager"
	UserRoleDeveloper UserRole = "developer"
	UserRoleReporter  UserRole = "reporter"
)

// Valid reports whether the role is one of the known values
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleDeveloper, UserRoleReporter:
		return true
	}
	return false
}

// User represents a user account.
//
// Email is unique among non-deleted users. Deleting a user sets both
// IsDeleted and IsActive=false so that referential "active user" checks
// (creator, assignee, author, owner) fail consistently.
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;index:idx_users_email" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string     `gorm:"type:varchar(255);not null" json:"fullName"`
	Role         UserRole   `gorm:"type:varchar(50);not null;default:'reporter'" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	AvatarURL    string     `gorm:"type:varchar(500)" json:"avatarUrl,omitempty"`
	Bio          string     `gorm:"type:text" json:"bio,omitempty"`
	LastLoginAt  *time.Time `gorm:"type:timestamp" json:"lastLoginAt,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
