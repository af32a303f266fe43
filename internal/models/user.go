package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. The authorization gate only distinguishes admin from everyone
// else; "developer" is the default for regular members.
const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
)

// User represents a system user.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FirstName       string         `gorm:"size:30;not null" json:"first_name"`
	LastName        string         `gorm:"size:30;not null" json:"last_name"`
	Email           string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password        string         `gorm:"size:255" json:"-"`
	Role            string         `gorm:"size:50;default:developer" json:"role"` // admin, developer
	ProfileImageKey string         `gorm:"size:500" json:"-"`                     // blob store key
	Skills          string         `gorm:"size:1000" json:"skills"`               // comma separated: go,sql,terraform
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
