package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is a qualification record owned by a user, optionally backed
// by a file in the blob store.
type Certificate struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UserID              uint           `gorm:"index;not null" json:"user_id"`
	User                *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name                string         `gorm:"size:200;not null" json:"name"`
	Type                string         `gorm:"size:100" json:"type"`
	IssuingOrganization string         `gorm:"size:200" json:"issuing_organization"`
	IssueDate           *time.Time     `json:"issue_date"`
	ExpireDate          *time.Time     `json:"expire_date"`
	Description         string         `gorm:"type:text" json:"description"`
	FileKey             string         `gorm:"size:500" json:"-"` // blob store key
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Certificate) TableName() string { return "certificates" }
