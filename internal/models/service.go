package models

import (
	"time"

	"gorm.io/gorm"
)

// Service status values.
const (
	ServiceStatusNew        = "new"
	ServiceStatusPending    = "pending"
	ServiceStatusInProgress = "in-progress"
	ServiceStatusCompleted  = "completed"
	ServiceStatusOnHold     = "on-hold"
)

// ValidServiceStatus reports whether s is a known status value.
func ValidServiceStatus(s string) bool {
	switch s {
	case ServiceStatusNew, ServiceStatusPending, ServiceStatusInProgress,
		ServiceStatusCompleted, ServiceStatusOnHold:
		return true
	}
	return false
}

// Service is a unit of work within a project. It owns exactly one task board
// and one issue thread, both created in the same transaction as the service
// itself and deleted with it. Four role relationships tie users to a service:
// chief (required), project manager, backup, and the assigned-resources set.
type Service struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:120;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `gorm:"size:50;default:new" json:"status"`
	Progress    int        `gorm:"default:0" json:"progress"` // 0-100

	ProjectID uint     `gorm:"index;not null" json:"project_id"`
	Project   *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`

	ChiefID          uint   `gorm:"index;not null" json:"chief_id"`
	Chief            *User  `gorm:"foreignKey:ChiefID" json:"chief,omitempty"`
	ProjectManagerID *uint  `gorm:"index" json:"project_manager_id"`
	ProjectManager   *User  `gorm:"foreignKey:ProjectManagerID" json:"project_manager,omitempty"`
	BackupID         *uint  `gorm:"index" json:"backup_id"`
	Backup           *User  `gorm:"foreignKey:BackupID" json:"backup,omitempty"`
	AssignedResources []User `gorm:"many2many:service_resources" json:"assigned_resources,omitempty"`

	Attachments []Attachment `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Service) TableName() string { return "services" }

// Attachment is a file stored in the blob store and attached to a service.
// Ordering within a service follows insertion (primary key) order.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ServiceID uint      `gorm:"index;not null" json:"service_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Key       string    `gorm:"size:500;not null" json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

func (Attachment) TableName() string { return "service_attachments" }
