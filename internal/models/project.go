package models

import (
	"time"

	"gorm.io/gorm"
)

// Project groups services. Deleting a project removes its whole service
// graph; the cascade is performed in the service layer so that boards,
// cards and issues go with it inside one transaction.
type Project struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Services  []Service      `gorm:"foreignKey:ProjectID" json:"services,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
