package models

import "time"

// TaskBoard is the kanban container for exactly one service. It carries no
// data of its own beyond the ownership link; it exists so cards have a home
// that lives and dies with the service.
type TaskBoard struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ServiceID uint      `gorm:"uniqueIndex;not null" json:"service_id"`
	Service   *Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Cards     []Card    `gorm:"foreignKey:TaskBoardID;constraint:OnDelete:CASCADE" json:"cards,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (TaskBoard) TableName() string { return "task_boards" }
