package models

import (
	"time"

	"gorm.io/gorm"
)

// Card is a single kanban work item. It belongs to exactly one task board
// and never moves between boards; mutation paths address it by the
// (task board, card) pair and reject mismatches.
//
// Assignment has two independent shapes: a nullable primary assignee and a
// many-to-many assignee set. They are never merged.
type Card struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TaskBoardID uint   `gorm:"index;not null" json:"task_board_id"`
	Lane        string `gorm:"size:100;not null;column:lane" json:"column"` // kanban lane; "column" is reserved in MySQL
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Tags        string `gorm:"size:1000" json:"tags"`                      // comma separated, order preserved
	SortOrder   int    `gorm:"column:sort_order" json:"order"`             // sort key within lane; "order" is reserved in SQL
	Color       string `gorm:"size:50" json:"color"`

	AssignedUserID *uint  `gorm:"index" json:"assigned_user_id"`
	AssignedUser   *User  `gorm:"foreignKey:AssignedUserID" json:"assigned_user,omitempty"`
	Users          []User `gorm:"many2many:user_card" json:"users,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Card) TableName() string { return "cards" }
