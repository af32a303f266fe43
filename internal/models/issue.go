package models

import "time"

// Issue categories and statuses.
const (
	IssueCategoryService = "Service" // issue auto-created as a service's discussion thread
	IssueCategoryGeneral = "General"

	IssueStatusOpen   = "Open"
	IssueStatusClosed = "Closed"
)

// Issue is a discussion thread. A service-linked issue (category "Service")
// is created atomically with its service and removed with it; ServiceID is
// nil for free-standing issues.
type Issue struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:50;default:Open" json:"status"`
	Category    string     `gorm:"size:100;index" json:"category"`
	CreatedByID uint       `gorm:"index;not null" json:"created_by_id"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ServiceID   *uint      `gorm:"uniqueIndex" json:"service_id"`
	Service     *Service   `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Feedbacks   []Feedback `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE" json:"feedbacks,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Issue) TableName() string { return "issues" }

// Feedback is a single entry in an issue's discussion.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IssueID   uint      `gorm:"index;not null" json:"issue_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsPinned  bool      `gorm:"default:false" json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Feedback) TableName() string { return "feedbacks" }

// Comment is a note attached directly to a service.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ServiceID uint      `gorm:"index;not null" json:"service_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }
