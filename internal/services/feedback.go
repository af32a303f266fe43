package services

import (
	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"gorm.io/gorm"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

type CreateFeedbackRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateFeedbackRequest struct {
	Content  string `json:"content"`
	IsPinned *bool  `json:"is_pinned"`
}

// Create appends a feedback entry to an issue's discussion.
func (s *FeedbackService) Create(issueID, userID uint, req *CreateFeedbackRequest) (*models.Feedback, error) {
	var issue models.Issue
	if err := s.db.First(&issue, issueID).Error; err != nil {
		return nil, notFoundOr(err, "issue not found")
	}
	if issue.Status == models.IssueStatusClosed {
		return nil, response.NewInvalidRequest("issue is closed")
	}

	feedback := models.Feedback{
		IssueID: issue.ID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.db.Create(&feedback).Error; err != nil {
		return nil, err
	}
	return s.getByID(feedback.ID)
}

func (s *FeedbackService) ListByIssue(issueID uint) ([]models.Feedback, error) {
	var issue models.Issue
	if err := s.db.First(&issue, issueID).Error; err != nil {
		return nil, notFoundOr(err, "issue not found")
	}

	var feedbacks []models.Feedback
	err := s.db.
		Preload("User").
		Where("issue_id = ?", issue.ID).
		Order("is_pinned DESC, created_at ASC").
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// Update edits a feedback entry. Only the author may change the content;
// admins may pin or unpin any entry.
func (s *FeedbackService) Update(id uint, actor Actor, req *UpdateFeedbackRequest) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := s.db.First(&feedback, id).Error; err != nil {
		return nil, notFoundOr(err, "feedback not found")
	}

	updates := make(map[string]interface{})
	if req.Content != "" {
		if feedback.UserID != actor.ID && actor.Role != models.RoleAdmin {
			return nil, response.NewForbidden("only the author can edit this feedback")
		}
		updates["content"] = req.Content
	}
	if req.IsPinned != nil {
		if actor.Role != models.RoleAdmin {
			return nil, response.NewForbidden("only admins can pin feedback")
		}
		updates["is_pinned"] = *req.IsPinned
	}

	if len(updates) > 0 {
		if err := s.db.Model(&feedback).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.getByID(id)
}

func (s *FeedbackService) Delete(id uint, actor Actor) error {
	var feedback models.Feedback
	if err := s.db.First(&feedback, id).Error; err != nil {
		return notFoundOr(err, "feedback not found")
	}
	if feedback.UserID != actor.ID && actor.Role != models.RoleAdmin {
		return response.NewForbidden("only the author can delete this feedback")
	}
	return s.db.Delete(&feedback).Error
}

func (s *FeedbackService) getByID(id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := s.db.Preload("User").First(&feedback, id).Error; err != nil {
		return nil, notFoundOr(err, "feedback not found")
	}
	return &feedback, nil
}
