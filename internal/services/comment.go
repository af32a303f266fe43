package services

import (
	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create attaches a comment to a service.
func (s *CommentService) Create(serviceID, userID uint, req *CreateCommentRequest) (*models.Comment, error) {
	var svc models.Service
	if err := s.db.First(&svc, serviceID).Error; err != nil {
		return nil, notFoundOr(err, "service not found")
	}

	comment := models.Comment{
		ServiceID: svc.ID,
		UserID:    userID,
		Content:   req.Content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	var out models.Comment
	if err := s.db.Preload("User").First(&out, comment.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CommentService) ListByService(serviceID uint) ([]models.Comment, error) {
	var svc models.Service
	if err := s.db.First(&svc, serviceID).Error; err != nil {
		return nil, notFoundOr(err, "service not found")
	}

	var comments []models.Comment
	err := s.db.
		Preload("User").
		Where("service_id = ?", svc.ID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *CommentService) Delete(id uint, actor Actor) error {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		return notFoundOr(err, "comment not found")
	}
	if comment.UserID != actor.ID && actor.Role != models.RoleAdmin {
		return response.NewForbidden("only the author can delete this comment")
	}
	return s.db.Delete(&comment).Error
}
