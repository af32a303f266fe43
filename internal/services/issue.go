package services

import (
	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"gorm.io/gorm"
)

// IssueService manages issues. Service-linked issues are created and removed
// by the service lifecycle; only general issues are created here.
type IssueService struct {
	db *gorm.DB
}

func NewIssueService(db *gorm.DB) *IssueService {
	return &IssueService{db: db}
}

type CreateIssueRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateIssueRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

type IssueListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	Category string `form:"category"`
	Search   string `form:"search"`
}

type IssueListResponse struct {
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []models.Issue `json:"items"`
}

// Create opens a general issue not tied to any service.
func (s *IssueService) Create(createdBy uint, req *CreateIssueRequest) (*models.Issue, error) {
	issue := models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.IssueStatusOpen,
		Category:    models.IssueCategoryGeneral,
		CreatedByID: createdBy,
	}
	if err := s.db.Create(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *IssueService) GetByID(id uint) (*models.Issue, error) {
	var issue models.Issue
	err := s.db.
		Preload("CreatedBy").
		Preload("Service").
		Preload("Feedbacks").
		Preload("Feedbacks.User").
		First(&issue, id).Error
	if err != nil {
		return nil, notFoundOr(err, "issue not found")
	}
	return &issue, nil
}

func (s *IssueService) GetByServiceID(serviceID uint) (*models.Issue, error) {
	var issue models.Issue
	err := s.db.
		Preload("CreatedBy").
		Preload("Feedbacks").
		Preload("Feedbacks.User").
		Where("service_id = ?", serviceID).
		First(&issue).Error
	if err != nil {
		return nil, notFoundOr(err, "issue not found for this service")
	}
	return &issue, nil
}

// List returns paginated issues
func (s *IssueService) List(req *IssueListRequest) (*IssueListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	var issues []models.Issue
	var total int64

	query := s.db.Model(&models.Issue{})

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").
		Preload("CreatedBy").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}

	return &IssueListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    issues,
	}, nil
}

// Update patches an issue's title, description, or status. Service-linked
// issues keep their title in step with the service, so retitling them here
// is rejected.
func (s *IssueService) Update(id uint, req *UpdateIssueRequest) (*models.Issue, error) {
	var issue models.Issue
	if err := s.db.First(&issue, id).Error; err != nil {
		return nil, notFoundOr(err, "issue not found")
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		if issue.Category == models.IssueCategoryService {
			return nil, response.NewInvalidRequest("service-linked issues cannot be retitled")
		}
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != "" {
		if req.Status != models.IssueStatusOpen && req.Status != models.IssueStatusClosed {
			return nil, response.NewInvalidRequest("invalid status value")
		}
		updates["status"] = req.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(&issue).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes a general issue and its feedback. Service-linked issues are
// deleted with their service, not directly.
func (s *IssueService) Delete(id uint) error {
	var issue models.Issue
	if err := s.db.First(&issue, id).Error; err != nil {
		return notFoundOr(err, "issue not found")
	}
	if issue.Category == models.IssueCategoryService {
		return response.NewInvalidRequest("service-linked issues are deleted with their service")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", issue.ID).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		return tx.Delete(&issue).Error
	})
}
