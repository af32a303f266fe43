package services

import (
	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db       *gorm.DB
	services *ServiceService
}

func NewProjectService(db *gorm.DB, services *ServiceService) *ProjectService {
	return &ProjectService{db: db, services: services}
}

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *ProjectService) Create(req *CreateProjectRequest) (*models.Project, error) {
	var count int64
	s.db.Model(&models.Project{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("project name already exists")
	}

	project := models.Project{Name: req.Name}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.
		Preload("Services").
		Preload("Services.Chief").
		Preload("Services.ProjectManager").
		First(&project, id).Error
	if err != nil {
		return nil, notFoundOr(err, "project not found")
	}
	return &project, nil
}

func (s *ProjectService) List() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("name ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, notFoundOr(err, "project not found")
	}

	if err := s.db.Model(&project).Update("name", req.Name).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a project and cascades through every service it owns,
// taking each service's board, cards, issue, and comments along with it.
func (s *ProjectService) Delete(id uint) error {
	var project models.Project
	if err := s.db.Preload("Services").First(&project, id).Error; err != nil {
		return notFoundOr(err, "project not found")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, svc := range project.Services {
			if err := s.services.deleteGraph(tx, svc.ID); err != nil {
				return err
			}
		}
		return tx.Delete(&project).Error
	})
}
