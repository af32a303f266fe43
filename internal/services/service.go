package services

import (
	"context"
	"errors"
	"time"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"github.com/falmutairi/projecthub/backend/pkg/logger"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"gorm.io/gorm"
)

// Actor identifies the authenticated caller for authorization checks.
type Actor struct {
	ID   uint
	Role string
}

// CanManageCards is the single authorization rule in the system: admins, the
// service's chief, and its project manager may create or edit cards on the
// service's board. Assigned resources and backups may not. The decision is
// made over a freshly loaded service each call; it is never cached.
func CanManageCards(svc *models.Service, actor Actor) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	if svc == nil {
		return false
	}
	if svc.ChiefID == actor.ID {
		return true
	}
	if svc.ProjectManagerID != nil && *svc.ProjectManagerID == actor.ID {
		return true
	}
	return false
}

// ServiceService owns the service lifecycle: a service is created together
// with its task board and its linked issue in one transaction, and the whole
// dependent graph is deleted with it.
type ServiceService struct {
	db     *gorm.DB
	blobs  storage.BlobStore
	boards *TaskBoardService
}

func NewServiceService(db *gorm.DB, blobs storage.BlobStore) *ServiceService {
	return &ServiceService{db: db, blobs: blobs, boards: NewTaskBoardService(db)}
}

type ServiceListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Name      string `form:"name"`
	Status    string `form:"status"`
	ProjectID *uint  `form:"project_id"`
}

type ServiceListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Service `json:"items"`
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"` // YYYY-MM-DD
	ProjectID   uint    `json:"project_id" binding:"required"`
	ChiefID     uint    `json:"chief_id"`
	ManagerID   *uint   `json:"manager_id"`
	Resources   []uint  `json:"resources"`
}

type UpdateServiceRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Deadline    *string    `json:"deadline"`
	Status      string     `json:"status"`
	Progress    *int       `json:"progress"`
	ProjectID   *uint      `json:"project_id"`
	ChiefID     *uint      `json:"chief_id"`
	ManagerID   OptionalID `json:"manager_id"`
	BackupID    OptionalID `json:"backup_id"`
	Resources   *[]uint    `json:"resources"` // full replacement; empty list unassigns all
}

// AttachmentInput names a blob already uploaded to the store.
type AttachmentInput struct {
	Name string
	Key  string
}

const deadlineLayout = "2006-01-02"

// Create persists a new service together with its task board and linked
// issue. All three are committed as one unit: a failure at any step (an
// unresolvable project, chief, manager, or resource) leaves nothing behind.
func (s *ServiceService) Create(req *CreateServiceRequest) (*models.Service, error) {
	// The wire field is optional, so the requirement is enforced here and
	// not only by binding tags.
	if req.ChiefID == 0 {
		return nil, response.NewInvalidRequest("chief is required")
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	var created models.Service
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, req.ProjectID).Error; err != nil {
			return notFoundOr(err, "project not found")
		}

		var chief models.User
		if err := tx.First(&chief, req.ChiefID).Error; err != nil {
			return notFoundOr(err, "chief not found")
		}

		var managerID *uint
		if req.ManagerID != nil {
			var manager models.User
			if err := tx.First(&manager, *req.ManagerID).Error; err != nil {
				return notFoundOr(err, "project manager not found")
			}
			managerID = &manager.ID
		}

		resources, err := resolveUsers(tx, req.Resources)
		if err != nil {
			return err
		}

		created = models.Service{
			Name:              req.Name,
			Description:       req.Description,
			Deadline:          deadline,
			Status:            models.ServiceStatusNew,
			Progress:          0,
			ProjectID:         project.ID,
			ChiefID:           chief.ID,
			ProjectManagerID:  managerID,
			AssignedResources: resources,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if _, err := s.boards.createForService(tx, created.ID); err != nil {
			return err
		}

		issue := models.Issue{
			Title:       req.Name,
			Status:      models.IssueStatusOpen,
			Category:    models.IssueCategoryService,
			CreatedByID: chief.ID,
			ServiceID:   &created.ID,
		}
		return tx.Create(&issue).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(created.ID)
}

// Update applies a partial update. Only fields present in the patch change;
// reassigned references are re-resolved, an explicit null detaches the
// manager or backup, and a resources list replaces the whole membership set.
// The task board and issue are never touched here.
func (s *ServiceService) Update(id uint, req *UpdateServiceRequest) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, id).Error; err != nil {
		return nil, notFoundOr(err, "service not found")
	}

	updates := make(map[string]interface{})

	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(req.Deadline)
		if err != nil {
			return nil, err
		}
		updates["deadline"] = deadline
	}
	if req.Status != "" {
		if !models.ValidServiceStatus(req.Status) {
			return nil, response.NewInvalidRequest("invalid status value")
		}
		updates["status"] = req.Status
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, response.NewInvalidRequest("progress must be between 0 and 100")
		}
		updates["progress"] = *req.Progress
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.ProjectID != nil {
			var project models.Project
			if err := tx.First(&project, *req.ProjectID).Error; err != nil {
				return notFoundOr(err, "project not found")
			}
			updates["project_id"] = project.ID
		}
		if req.ChiefID != nil {
			var chief models.User
			if err := tx.First(&chief, *req.ChiefID).Error; err != nil {
				return notFoundOr(err, "chief not found")
			}
			updates["chief_id"] = chief.ID
		}
		if req.ManagerID.Set {
			if req.ManagerID.Value == nil {
				updates["project_manager_id"] = nil
			} else {
				var manager models.User
				if err := tx.First(&manager, *req.ManagerID.Value).Error; err != nil {
					return notFoundOr(err, "project manager not found")
				}
				updates["project_manager_id"] = manager.ID
			}
		}
		if req.BackupID.Set {
			if req.BackupID.Value == nil {
				updates["backup_id"] = nil
			} else {
				var backup models.User
				if err := tx.First(&backup, *req.BackupID.Value).Error; err != nil {
					return notFoundOr(err, "backup not found")
				}
				updates["backup_id"] = backup.ID
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&svc).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Resources != nil {
			resources, err := resolveUsers(tx, *req.Resources)
			if err != nil {
				return err
			}
			if err := tx.Model(&svc).Association("AssignedResources").Replace(&resources); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete removes the service and its whole dependent graph: the task board
// with its cards, the linked issue with its feedback, comments, and
// attachment records, all in one transaction. A missing board or issue is a
// no-op; a missing service is NotFound. Attachment blobs are removed
// best-effort after the commit.
func (s *ServiceService) Delete(id uint) error {
	var svc models.Service
	if err := s.db.Preload("Attachments").First(&svc, id).Error; err != nil {
		return notFoundOr(err, "service not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.deleteGraph(tx, id)
	})
	if err != nil {
		return err
	}

	for _, att := range svc.Attachments {
		if err := s.blobs.Delete(context.Background(), att.Key); err != nil {
			logger.Warn().Err(err).Str("key", att.Key).Msg("failed to delete attachment blob")
		}
	}
	return nil
}

// deleteGraph deletes a service's dependents and the service row inside the
// caller's transaction. Shared with the project cascade.
func (s *ServiceService) deleteGraph(tx *gorm.DB, id uint) error {
	if err := s.boards.deleteForService(tx, id); err != nil {
		return err
	}

	var issue models.Issue
	err := tx.Where("service_id = ?", id).First(&issue).Error
	switch {
	case err == nil:
		if err := tx.Where("issue_id = ?", issue.ID).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Issue{}, issue.ID).Error; err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if err := tx.Where("service_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("service_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Service{}, id).Error
}

// GetByID returns a service with its role assignments and attachments.
func (s *ServiceService) GetByID(id uint) (*models.Service, error) {
	var svc models.Service
	err := s.db.
		Preload("Project").
		Preload("Chief").
		Preload("ProjectManager").
		Preload("Backup").
		Preload("AssignedResources").
		Preload("Attachments").
		First(&svc, id).Error
	if err != nil {
		return nil, notFoundOr(err, "service not found")
	}
	return &svc, nil
}

// List returns paginated services
func (s *ServiceService) List(req *ServiceListRequest) (*ServiceListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	var services []models.Service
	var total int64

	query := s.db.Model(&models.Service{})

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.ProjectID != nil {
		query = query.Where("project_id = ?", *req.ProjectID)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").
		Preload("Chief").
		Preload("ProjectManager").
		Find(&services).Error
	if err != nil {
		return nil, err
	}

	return &ServiceListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    services,
	}, nil
}

// GetAllForUser returns every service the user is involved in via any of the
// four role relationships: chief, project manager, assigned resource, or
// backup. A user holding several roles on one service sees it once.
func (s *ServiceService) GetAllForUser(userID uint) ([]models.Service, error) {
	var services []models.Service
	err := s.db.Model(&models.Service{}).
		Distinct("services.*").
		Joins("LEFT JOIN service_resources sr ON sr.service_id = services.id").
		Where("services.chief_id = ? OR services.project_manager_id = ? OR services.backup_id = ? OR sr.user_id = ?",
			userID, userID, userID, userID).
		Preload("Project").
		Preload("Chief").
		Preload("ProjectManager").
		Preload("Backup").
		Preload("AssignedResources").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

// AddAttachments records uploaded blobs against a service, preserving the
// order they were uploaded in.
func (s *ServiceService) AddAttachments(serviceID uint, files []AttachmentInput) ([]models.Attachment, error) {
	var svc models.Service
	if err := s.db.First(&svc, serviceID).Error; err != nil {
		return nil, notFoundOr(err, "service not found")
	}

	attachments := make([]models.Attachment, 0, len(files))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, f := range files {
			att := models.Attachment{ServiceID: svc.ID, Name: f.Name, Key: f.Key}
			if err := tx.Create(&att).Error; err != nil {
				return err
			}
			attachments = append(attachments, att)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// AttachmentURL returns a signed download URL for one of a service's
// attachments.
func (s *ServiceService) AttachmentURL(ctx context.Context, serviceID, attachmentID uint, ttl time.Duration) (string, error) {
	var att models.Attachment
	err := s.db.Where("id = ? AND service_id = ?", attachmentID, serviceID).First(&att).Error
	if err != nil {
		return "", notFoundOr(err, "attachment not found")
	}
	return s.blobs.SignedURL(ctx, att.Key, ttl)
}

func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := time.Parse(deadlineLayout, *raw)
	if err != nil {
		return nil, response.NewInvalidRequest("deadline must be formatted as YYYY-MM-DD")
	}
	return &d, nil
}

// notFoundOr maps a gorm missing-record error to the API NotFound error and
// passes any other store failure through untouched.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFound(msg)
	}
	return err
}

// resolveUsers loads all referenced users. Any missing id aborts with
// NotFound: role membership is a strict reference, unlike card assignment.
func resolveUsers(tx *gorm.DB, ids []uint) ([]models.User, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := tx.Find(&users, unique).Error; err != nil {
		return nil, err
	}
	if len(users) != len(unique) {
		return nil, response.NewNotFound("one or more resource users not found")
	}
	return users, nil
}
