package services

import (
	"context"
	"time"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"github.com/falmutairi/projecthub/backend/internal/utils"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	blobs storage.BlobStore
}

func NewUserService(db *gorm.DB, blobs storage.BlobStore) *UserService {
	return &UserService{db: db, blobs: blobs}
}

type CreateUserRequest struct {
	FirstName string   `json:"first_name" binding:"required"`
	LastName  string   `json:"last_name" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=6"`
	Role      string   `json:"role"`
	Skills    []string `json:"skills"`
}

type UpdateUserRequest struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Skills    *[]string `json:"skills"`
}

type UserListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Role     string `form:"role"`
}

type UserListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.User `json:"items"`
}

// Create registers a new user with a hashed password.
func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("email already registered")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleDeveloper
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hashed,
		Role:      role,
		Skills:    joinList(req.Skills),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

// List returns paginated users
func (s *UserService) List(req *UserListRequest) (*UserListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	err := query.Offset(offset).Limit(req.PageSize).Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}

	return &UserListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    users,
	}, nil
}

// Update applies a partial update to a user profile.
func (s *UserService) Update(id uint, req *UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}

	updates := make(map[string]interface{})
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Email != "" && req.Email != user.Email {
		var count int64
		s.db.Model(&models.User{}).Where("email = ? AND id <> ?", req.Email, id).Count(&count)
		if count > 0 {
			return nil, response.NewConflict("email already registered")
		}
		updates["email"] = req.Email
	}
	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.Skills != nil {
		updates["skills"] = joinList(*req.Skills)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes a user. Users still holding a chief role on any service
// cannot be deleted because the service graph requires a chief.
func (s *UserService) Delete(id uint) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return notFoundOr(err, "user not found")
	}

	var chiefCount int64
	s.db.Model(&models.Service{}).Where("chief_id = ?", id).Count(&chiefCount)
	if chiefCount > 0 {
		return response.NewConflict("user is chief of one or more services")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM service_resources WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_card WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Service{}).Where("project_manager_id = ?", id).
			Update("project_manager_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Service{}).Where("backup_id = ?", id).
			Update("backup_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Card{}).Where("assigned_user_id = ?", id).
			Update("assigned_user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// SetProfileImage stores the uploaded image key, replacing the previous blob.
func (s *UserService) SetProfileImage(ctx context.Context, id uint, key string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}

	old := user.ProfileImageKey
	if err := s.db.Model(&user).Update("profile_image_key", key).Error; err != nil {
		return nil, err
	}
	if old != "" && old != key {
		_ = s.blobs.Delete(ctx, old)
	}
	return s.GetByID(id)
}

// ProfileImageURL returns a signed URL for the user's profile image.
func (s *UserService) ProfileImageURL(ctx context.Context, id uint, ttl time.Duration) (string, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return "", notFoundOr(err, "user not found")
	}
	if user.ProfileImageKey == "" {
		return "", response.NewNotFound("user has no profile image")
	}
	return s.blobs.SignedURL(ctx, user.ProfileImageKey, ttl)
}

// SearchBySkill returns users whose skill list contains the given skill.
func (s *UserService) SearchBySkill(skill string) ([]models.User, error) {
	if skill == "" {
		return nil, response.NewInvalidRequest("skill is required")
	}
	var users []models.User
	err := s.db.Where("skills LIKE ?", "%"+skill+"%").Find(&users).Error
	if err != nil {
		return nil, err
	}

	// The LIKE match is a coarse filter; confirm against the parsed list.
	out := users[:0]
	for _, u := range users {
		for _, have := range splitAndTrim(u.Skills, ",") {
			if have == skill {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}
