package handlers

import (
	"time"

	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
	blobs       storage.BlobStore
	urlTTL      time.Duration
}

func NewUserHandler(db *gorm.DB, blobs storage.BlobStore, urlTTL time.Duration) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db, blobs),
		blobs:       blobs,
		urlTTL:      urlTTL,
	}
}

// List returns paginated users
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var req services.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns a user by ID
// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Create registers a new user (admin only)
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update updates a user (admin only)
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Delete removes a user (admin only)
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.userService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "user deleted successfully"})
}

// UploadProfileImage stores a new profile image for a user
// POST /api/users/:id/profile-image
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	key := storage.ObjectKey("profile-images", file.Filename)
	contentType := file.Header.Get("Content-Type")
	if _, err := h.blobs.Put(c.Request.Context(), key, src, file.Size, contentType); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.userService.SetProfileImage(c.Request.Context(), id, key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// ProfileImageURL returns a signed URL for the user's profile image
// GET /api/users/:id/profile-image
func (h *UserHandler) ProfileImageURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	url, err := h.userService.ProfileImageURL(c.Request.Context(), id, h.urlTTL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

// SearchBySkill returns users holding a given skill
// GET /api/users/search?skill=go
func (h *UserHandler) SearchBySkill(c *gin.Context) {
	users, err := h.userService.SearchBySkill(c.Query("skill"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}
