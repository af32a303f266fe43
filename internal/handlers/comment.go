package handlers

import (
	"github.com/falmutairi/projecthub/backend/internal/middleware"
	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{
		commentService: services.NewCommentService(db),
	}
}

// ListByService returns a service's comments
// GET /api/services/:id/comments
func (h *CommentHandler) ListByService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}

	comments, err := h.commentService.ListByService(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

// Create attaches a comment to a service
// POST /api/services/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(id, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// Delete removes a comment
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid comment id")
		return
	}

	if err := h.commentService.Delete(id, currentActor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "comment deleted successfully"})
}
