package handlers

import (
	"github.com/falmutairi/projecthub/backend/internal/middleware"
	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type IssueHandler struct {
	issueService    *services.IssueService
	feedbackService *services.FeedbackService
}

func NewIssueHandler(db *gorm.DB) *IssueHandler {
	return &IssueHandler{
		issueService:    services.NewIssueService(db),
		feedbackService: services.NewFeedbackService(db),
	}
}

// List returns paginated issues
// GET /api/issues
func (h *IssueHandler) List(c *gin.Context) {
	var req services.IssueListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.issueService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns an issue with its feedback thread
// GET /api/issues/:id
func (h *IssueHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid issue id")
		return
	}

	issue, err := h.issueService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, issue)
}

// GetByService returns the issue linked to a service
// GET /api/issues/service/:id
func (h *IssueHandler) GetByService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}

	issue, err := h.issueService.GetByServiceID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, issue)
}

// Create opens a general issue
// POST /api/issues
func (h *IssueHandler) Create(c *gin.Context) {
	var req services.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, issue)
}

// Update patches an issue
// PUT /api/issues/:id
func (h *IssueHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid issue id")
		return
	}

	var req services.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, issue)
}

// Delete removes a general issue
// DELETE /api/issues/:id
func (h *IssueHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid issue id")
		return
	}

	if err := h.issueService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "issue deleted successfully"})
}

// ListFeedback returns the feedback thread of an issue
// GET /api/issues/:id/feedback
func (h *IssueHandler) ListFeedback(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid issue id")
		return
	}

	feedbacks, err := h.feedbackService.ListByIssue(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feedbacks)
}

// CreateFeedback appends a feedback entry to an issue
// POST /api/issues/:id/feedback
func (h *IssueHandler) CreateFeedback(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid issue id")
		return
	}

	var req services.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	feedback, err := h.feedbackService.Create(id, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feedback)
}

// UpdateFeedback edits or pins a feedback entry
// PUT /api/feedback/:id
func (h *IssueHandler) UpdateFeedback(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid feedback id")
		return
	}

	var req services.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	feedback, err := h.feedbackService.Update(id, currentActor(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feedback)
}

// DeleteFeedback removes a feedback entry
// DELETE /api/feedback/:id
func (h *IssueHandler) DeleteFeedback(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid feedback id")
		return
	}

	if err := h.feedbackService.Delete(id, currentActor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "feedback deleted successfully"})
}
