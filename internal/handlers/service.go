package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strings"
	"time"

	"github.com/falmutairi/projecthub/backend/internal/middleware"
	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"github.com/falmutairi/projecthub/backend/pkg/logger"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	serviceService *services.ServiceService
	cardService    *services.CardService
	blobs          storage.BlobStore
	urlTTL         time.Duration
}

func NewServiceHandler(serviceService *services.ServiceService, cardService *services.CardService, blobs storage.BlobStore, urlTTL time.Duration) *ServiceHandler {
	return &ServiceHandler{
		serviceService: serviceService,
		cardService:    cardService,
		blobs:          blobs,
		urlTTL:         urlTTL,
	}
}

// List returns paginated services
// GET /api/services
func (h *ServiceHandler) List(c *gin.Context) {
	var req services.ServiceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.serviceService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns a service with its role assignments and attachments
// GET /api/services/:id
func (h *ServiceHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}

	svc, err := h.serviceService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, svc)
}

// Create creates a service with its task board and linked issue. Accepts
// either a JSON body or a multipart form whose "data" field holds the JSON
// payload and whose "files" parts are uploaded as attachments.
// POST /api/services
func (h *ServiceHandler) Create(c *gin.Context) {
	var req services.CreateServiceRequest
	var files []*multipart.FileHeader

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		payload := c.PostForm("data")
		if payload == "" {
			response.BadRequest(c, "data field is required")
			return
		}
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if req.Name == "" {
			response.BadRequest(c, "name is required")
			return
		}
		files = form.File["files"]
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	svc, err := h.serviceService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if len(files) > 0 {
		inputs, err := h.uploadFiles(c, files)
		if err != nil {
			// Service creation already committed; report the upload failure
			// without rolling the service back.
			logger.Error().Err(err).Uint("service_id", svc.ID).Msg("attachment upload failed after service create")
			response.Error(c, err)
			return
		}
		if _, err := h.serviceService.AddAttachments(svc.ID, inputs); err != nil {
			response.Error(c, err)
			return
		}
		svc, err = h.serviceService.GetByID(svc.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	userID := middleware.GetUserID(c)
	services.LogInfo("service", "create", "service created", &userID, c.ClientIP(), c.Request.UserAgent(),
		gin.H{"service_id": svc.ID, "name": svc.Name})
	response.Created(c, svc)
}

// Update applies a partial update to a service
// PUT /api/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}

	var req services.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	svc, err := h.serviceService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, svc)
}

// Delete removes a service and its whole dependent graph
// DELETE /api/services/:id
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}

	if err := h.serviceService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}

	userID := middleware.GetUserID(c)
	services.LogWarning("service", "delete", "service deleted with board, cards and issue", &userID,
		c.ClientIP(), c.Request.UserAgent(), gin.H{"service_id": id})
	response.Success(c, gin.H{"message": "service deleted successfully"})
}

// ForUser returns every service a user participates in via any role
// GET /api/services/user/:id
func (h *ServiceHandler) ForUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	list, err := h.serviceService.GetAllForUser(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// Tasks returns the cards on the service's board
// GET /api/services/:id/tasks
func (h *ServiceHandler) Tasks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}

	cards, err := h.cardService.GetCardsFromService(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cards)
}

// UploadAttachments adds files to an existing service
// POST /api/services/:id/attachments
func (h *ServiceHandler) UploadAttachments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.BadRequest(c, "at least one file is required")
		return
	}

	inputs, err := h.uploadFiles(c, files)
	if err != nil {
		response.Error(c, err)
		return
	}

	attachments, err := h.serviceService.AddAttachments(id, inputs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attachments)
}

// AttachmentURL returns a signed download URL for an attachment
// GET /api/services/:id/attachments/:attachmentId/url
func (h *ServiceHandler) AttachmentURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid service id")
		return
	}
	attID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		response.BadRequest(c, "invalid attachment id")
		return
	}

	url, err := h.serviceService.AttachmentURL(c.Request.Context(), id, attID, h.urlTTL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

func (h *ServiceHandler) uploadFiles(c *gin.Context, files []*multipart.FileHeader) ([]services.AttachmentInput, error) {
	inputs := make([]services.AttachmentInput, 0, len(files))
	for _, f := range files {
		src, err := f.Open()
		if err != nil {
			return nil, err
		}
		key := storage.ObjectKey("service-attachments", f.Filename)
		_, err = h.blobs.Put(c.Request.Context(), key, src, f.Size, f.Header.Get("Content-Type"))
		src.Close()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, services.AttachmentInput{Name: f.Filename, Key: key})
	}
	return inputs, nil
}
