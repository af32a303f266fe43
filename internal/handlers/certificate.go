package handlers

import (
	"time"

	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CertificateHandler struct {
	certService *services.CertificateService
	blobs       storage.BlobStore
	urlTTL      time.Duration
}

func NewCertificateHandler(db *gorm.DB, blobs storage.BlobStore, urlTTL time.Duration) *CertificateHandler {
	return &CertificateHandler{
		certService: services.NewCertificateService(db, blobs),
		blobs:       blobs,
		urlTTL:      urlTTL,
	}
}

// ListByUser returns a user's certificates
// GET /api/users/:id/certificates
func (h *CertificateHandler) ListByUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	certs, err := h.certService.ListByUser(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, certs)
}

// Create records a certificate for a user
// POST /api/users/:id/certificates
func (h *CertificateHandler) Create(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req services.CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cert, err := h.certService.Create(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cert)
}

// UploadFile attaches a document to a certificate
// POST /api/certificates/:id/file
func (h *CertificateHandler) UploadFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid certificate id")
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

	key := storage.ObjectKey("certificates", file.Filename)
	if _, err := h.blobs.Put(c.Request.Context(), key, src, file.Size, file.Header.Get("Content-Type")); err != nil {
		response.Error(c, err)
		return
	}

	cert, err := h.certService.SetFile(c.Request.Context(), id, key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cert)
}

// FileURL returns a signed download URL for the certificate document
// GET /api/certificates/:id/file
func (h *CertificateHandler) FileURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid certificate id")
		return
	}

	url, err := h.certService.FileURL(c.Request.Context(), id, h.urlTTL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

// Delete removes a certificate and its file
// DELETE /api/certificates/:id
func (h *CertificateHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid certificate id")
		return
	}

	if err := h.certService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "certificate deleted successfully"})
}
