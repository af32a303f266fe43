package services

import (
	"context"
	"time"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"github.com/falmutairi/projecthub/backend/pkg/logger"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"gorm.io/gorm"
)

type CertificateService struct {
	db    *gorm.DB
	blobs storage.BlobStore
}

func NewCertificateService(db *gorm.DB, blobs storage.BlobStore) *CertificateService {
	return &CertificateService{db: db, blobs: blobs}
}

type CreateCertificateRequest struct {
	Name                string  `json:"name" binding:"required"`
	Type                string  `json:"type"`
	IssuingOrganization string  `json:"issuing_organization"`
	IssueDate           *string `json:"issue_date"`  // YYYY-MM-DD
	ExpireDate          *string `json:"expire_date"` // YYYY-MM-DD
	Description         string  `json:"description"`
}

// Create records a certificate for a user. The certificate file, if any, is
// attached afterwards through SetFile.
func (s *CertificateService) Create(userID uint, req *CreateCertificateRequest) (*models.Certificate, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}

	issueDate, err := parseDeadline(req.IssueDate)
	if err != nil {
		return nil, response.NewInvalidRequest("issue_date must be formatted as YYYY-MM-DD")
	}
	expireDate, err := parseDeadline(req.ExpireDate)
	if err != nil {
		return nil, response.NewInvalidRequest("expire_date must be formatted as YYYY-MM-DD")
	}

	cert := models.Certificate{
		UserID:              user.ID,
		Name:                req.Name,
		Type:                req.Type,
		IssuingOrganization: req.IssuingOrganization,
		IssueDate:           issueDate,
		ExpireDate:          expireDate,
		Description:         req.Description,
	}
	if err := s.db.Create(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (s *CertificateService) ListByUser(userID uint) ([]models.Certificate, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}

	var certs []models.Certificate
	err := s.db.Where("user_id = ?", user.ID).Order("issue_date DESC, id DESC").Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func (s *CertificateService) GetByID(id uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := s.db.First(&cert, id).Error; err != nil {
		return nil, notFoundOr(err, "certificate not found")
	}
	return &cert, nil
}

// SetFile stores the uploaded document key, replacing any previous file.
func (s *CertificateService) SetFile(ctx context.Context, id uint, key string) (*models.Certificate, error) {
	cert, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	old := cert.FileKey
	if err := s.db.Model(cert).Update("file_key", key).Error; err != nil {
		return nil, err
	}
	if old != "" && old != key {
		if err := s.blobs.Delete(ctx, old); err != nil {
			logger.Warn().Err(err).Str("key", old).Msg("failed to delete replaced certificate file")
		}
	}
	return s.GetByID(id)
}

// FileURL returns a signed download URL for the certificate document.
func (s *CertificateService) FileURL(ctx context.Context, id uint, ttl time.Duration) (string, error) {
	cert, err := s.GetByID(id)
	if err != nil {
		return "", err
	}
	if cert.FileKey == "" {
		return "", response.NewNotFound("certificate has no file")
	}
	return s.blobs.SignedURL(ctx, cert.FileKey, ttl)
}

func (s *CertificateService) Delete(ctx context.Context, id uint) error {
	cert, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(cert).Error; err != nil {
		return err
	}
	if cert.FileKey != "" {
		if err := s.blobs.Delete(ctx, cert.FileKey); err != nil {
			logger.Warn().Err(err).Str("key", cert.FileKey).Msg("failed to delete certificate file")
		}
	}
	return nil
}
