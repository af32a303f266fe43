package main

import (
	"github.com/falmutairi/projecthub/backend/internal/config"
	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"github.com/falmutairi/projecthub/backend/internal/utils"
	"github.com/falmutairi/projecthub/backend/pkg/logger"
)

// appServices holds the initialized shared dependencies of the application.
type appServices struct {
	blobs          storage.BlobStore
	serviceService *services.ServiceService
	cardService    *services.CardService
	projectService *services.ProjectService
	authService    *services.AuthService
}

// bootstrap initializes all application dependencies: database, object
// storage, services, and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Initialize object storage. Without an endpoint the server keeps
	// attachments in memory, which only makes sense for local development.
	var blobs storage.BlobStore
	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewMinioStore(&cfg.Storage)
		if err != nil {
			logger.Fatalf("Failed to connect to object storage: %v", err)
		}
		blobs = store
	} else {
		logger.Warn().Msg("no storage endpoint configured, using in-memory blob store")
		blobs = storage.NewMemoryStore()
	}

	// Initialize system logger
	services.InitSystemLogger(db)

	// Start system log cleanup scheduler
	services.StartLogCleanupScheduler(db, cfg.Log.RetentionDays)

	// Create default admin user
	authService := services.NewAuthService(db, &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	serviceService := services.NewServiceService(db, blobs)

	return &appServices{
		blobs:          blobs,
		serviceService: serviceService,
		cardService:    services.NewCardService(db),
		projectService: services.NewProjectService(db, serviceService),
		authService:    authService,
	}
}
