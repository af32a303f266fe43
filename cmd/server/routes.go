package main

import (
	"time"

	"github.com/falmutairi/projecthub/backend/internal/config"
	"github.com/falmutairi/projecthub/backend/internal/handlers"
	"github.com/falmutairi/projecthub/backend/internal/middleware"
	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, app *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	db := models.GetDB()
	urlTTL := time.Duration(cfg.Storage.URLExpireSec) * time.Second

	// Rate limiter for the login route
	loginLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	authHandler := handlers.NewAuthHandler(db, &cfg.JWT)
	userHandler := handlers.NewUserHandler(db, app.blobs, urlTTL)
	projectHandler := handlers.NewProjectHandler(app.projectService)
	serviceHandler := handlers.NewServiceHandler(app.serviceService, app.cardService, app.blobs, urlTTL)
	boardHandler := handlers.NewTaskBoardHandler(db)
	issueHandler := handlers.NewIssueHandler(db)
	commentHandler := handlers.NewCommentHandler(db)
	certHandler := handlers.NewCertificateHandler(db, app.blobs, urlTTL)
	systemLogHandler := handlers.NewSystemLogHandler(db)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", authHandler.Me)
			protected.POST("/auth/change-password", authHandler.ChangePassword)

			// Users (read for all users)
			protected.GET("/users", userHandler.List)
			protected.GET("/users/search", userHandler.SearchBySkill)
			protected.GET("/users/:id", userHandler.GetByID)
			protected.GET("/users/:id/profile-image", userHandler.ProfileImageURL)
			protected.POST("/users/:id/profile-image", userHandler.UploadProfileImage)
			protected.GET("/users/:id/certificates", certHandler.ListByUser)
			protected.POST("/users/:id/certificates", certHandler.Create)

			// Certificates
			protected.GET("/certificates/:id/file", certHandler.FileURL)
			protected.POST("/certificates/:id/file", certHandler.UploadFile)
			protected.DELETE("/certificates/:id", certHandler.Delete)

			// Projects
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:id", projectHandler.GetByID)
			protected.POST("/projects", projectHandler.Create)
			protected.PUT("/projects/:id", projectHandler.Update)

			// Services
			protected.GET("/services", serviceHandler.List)
			protected.GET("/services/user/:id", serviceHandler.ForUser)
			protected.GET("/services/:id", serviceHandler.GetByID)
			protected.POST("/services", serviceHandler.Create)
			protected.PUT("/services/:id", serviceHandler.Update)
			protected.DELETE("/services/:id", serviceHandler.Delete)
			protected.GET("/services/:id/tasks", serviceHandler.Tasks)
			protected.POST("/services/:id/attachments", serviceHandler.UploadAttachments)
			protected.GET("/services/:id/attachments/:attachmentId/url", serviceHandler.AttachmentURL)
			protected.GET("/services/:id/comments", commentHandler.ListByService)
			protected.POST("/services/:id/comments", commentHandler.Create)

			// Task boards and cards
			protected.GET("/taskboards/:id", boardHandler.GetByID)
			protected.GET("/taskboards/:id/cards", boardHandler.Cards)
			protected.POST("/taskboards/:id/cards", boardHandler.CreateCard)
			protected.POST("/taskboards/:id/cards/if-not-exists", boardHandler.CreateCardIfNotExists)
			protected.PUT("/taskboards/:id/cards/:cardId", boardHandler.UpdateCard)
			protected.DELETE("/taskboards/:id/cards/:cardId", boardHandler.DeleteCard)
			protected.GET("/cards/user/:id", boardHandler.CardsForUser)
			protected.POST("/cards/users", boardHandler.CardUsers)

			// Issues and feedback
			protected.GET("/issues", issueHandler.List)
			protected.GET("/issues/service/:id", issueHandler.GetByService)
			protected.GET("/issues/:id", issueHandler.GetByID)
			protected.POST("/issues", issueHandler.Create)
			protected.PUT("/issues/:id", issueHandler.Update)
			protected.DELETE("/issues/:id", issueHandler.Delete)
			protected.GET("/issues/:id/feedback", issueHandler.ListFeedback)
			protected.POST("/issues/:id/feedback", issueHandler.CreateFeedback)
			protected.PUT("/feedback/:id", issueHandler.UpdateFeedback)
			protected.DELETE("/feedback/:id", issueHandler.DeleteFeedback)

			// Comments
			protected.DELETE("/comments/:id", commentHandler.Delete)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Users (write operations)
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			// Projects (delete cascades through services)
			admin.DELETE("/projects/:id", projectHandler.Delete)

			// System Logs
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
