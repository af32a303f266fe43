package services

import (
	"testing"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestServiceService(t *testing.T) (*ServiceService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewServiceService(db, storage.NewMemoryStore()), db
}

func mustCreateUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "irrelevant",
		Role:      role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return &user
}

func mustCreateProject(t *testing.T, db *gorm.DB, name string) *models.Project {
	t.Helper()
	project := models.Project{Name: name}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project %s: %v", name, err)
	}
	return &project
}

// mustCreateService builds a service through the real creation path so the
// board and issue exist too.
func mustCreateService(t *testing.T, svc *ServiceService, db *gorm.DB, name string, chiefID uint) *models.Service {
	t.Helper()
	project := mustCreateProject(t, db, name+"-project")
	created, err := svc.Create(&CreateServiceRequest{
		Name:      name,
		ProjectID: project.ID,
		ChiefID:   chiefID,
	})
	if err != nil {
		t.Fatalf("failed to create service %s: %v", name, err)
	}
	return created
}

func boardForService(t *testing.T, db *gorm.DB, serviceID uint) *models.TaskBoard {
	t.Helper()
	var board models.TaskBoard
	if err := db.Where("service_id = ?", serviceID).First(&board).Error; err != nil {
		t.Fatalf("service %d has no task board: %v", serviceID, err)
	}
	return &board
}
