package services

import (
	"testing"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/internal/storage"
	"gorm.io/gorm"
)

func newTestUserService(t *testing.T) (*UserService, *ServiceService, *gorm.DB) {
	t.Helper()
	svc, db := newTestServiceService(t)
	return NewUserService(db, storage.NewMemoryStore()), svc, db
}

func TestUserCreate_SkillsRoundTrip(t *testing.T) {
	users, _, _ := newTestUserService(t)

	user, err := users.Create(&CreateUserRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "secret1",
		Skills:    []string{"go", " sql ", ""},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.Skills != "go,sql" {
		t.Errorf("Skills = %q, expected %q", user.Skills, "go,sql")
	}
	if user.Role != models.RoleDeveloper {
		t.Errorf("Role = %q, expected default %q", user.Role, models.RoleDeveloper)
	}

	found, err := users.SearchBySkill("sql")
	if err != nil {
		t.Fatalf("SearchBySkill() error = %v", err)
	}
	if len(found) != 1 || found[0].ID != user.ID {
		t.Errorf("SearchBySkill(sql) = %d users, expected the created user", len(found))
	}

	// Substring of a skill must not match.
	found, err = users.SearchBySkill("sq")
	if err != nil {
		t.Fatalf("SearchBySkill() error = %v", err)
	}
	if len(found) != 0 {
		t.Errorf("SearchBySkill(sq) = %d users, expected 0", len(found))
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	users, _, _ := newTestUserService(t)

	req := &CreateUserRequest{
		FirstName: "A", LastName: "B",
		Email: "dup@example.com", Password: "secret1",
	}
	if _, err := users.Create(req); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := users.Create(req); err == nil {
		t.Error("Create() should reject a duplicate email")
	}
}

func TestUserDelete_ChiefIsBlocked(t *testing.T) {
	users, svc, db := newTestUserService(t)

	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	mustCreateService(t, svc, db, "guarded", chief.ID)

	if err := users.Delete(chief.ID); err == nil {
		t.Error("Delete() should refuse to remove a service chief")
	}
}

func TestUserDelete_DetachesRoles(t *testing.T) {
	users, svc, db := newTestUserService(t)

	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	manager := mustCreateUser(t, db, "manager@example.com", models.RoleDeveloper)
	created := mustCreateService(t, svc, db, "managed", chief.ID)
	if _, err := svc.Update(created.ID, &UpdateServiceRequest{
		ManagerID: OptionalID{Set: true, Value: &manager.ID},
		Resources: &[]uint{manager.ID},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if err := users.Delete(manager.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	reloaded, err := svc.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if reloaded.ProjectManagerID != nil {
		t.Errorf("ProjectManagerID = %v after user delete, expected nil", *reloaded.ProjectManagerID)
	}
	if len(reloaded.AssignedResources) != 0 {
		t.Errorf("AssignedResources = %d after user delete, expected 0", len(reloaded.AssignedResources))
	}
}
