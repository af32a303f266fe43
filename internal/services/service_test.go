package services

import (
	"testing"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/pkg/response"
)

func TestCanManageCards(t *testing.T) {
	managerID := uint(2)
	svc := &models.Service{ChiefID: 1, ProjectManagerID: &managerID}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"admin always allowed", Actor{ID: 99, Role: models.RoleAdmin}, true},
		{"chief allowed", Actor{ID: 1, Role: models.RoleDeveloper}, true},
		{"project manager allowed", Actor{ID: 2, Role: models.RoleDeveloper}, true},
		{"other user forbidden", Actor{ID: 3, Role: models.RoleDeveloper}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageCards(svc, tt.actor); got != tt.want {
				t.Errorf("CanManageCards() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestCanManageCards_NoManager(t *testing.T) {
	svc := &models.Service{ChiefID: 1}
	if CanManageCards(svc, Actor{ID: 2, Role: models.RoleDeveloper}) {
		t.Error("user should not be allowed when service has no project manager")
	}
}

func TestServiceCreate_CreatesBoardAndIssue(t *testing.T) {
	svc, db := newTestServiceService(t)
	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	project := mustCreateProject(t, db, "alpha")

	created, err := svc.Create(&CreateServiceRequest{
		Name:      "billing-revamp",
		ProjectID: project.ID,
		ChiefID:   chief.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.Status != models.ServiceStatusNew {
		t.Errorf("Status = %q, expected %q", created.Status, models.ServiceStatusNew)
	}
	if created.Progress != 0 {
		t.Errorf("Progress = %d, expected 0", created.Progress)
	}

	var boardCount int64
	db.Model(&models.TaskBoard{}).Where("service_id = ?", created.ID).Count(&boardCount)
	if boardCount != 1 {
		t.Errorf("task board count = %d, expected 1", boardCount)
	}

	var issue models.Issue
	if err := db.Where("service_id = ?", created.ID).First(&issue).Error; err != nil {
		t.Fatalf("linked issue not found: %v", err)
	}
	if issue.Title != "billing-revamp" {
		t.Errorf("issue Title = %q, expected service name", issue.Title)
	}
	if issue.Status != models.IssueStatusOpen {
		t.Errorf("issue Status = %q, expected %q", issue.Status, models.IssueStatusOpen)
	}
	if issue.Category != models.IssueCategoryService {
		t.Errorf("issue Category = %q, expected %q", issue.Category, models.IssueCategoryService)
	}
	if issue.CreatedByID != chief.ID {
		t.Errorf("issue CreatedByID = %d, expected chief %d", issue.CreatedByID, chief.ID)
	}
}

func TestServiceCreate_MissingChief(t *testing.T) {
	svc, db := newTestServiceService(t)
	project := mustCreateProject(t, db, "alpha")

	_, err := svc.Create(&CreateServiceRequest{
		Name:      "no-chief",
		ProjectID: project.ID,
	})
	if err == nil {
		t.Fatal("Create() should fail without a chief")
	}
	if response.IsNotFound(err) {
		t.Errorf("missing chief field should be invalid-request, got not-found: %v", err)
	}
}

func TestServiceCreate_UnknownChiefRollsBack(t *testing.T) {
	svc, db := newTestServiceService(t)
	project := mustCreateProject(t, db, "alpha")

	_, err := svc.Create(&CreateServiceRequest{
		Name:      "ghost-chief",
		ProjectID: project.ID,
		ChiefID:   777,
	})
	if !response.IsNotFound(err) {
		t.Fatalf("Create() error = %v, expected not-found", err)
	}

	// Nothing from the failed transaction may remain.
	var svcCount, boardCount, issueCount int64
	db.Model(&models.Service{}).Count(&svcCount)
	db.Model(&models.TaskBoard{}).Count(&boardCount)
	db.Model(&models.Issue{}).Count(&issueCount)
	if svcCount != 0 || boardCount != 0 || issueCount != 0 {
		t.Errorf("leftover rows after failed create: services=%d boards=%d issues=%d",
			svcCount, boardCount, issueCount)
	}
}

func TestServiceCreate_UnknownResourceRollsBack(t *testing.T) {
	svc, db := newTestServiceService(t)
	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	project := mustCreateProject(t, db, "alpha")

	_, err := svc.Create(&CreateServiceRequest{
		Name:      "bad-resources",
		ProjectID: project.ID,
		ChiefID:   chief.ID,
		Resources: []uint{chief.ID, 888},
	})
	if !response.IsNotFound(err) {
		t.Fatalf("Create() error = %v, expected not-found", err)
	}

	var svcCount int64
	db.Model(&models.Service{}).Count(&svcCount)
	if svcCount != 0 {
		t.Errorf("service count = %d after failed create, expected 0", svcCount)
	}
}

func TestServiceUpdate_PartialPatch(t *testing.T) {
	svc, db := newTestServiceService(t)
	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	created := mustCreateService(t, svc, db, "patchy", chief.ID)

	desc := "original description"
	if _, err := svc.Update(created.ID, &UpdateServiceRequest{Description: &desc}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	progress := 40
	updated, err := svc.Update(created.ID, &UpdateServiceRequest{
		Status:   models.ServiceStatusInProgress,
		Progress: &progress,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Status != models.ServiceStatusInProgress {
		t.Errorf("Status = %q, expected %q", updated.Status, models.ServiceStatusInProgress)
	}
	if updated.Progress != 40 {
		t.Errorf("Progress = %d, expected 40", updated.Progress)
	}
	// Fields absent from the second patch keep their values.
	if updated.Description != "original description" {
		t.Errorf("Description = %q, expected untouched value", updated.Description)
	}
	if updated.Name != "patchy" {
		t.Errorf("Name = %q, expected untouched value", updated.Name)
	}
}

func TestServiceUpdate_InvalidStatus(t *testing.T) {
	svc, db := newTestServiceService(t)
	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	created := mustCreateService(t, svc, db, "statusy", chief.ID)

	_, err := svc.Update(created.ID, &UpdateServiceRequest{Status: "done-ish"})
	if err == nil {
		t.Fatal("Update() should reject an unknown status value")
	}
	if response.IsNotFound(err) {
		t.Errorf("unknown status should be invalid-request, got not-found")
	}
}

func TestServiceUpdate_ExplicitNullDetachesManager(t *testing.T) {
	svc, db := newTestServiceService(t)
	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	manager := mustCreateUser(t, db, "manager@example.com", models.RoleDeveloper)
	created := mustCreateService(t, svc, db, "managed", chief.ID)

	updated, err := svc.Update(created.ID, &UpdateServiceRequest{
		ManagerID: OptionalID{Set: true, Value: &manager.ID},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ProjectManagerID == nil || *updated.ProjectManagerID != manager.ID {
		t.Fatalf("ProjectManagerID = %v, expected %d", updated.ProjectManagerID, manager.ID)
	}

	// An absent manager_id key leaves the assignment alone.
	updated, err = svc.Update(created.ID, &UpdateServiceRequest{Name: "managed-renamed"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ProjectManagerID == nil {
		t.Fatal("absent manager_id must not detach the manager")
	}

	// An explicit null detaches.
	updated, err = svc.Update(created.ID, &UpdateServiceRequest{
		ManagerID: OptionalID{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ProjectManagerID != nil {
		t.Errorf("ProjectManagerID = %v after explicit null, expected nil", *updated.ProjectManagerID)
	}
}

func TestServiceUpdate_ResourcesReplaceSet(t *testing.T) {
	svc, db := newTestServiceService(t)
	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	r1 := mustCreateUser(t, db, "r1@example.com", models.RoleDeveloper)
	r2 := mustCreateUser(t, db, "r2@example.com", models.RoleDeveloper)
	created := mustCreateService(t, svc, db, "staffed", chief.ID)

	updated, err := svc.Update(created.ID, &UpdateServiceRequest{Resources: &[]uint{r1.ID, r2.ID}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.AssignedResources) != 2 {
		t.Fatalf("AssignedResources = %d, expected 2", len(updated.AssignedResources))
	}

	updated, err = svc.Update(created.ID, &UpdateServiceRequest{Resources: &[]uint{r2.ID}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.AssignedResources) != 1 || updated.AssignedResources[0].ID != r2.ID {
		t.Errorf("resources not replaced as a whole set: %+v", updated.AssignedResources)
	}

	// Empty list unassigns everyone.
	updated, err = svc.Update(created.ID, &UpdateServiceRequest{Resources: &[]uint{}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.AssignedResources) != 0 {
		t.Errorf("AssignedResources = %d after empty replacement, expected 0", len(updated.AssignedResources))
	}
}

func TestServiceDelete_CascadesGraph(t *testing.T) {
	svc, db := newTestServiceService(t)
	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	created := mustCreateService(t, svc, db, "doomed", chief.ID)
	board := boardForService(t, db, created.ID)

	cards := NewCardService(db)
	actor := Actor{ID: chief.ID, Role: models.RoleDeveloper}
	if _, err := cards.CreateCard(board.ID, actor, &CreateCardRequest{Title: "t1"}); err != nil {
		t.Fatalf("CreateCard() error = %v", err)
	}
	if _, err := cards.CreateCard(board.ID, actor, &CreateCardRequest{Title: "t2"}); err != nil {
		t.Fatalf("CreateCard() error = %v", err)
	}

	comment := models.Comment{ServiceID: created.ID, UserID: chief.ID, Content: "note"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var svcCount, boardCount, cardCount, issueCount, commentCount int64
	db.Model(&models.Service{}).Where("id = ?", created.ID).Count(&svcCount)
	db.Model(&models.TaskBoard{}).Where("service_id = ?", created.ID).Count(&boardCount)
	db.Model(&models.Card{}).Where("task_board_id = ?", board.ID).Count(&cardCount)
	db.Model(&models.Issue{}).Where("service_id = ?", created.ID).Count(&issueCount)
	db.Model(&models.Comment{}).Where("service_id = ?", created.ID).Count(&commentCount)

	if svcCount != 0 || boardCount != 0 || cardCount != 0 || issueCount != 0 || commentCount != 0 {
		t.Errorf("leftovers after delete: services=%d boards=%d cards=%d issues=%d comments=%d",
			svcCount, boardCount, cardCount, issueCount, commentCount)
	}
}

func TestServiceDelete_NotFound(t *testing.T) {
	svc, _ := newTestServiceService(t)
	if err := svc.Delete(12345); !response.IsNotFound(err) {
		t.Errorf("Delete() error = %v, expected not-found", err)
	}
}

func TestGetAllForUser_UnionAcrossRoles(t *testing.T) {
	svc, db := newTestServiceService(t)
	alice := mustCreateUser(t, db, "alice@example.com", models.RoleDeveloper)
	bob := mustCreateUser(t, db, "bob@example.com", models.RoleDeveloper)

	asChief := mustCreateService(t, svc, db, "as-chief", alice.ID)

	asManager := mustCreateService(t, svc, db, "as-manager", bob.ID)
	if _, err := svc.Update(asManager.ID, &UpdateServiceRequest{
		ManagerID: OptionalID{Set: true, Value: &alice.ID},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	asResource := mustCreateService(t, svc, db, "as-resource", bob.ID)
	if _, err := svc.Update(asResource.ID, &UpdateServiceRequest{Resources: &[]uint{alice.ID}}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	asBackup := mustCreateService(t, svc, db, "as-backup", bob.ID)
	if _, err := svc.Update(asBackup.ID, &UpdateServiceRequest{
		BackupID: OptionalID{Set: true, Value: &alice.ID},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// Not involved at all.
	mustCreateService(t, svc, db, "uninvolved", bob.ID)

	list, err := svc.GetAllForUser(alice.ID)
	if err != nil {
		t.Fatalf("GetAllForUser() error = %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("GetAllForUser() returned %d services, expected 4", len(list))
	}
	seen := make(map[uint]bool)
	for _, s := range list {
		seen[s.ID] = true
	}
	for _, id := range []uint{asChief.ID, asManager.ID, asResource.ID, asBackup.ID} {
		if !seen[id] {
			t.Errorf("service %d missing from membership union", id)
		}
	}
}

func TestGetAllForUser_MultipleRolesDeduplicated(t *testing.T) {
	svc, db := newTestServiceService(t)
	alice := mustCreateUser(t, db, "alice@example.com", models.RoleDeveloper)

	created := mustCreateService(t, svc, db, "multi-role", alice.ID)
	if _, err := svc.Update(created.ID, &UpdateServiceRequest{
		ManagerID: OptionalID{Set: true, Value: &alice.ID},
		Resources: &[]uint{alice.ID},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	list, err := svc.GetAllForUser(alice.ID)
	if err != nil {
		t.Fatalf("GetAllForUser() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("GetAllForUser() returned %d entries, expected 1 (no duplicates)", len(list))
	}
}

func TestAddAttachments_PreservesOrder(t *testing.T) {
	svc, db := newTestServiceService(t)
	chief := mustCreateUser(t, db, "chief@example.com", models.RoleDeveloper)
	created := mustCreateService(t, svc, db, "filed", chief.ID)

	attachments, err := svc.AddAttachments(created.ID, []AttachmentInput{
		{Name: "spec.pdf", Key: "k1"},
		{Name: "diagram.png", Key: "k2"},
	})
	if err != nil {
		t.Fatalf("AddAttachments() error = %v", err)
	}
	if len(attachments) != 2 {
		t.Fatalf("attachments = %d, expected 2", len(attachments))
	}
	if attachments[0].Name != "spec.pdf" || attachments[1].Name != "diagram.png" {
		t.Errorf("attachment order not preserved: %q, %q", attachments[0].Name, attachments[1].Name)
	}
}
