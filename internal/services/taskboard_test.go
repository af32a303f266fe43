package services

import (
	"testing"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/pkg/response"
)

func TestTaskBoardFindByID_LoadsCardsAndRoles(t *testing.T) {
	cards, _, board, chief, db := newBoardFixture(t)
	actor := Actor{ID: chief.ID, Role: models.RoleDeveloper}
	if _, err := cards.CreateCard(board.ID, actor, &CreateCardRequest{Title: "only card"}); err != nil {
		t.Fatalf("CreateCard() error = %v", err)
	}

	boards := NewTaskBoardService(db)
	loaded, err := boards.FindByID(board.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if len(loaded.Cards) != 1 {
		t.Errorf("Cards = %d, expected 1", len(loaded.Cards))
	}
	if loaded.Service == nil || loaded.Service.Chief == nil {
		t.Error("board must load its service and the service's chief")
	}
}

func TestTaskBoardFindByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	boards := NewTaskBoardService(db)
	if _, err := boards.FindByID(404); !response.IsNotFound(err) {
		t.Errorf("FindByID() error = %v, expected not-found", err)
	}
}

func TestTaskBoardFindByServiceID(t *testing.T) {
	_, _, board, _, db := newBoardFixture(t)
	boards := NewTaskBoardService(db)

	loaded, err := boards.FindByServiceID(board.ServiceID)
	if err != nil {
		t.Fatalf("FindByServiceID() error = %v", err)
	}
	if loaded.ID != board.ID {
		t.Errorf("FindByServiceID() = board %d, expected %d", loaded.ID, board.ID)
	}
}
