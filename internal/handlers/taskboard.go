package handlers

import (
	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskBoardHandler struct {
	boardService *services.TaskBoardService
	cardService  *services.CardService
}

func NewTaskBoardHandler(db *gorm.DB) *TaskBoardHandler {
	return &TaskBoardHandler{
		boardService: services.NewTaskBoardService(db),
		cardService:  services.NewCardService(db),
	}
}

// GetByID returns a board with its cards
// GET /api/taskboards/:id
func (h *TaskBoardHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid task board id")
		return
	}

	board, err := h.boardService.FindByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, board)
}

// Cards returns all cards on a board
// GET /api/taskboards/:id/cards
func (h *TaskBoardHandler) Cards(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid task board id")
		return
	}

	cards, err := h.cardService.FindAllCards(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cards)
}

// CreateCard adds a card to a board
// POST /api/taskboards/:id/cards
func (h *TaskBoardHandler) CreateCard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid task board id")
		return
	}

	var req services.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	card, err := h.cardService.CreateCard(id, currentActor(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, card)
}

// CreateCardIfNotExists adds a card only when no card with the same title is
// on the board yet. Deduplication is by exact title within the board: a match
// returns the existing card untouched with 200, a miss creates with 201.
// POST /api/taskboards/:id/cards/if-not-exists
func (h *TaskBoardHandler) CreateCardIfNotExists(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid task board id")
		return
	}

	var req services.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	card, created, err := h.cardService.CreateCardIfNotExists(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, card)
		return
	}
	response.Success(c, card)
}

// CardsForUser returns every card the user is assigned to, across boards
// GET /api/cards/user/:id
func (h *TaskBoardHandler) CardsForUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	cards, err := h.cardService.FindCardsForUser(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cards)
}

// CardUsers resolves a set of card ids to their assigned users
// POST /api/cards/users
func (h *TaskBoardHandler) CardUsers(c *gin.Context) {
	var req struct {
		CardIDs []uint `json:"cardIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	users, err := h.cardService.UsersForCards(req.CardIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// UpdateCard patches a card addressed by its board and card ids
// PUT /api/taskboards/:id/cards/:cardId
func (h *TaskBoardHandler) UpdateCard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid task board id")
		return
	}
	cardID, ok := parseIDParam(c, "cardId")
	if !ok {
		response.BadRequest(c, "invalid card id")
		return
	}

	var req services.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	card, err := h.cardService.UpdateCard(id, cardID, currentActor(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, card)
}

// DeleteCard removes a card from a board
// DELETE /api/taskboards/:id/cards/:cardId
func (h *TaskBoardHandler) DeleteCard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid task board id")
		return
	}
	cardID, ok := parseIDParam(c, "cardId")
	if !ok {
		response.BadRequest(c, "invalid card id")
		return
	}

	if err := h.cardService.DeleteCard(id, cardID, currentActor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "card deleted successfully"})
}
