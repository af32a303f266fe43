package services

import (
	"errors"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"github.com/falmutairi/projecthub/backend/pkg/response"
	"gorm.io/gorm"
)

// CardService manages cards on task boards. Every card mutation addressed at
// a board is gated by CanManageCards against the board's owning service.
type CardService struct {
	db     *gorm.DB
	boards *TaskBoardService
}

func NewCardService(db *gorm.DB) *CardService {
	return &CardService{db: db, boards: NewTaskBoardService(db)}
}

type CreateCardRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Column         string   `json:"column"`
	Tags           []string `json:"tags"`
	Order          int      `json:"order"`
	Color          string   `json:"color"`
	AssignedUserID *uint    `json:"assigned_user_id"`
	UserIDs        []uint   `json:"user_ids"`
}

type UpdateCardRequest struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Column         *string    `json:"column"`
	Tags           *[]string  `json:"tags"`
	Order          *int       `json:"order"`
	Color          *string    `json:"color"`
	AssignedUserID OptionalID `json:"assigned_user_id"`
	UserIDs        *[]uint    `json:"user_ids"`
}

// loadBoardService resolves the board and its owning service for an
// authorization decision. Missing board is NotFound; authorization is checked
// only after existence, so callers can't probe for boards they may not touch.
func (s *CardService) loadBoardService(boardID uint) (*models.TaskBoard, *models.Service, error) {
	var board models.TaskBoard
	if err := s.db.First(&board, boardID).Error; err != nil {
		return nil, nil, notFoundOr(err, "task board not found")
	}
	var svc models.Service
	if err := s.db.First(&svc, board.ServiceID).Error; err != nil {
		return nil, nil, notFoundOr(err, "service not found")
	}
	return &board, &svc, nil
}

// CreateCard adds a card to a board on behalf of an authorized actor. An
// assigned user that does not resolve is dropped silently rather than
// failing the create.
func (s *CardService) CreateCard(boardID uint, actor Actor, req *CreateCardRequest) (*models.Card, error) {
	board, svc, err := s.loadBoardService(boardID)
	if err != nil {
		return nil, err
	}
	if !CanManageCards(svc, actor) {
		return nil, response.NewForbidden("not allowed to manage cards on this board")
	}

	return s.insertCard(board.ID, req)
}

// insertCard writes a new card with its assignee and users set. Callers decide
// the authorization and dedup rules; this only resolves and persists.
func (s *CardService) insertCard(boardID uint, req *CreateCardRequest) (*models.Card, error) {
	card := models.Card{
		TaskBoardID: boardID,
		Title:       req.Title,
		Description: req.Description,
		Lane:        req.Column,
		Tags:        joinList(req.Tags),
		SortOrder:   req.Order,
		Color:       req.Color,
	}

	if req.AssignedUserID != nil {
		var assignee models.User
		if err := s.db.First(&assignee, *req.AssignedUserID).Error; err == nil {
			card.AssignedUserID = &assignee.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		if len(req.UserIDs) > 0 {
			var users []models.User
			if err := tx.Find(&users, uniqueIDs(req.UserIDs)).Error; err != nil {
				return err
			}
			if len(users) > 0 {
				if err := tx.Model(&card).Association("Users").Replace(&users); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.findCard(boardID, card.ID)
}

// CreateCardIfNotExists creates a card only when no card with the same title
// already exists on the board. Used by internal automation, so it runs
// without an actor gate. Returns the existing card when it deduplicates.
func (s *CardService) CreateCardIfNotExists(boardID uint, req *CreateCardRequest) (*models.Card, bool, error) {
	var board models.TaskBoard
	if err := s.db.First(&board, boardID).Error; err != nil {
		return nil, false, notFoundOr(err, "task board not found")
	}

	var existing models.Card
	err := s.db.Where("task_board_id = ? AND title = ?", board.ID, req.Title).First(&existing).Error
	if err == nil {
		card, ferr := s.findCard(board.ID, existing.ID)
		return card, false, ferr
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	card, err := s.insertCard(board.ID, req)
	if err != nil {
		return nil, false, err
	}
	return card, true, err
}

// UpdateCard patches a card addressed by its (board, card) pair. A card id
// that exists under a different board is NotFound, never a cross-board edit.
// Only fields present in the patch change; an explicit null clears the
// assignee, and an unresolvable assignee id also clears it.
func (s *CardService) UpdateCard(boardID, cardID uint, actor Actor, req *UpdateCardRequest) (*models.Card, error) {
	board, svc, err := s.loadBoardService(boardID)
	if err != nil {
		return nil, err
	}
	if !CanManageCards(svc, actor) {
		return nil, response.NewForbidden("not allowed to manage cards on this board")
	}

	var card models.Card
	err = s.db.Where("id = ? AND task_board_id = ?", cardID, board.ID).First(&card).Error
	if err != nil {
		return nil, notFoundOr(err, "card not found on this board")
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Column != nil {
		updates["lane"] = *req.Column
	}
	if req.Tags != nil {
		updates["tags"] = joinList(*req.Tags)
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}

	if req.AssignedUserID.Set {
		if req.AssignedUserID.Value == nil {
			updates["assigned_user_id"] = nil
		} else {
			var assignee models.User
			err := s.db.First(&assignee, *req.AssignedUserID.Value).Error
			switch {
			case err == nil:
				updates["assigned_user_id"] = assignee.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				updates["assigned_user_id"] = nil
			default:
				return nil, err
			}
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&card).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.UserIDs != nil {
			ids := uniqueIDs(*req.UserIDs)
			if len(ids) == 0 {
				return tx.Model(&card).Association("Users").Clear()
			}
			var users []models.User
			if err := tx.Find(&users, ids).Error; err != nil {
				return err
			}
			return tx.Model(&card).Association("Users").Replace(&users)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.findCard(board.ID, card.ID)
}

// DeleteCard removes a card from a board under the same authorization and
// board-match rules as UpdateCard.
func (s *CardService) DeleteCard(boardID, cardID uint, actor Actor) error {
	board, svc, err := s.loadBoardService(boardID)
	if err != nil {
		return err
	}
	if !CanManageCards(svc, actor) {
		return response.NewForbidden("not allowed to manage cards on this board")
	}

	var card models.Card
	err = s.db.Where("id = ? AND task_board_id = ?", cardID, board.ID).First(&card).Error
	if err != nil {
		return notFoundOr(err, "card not found on this board")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&card).Association("Users").Clear(); err != nil {
			return err
		}
		return tx.Delete(&card).Error
	})
}

// FindAllCards returns every card on a board.
func (s *CardService) FindAllCards(boardID uint) ([]models.Card, error) {
	var board models.TaskBoard
	if err := s.db.First(&board, boardID).Error; err != nil {
		return nil, notFoundOr(err, "task board not found")
	}
	var cards []models.Card
	err := s.db.
		Preload("AssignedUser").
		Preload("Users").
		Where("task_board_id = ?", board.ID).
		Order("sort_order ASC, id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// GetCardsFromService returns the cards on the board owned by a service.
// A service without a board reports NotFound rather than an empty list.
func (s *CardService) GetCardsFromService(serviceID uint) ([]models.Card, error) {
	var board models.TaskBoard
	err := s.db.Where("service_id = ?", serviceID).First(&board).Error
	if err != nil {
		return nil, notFoundOr(err, "task board not found for this service")
	}
	return s.FindAllCards(board.ID)
}

// FindCardsForUser returns every card the user appears on, either as the
// primary assignee or through the multi-assignee set. Union semantics: a card
// holding the user in both relations appears once.
func (s *CardService) FindCardsForUser(userID uint) ([]models.Card, error) {
	var cards []models.Card
	err := s.db.Model(&models.Card{}).
		Distinct("cards.*").
		Joins("LEFT JOIN user_card uc ON uc.card_id = cards.id").
		Where("cards.assigned_user_id = ? OR uc.user_id = ?", userID, userID).
		Preload("AssignedUser").
		Preload("Users").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// UsersForCards resolves a set of card ids to the distinct users assigned to
// them through either relation. Unknown card ids are simply absent.
func (s *CardService) UsersForCards(cardIDs []uint) ([]models.User, error) {
	ids := uniqueIDs(cardIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	var cards []models.Card
	err := s.db.
		Preload("AssignedUser").
		Preload("Users").
		Find(&cards, ids).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	var users []models.User
	for _, card := range cards {
		if card.AssignedUser != nil && !seen[card.AssignedUser.ID] {
			seen[card.AssignedUser.ID] = true
			users = append(users, *card.AssignedUser)
		}
		for _, u := range card.Users {
			if !seen[u.ID] {
				seen[u.ID] = true
				users = append(users, u)
			}
		}
	}
	return users, nil
}

func (s *CardService) findCard(boardID, cardID uint) (*models.Card, error) {
	var card models.Card
	err := s.db.
		Preload("AssignedUser").
		Preload("Users").
		Where("id = ? AND task_board_id = ?", cardID, boardID).
		First(&card).Error
	if err != nil {
		return nil, notFoundOr(err, "card not found on this board")
	}
	return &card, nil
}
