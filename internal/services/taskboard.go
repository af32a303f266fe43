package services

import (
	"errors"

	"github.com/falmutairi/projecthub/backend/internal/models"
	"gorm.io/gorm"
)

// TaskBoardService manages the one-to-one board attached to every service.
// Boards are never created or deleted on their own; their lifetime is bound
// to the owning service's transaction.
type TaskBoardService struct {
	db *gorm.DB
}

func NewTaskBoardService(db *gorm.DB) *TaskBoardService {
	return &TaskBoardService{db: db}
}

// createForService creates the empty board for a freshly created service
// inside the caller's transaction.
func (s *TaskBoardService) createForService(tx *gorm.DB, serviceID uint) (*models.TaskBoard, error) {
	board := models.TaskBoard{ServiceID: serviceID}
	if err := tx.Create(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByID returns a board with its cards and the owning service's role
// holders, which callers need for the card authorization check.
func (s *TaskBoardService) FindByID(id uint) (*models.TaskBoard, error) {
	var board models.TaskBoard
	err := s.db.
		Preload("Cards").
		Preload("Cards.AssignedUser").
		Preload("Cards.Users").
		Preload("Service").
		Preload("Service.Project").
		Preload("Service.Chief").
		Preload("Service.ProjectManager").
		First(&board, id).Error
	if err != nil {
		return nil, notFoundOr(err, "task board not found")
	}
	return &board, nil
}

// FindByServiceID returns the board owned by the given service.
func (s *TaskBoardService) FindByServiceID(serviceID uint) (*models.TaskBoard, error) {
	var board models.TaskBoard
	err := s.db.
		Preload("Cards").
		Preload("Cards.AssignedUser").
		Preload("Cards.Users").
		Where("service_id = ?", serviceID).
		First(&board).Error
	if err != nil {
		return nil, notFoundOr(err, "task board not found")
	}
	return &board, nil
}

// deleteForService removes a service's board and all its cards inside the
// caller's transaction. A service without a board is tolerated so a service
// delete never fails halfway on an already-missing dependent.
func (s *TaskBoardService) deleteForService(tx *gorm.DB, serviceID uint) error {
	var board models.TaskBoard
	err := tx.Where("service_id = ?", serviceID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var cards []models.Card
	if err := tx.Where("task_board_id = ?", board.ID).Find(&cards).Error; err != nil {
		return err
	}
	for i := range cards {
		if err := tx.Model(&cards[i]).Association("Users").Clear(); err != nil {
			return err
		}
	}
	if err := tx.Where("task_board_id = ?", board.ID).Delete(&models.Card{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.TaskBoard{}, board.ID).Error
}
