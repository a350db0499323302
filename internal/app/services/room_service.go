package services

import (
	"context"
	"strings"

	"github.com/examplanner/examplanner/internal/app/auth"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
)

// RoomService handles room administration
type RoomService struct {
	roomRepo RoomStore
}

// NewRoomService creates a new room service instance
func NewRoomService(roomRepo RoomStore) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

// List returns all rooms
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	return s.roomRepo.GetAll(ctx)
}

// GetByID retrieves a room by ID
func (s *RoomService) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	return s.roomRepo.GetByID(ctx, id)
}

func validateRoom(name, building string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "room name cannot be empty")
	}
	if strings.TrimSpace(building) == "" {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "building cannot be empty")
	}
	return nil
}

// Create creates a new room
func (s *RoomService) Create(ctx context.Context, actor auth.Actor, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := actor.Require(auth.CapManageRooms); err != nil {
		return nil, err
	}
	if err := validateRoom(req.Name, req.Building); err != nil {
		return nil, err
	}

	room := &models.Room{Name: req.Name, Building: req.Building}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Update updates a room
func (s *RoomService) Update(ctx context.Context, actor auth.Actor, id int64, req dto.UpdateRoomRequest) (*models.Room, error) {
	if err := actor.Require(auth.CapManageRooms); err != nil {
		return nil, err
	}
	if err := validateRoom(req.Name, req.Building); err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Name = req.Name
	room.Building = req.Building

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes a room
func (s *RoomService) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if err := actor.Require(auth.CapManageRooms); err != nil {
		return err
	}
	return s.roomRepo.Delete(ctx, id)
}
