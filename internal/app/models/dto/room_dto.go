package dto

import "github.com/examplanner/examplanner/internal/app/models"

// RoomResponse represents basic room information
type RoomResponse struct {
	ID       int64  `json:"id" example:"7"`
	Name     string `json:"name" example:"C2"`
	Building string `json:"building" example:"Corp C"`
}

// NewRoomResponse maps a room to its API shape.
func NewRoomResponse(r models.Room) RoomResponse {
	return RoomResponse{ID: r.ID, Name: r.Name, Building: r.Building}
}

// CreateRoomRequest represents room creation data
type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Building string `json:"building" binding:"required"`
}

// UpdateRoomRequest represents room update data
type UpdateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Building string `json:"building" binding:"required"`
}

// RoomListResponse represents a list of rooms
type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}
