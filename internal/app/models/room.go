package models

// Room defines the exam room model based on the 'rooms' table.
type Room struct {
	ID       int64  `json:"id" db:"id" example:"1"`
	Name     string `json:"name" db:"name" example:"C203"`
	Building string `json:"building" db:"building" example:"C"`
}
