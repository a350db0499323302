package models

// Group defines the student group model based on the 'groups' table. A group
// is led by exactly one user; a user can lead at most one group.
type Group struct {
	ID             int64   `json:"id" db:"id" example:"1"`
	Name           string  `json:"name" db:"name" example:"3711"`
	LeaderID       *int64  `json:"leaderId,omitempty" db:"leader_id"`
	Specialization *string `json:"specialization,omitempty" db:"specialization" example:"CS"`
	YearOfStudy    *int    `json:"yearOfStudy,omitempty" db:"year_of_study" example:"2"`

	Leader *User `json:"leader,omitempty"`
}
