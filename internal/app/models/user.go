package models

// User defines the user model based on the 'users' table. Users and their
// credentials are owned by the administrative/identity subsystem; the core
// references them by id and role only.
type User struct {
	ID        int64    `json:"id" db:"id" example:"2"`
	Name      string   `json:"name" db:"name" example:"Maria Ionescu"`
	Email     string   `json:"email" db:"email" example:"maria.ionescu@usv.ro"`
	Password  string   `json:"-" db:"password"` // hashed, excluded from JSON
	Role      RoleType `json:"role" db:"role" example:"CD"`
	TeacherID *int64   `json:"teacherId,omitempty" db:"teacher_id"` // external staff id, required for CD
}
