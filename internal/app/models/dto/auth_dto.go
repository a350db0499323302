package dto

import "github.com/examplanner/examplanner/internal/app/models"

// LoginRequest represents user login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"sef.grupa@usv.ro"`
	Password string `json:"password" binding:"required" example:"parola123"`
}

// TokenResponse represents a successful authentication result
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn" example:"3600"`
	User      UserResponse `json:"user"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64  `json:"id" example:"4"`
	Name      string `json:"name" example:"Ana Ionescu"`
	Email     string `json:"email" example:"ana.ionescu@usv.ro"`
	Role      string `json:"role" example:"CD"`
	TeacherID *int64 `json:"teacherId,omitempty"`
}

// NewUserResponse maps a user to its API shape.
func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		TeacherID: u.TeacherID,
	}
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// CreateUserRequest represents an administrator creating an account
type CreateUserRequest struct {
	Name      string `json:"name" binding:"required" example:"Ana Ionescu"`
	Email     string `json:"email" binding:"required,email" example:"ana.ionescu@usv.ro"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=SG CD SEC ADM" example:"CD"`
	TeacherID *int64 `json:"teacherId,omitempty"`
}
