package dto

import "github.com/examplanner/examplanner/internal/app/models"

// CourseResponse represents basic course information
type CourseResponse struct {
	ID                int64   `json:"id" example:"3"`
	Name              string  `json:"name" example:"Parallel Algorithms"`
	StudyYear         *int    `json:"studyYear,omitempty" example:"2"`
	Specialization    *string `json:"specialization,omitempty" example:"CS"`
	ExaminationMethod *string `json:"examinationMethod,omitempty" example:"WRITTEN"`
	CoordinatorID     int64   `json:"coordinatorId" example:"2"`
	Coordinator       *string `json:"coordinator,omitempty" example:"Ana Ionescu"`

	Assistants []UserResponse `json:"assistants,omitempty"`
}

// NewCourseResponse maps a course to its API shape.
func NewCourseResponse(c models.Course) CourseResponse {
	resp := CourseResponse{
		ID:             c.ID,
		Name:           c.Name,
		StudyYear:      c.StudyYear,
		Specialization: c.Specialization,
		CoordinatorID:  c.CoordinatorID,
	}
	if c.ExaminationMethod != nil {
		m := string(*c.ExaminationMethod)
		resp.ExaminationMethod = &m
	}
	if c.Coordinator != nil {
		resp.Coordinator = &c.Coordinator.Name
	}
	for _, a := range c.Assistants {
		resp.Assistants = append(resp.Assistants, NewUserResponse(a))
	}
	return resp
}

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Name           string  `json:"name" binding:"required"`
	StudyYear      *int    `json:"studyYear,omitempty" binding:"omitempty,gt=0"`
	Specialization *string `json:"specialization,omitempty"`
	CoordinatorID  int64   `json:"coordinatorId" binding:"required,gt=0"`
	AssistantIDs   []int64 `json:"assistantIds,omitempty" binding:"omitempty,dive,gt=0"`
}

// UpdateCourseRequest represents course update data. A nil assistant list
// leaves the current assistants untouched; an empty one clears them.
type UpdateCourseRequest struct {
	Name           string   `json:"name" binding:"required"`
	StudyYear      *int     `json:"studyYear,omitempty" binding:"omitempty,gt=0"`
	Specialization *string  `json:"specialization,omitempty"`
	CoordinatorID  int64    `json:"coordinatorId" binding:"required,gt=0"`
	AssistantIDs   *[]int64 `json:"assistantIds,omitempty" binding:"omitempty,dive,gt=0"`
}

// SetExaminationMethodRequest represents the coordinator's choice of method
type SetExaminationMethodRequest struct {
	ExaminationMethod string `json:"examinationMethod" binding:"required,oneof=WRITTEN COLLOQUIUM" example:"WRITTEN"`
}

// CourseListResponse represents a list of courses
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
}
