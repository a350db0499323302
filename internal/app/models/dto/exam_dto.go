package dto

import (
	"github.com/examplanner/examplanner/internal/app/models"
)

// ProposeExamRequest represents a group leader's exam date proposal
type ProposeExamRequest struct {
	CourseID int64  `json:"courseId" binding:"required,gt=0" example:"3"`
	ExamDate string `json:"examDate" binding:"required" example:"2025-06-10"`
}

// ReviewExamRequest represents a coordinator's decision on a pending exam.
// Scheduling fields are required when the decision is ACCEPTED and ignored
// when it is REJECTED.
type ReviewExamRequest struct {
	Decision    string  `json:"decision" binding:"required,oneof=ACCEPTED REJECTED" example:"ACCEPTED"`
	RoomID      *int64  `json:"roomId,omitempty" example:"7"`
	AssistantID *int64  `json:"assistantId,omitempty" example:"12"`
	StartTime   *string `json:"startTime,omitempty" example:"10:00"`
	Duration    *int    `json:"duration,omitempty" example:"120"`
	Details     *string `json:"details,omitempty" example:"Bring student ID"`
}

// RescheduleExamRequest represents a new date proposal for a rejected exam
type RescheduleExamRequest struct {
	ExamDate string `json:"examDate" binding:"required" example:"2025-06-17"`
}

// UpdateExamRequest represents a secretarial correction of an exam. All fields
// are optional; omitted fields keep their stored value.
type UpdateExamRequest struct {
	ExamDate    *string `json:"examDate,omitempty" example:"2025-06-12"`
	RoomID      *int64  `json:"roomId,omitempty" example:"7"`
	AssistantID *int64  `json:"assistantId,omitempty" example:"12"`
	StartTime   *string `json:"startTime,omitempty" example:"08:30"`
	Duration    *int    `json:"duration,omitempty" example:"90"`
	Details     *string `json:"details,omitempty"`
}

// ExamResponse represents a fully joined exam row
type ExamResponse struct {
	ID             int64   `json:"id" example:"5"`
	CourseName     string  `json:"courseName" example:"Parallel Algorithms"`
	GroupName      string  `json:"groupName" example:"3711"`
	Specialization string  `json:"specialization,omitempty" example:"CS"`
	ExamDate       string  `json:"examDate" example:"2025-06-10"`
	Type           string  `json:"type" example:"WRITTEN"`
	Status         string  `json:"status" example:"ACCEPTED"`
	StartTime      *string `json:"startTime,omitempty" example:"10:00"`
	Duration       *int    `json:"duration,omitempty" example:"120"`
	RoomName       *string `json:"roomName,omitempty" example:"C2"`
	Building       *string `json:"building,omitempty" example:"Corp C"`
	Professor      *string `json:"professor,omitempty" example:"Ana Ionescu"`
	Assistant      *string `json:"assistant,omitempty" example:"Mihai Pop"`
	Details        *string `json:"details,omitempty"`
}

// NewExamResponse maps a denormalized exam row to its API shape.
func NewExamResponse(d models.ExamDetails) ExamResponse {
	resp := ExamResponse{
		ID:             d.ExamID,
		CourseName:     d.CourseName,
		GroupName:      d.GroupName,
		Specialization: d.Specialization,
		ExamDate:       d.ExamDate.Format(models.DateLayout),
		Type:           string(d.Type),
		Status:         string(d.Status),
		Duration:       d.Duration,
		RoomName:       d.RoomName,
		Building:       d.Building,
		Professor:      d.Professor,
		Assistant:      d.Assistant,
		Details:        d.Details,
	}
	if d.StartTime != nil {
		s := d.StartTime.String()
		resp.StartTime = &s
	}
	return resp
}

// NewExamResponseList maps a slice of denormalized rows, preserving order.
func NewExamResponseList(details []models.ExamDetails) []ExamResponse {
	out := make([]ExamResponse, 0, len(details))
	for _, d := range details {
		out = append(out, NewExamResponse(d))
	}
	return out
}

// ExamListResponse represents a list of exams
type ExamListResponse struct {
	Exams []ExamResponse `json:"exams"`
}

// ExamsByStatusResponse groups a coordinator's exams by lifecycle state
type ExamsByStatusResponse struct {
	Pending  []ExamResponse `json:"pending"`
	Accepted []ExamResponse `json:"accepted"`
	Rejected []ExamResponse `json:"rejected"`
}

// MissingExamResponse represents a (course, group) pair with no exam proposed
type MissingExamResponse struct {
	CourseID       int64  `json:"courseId" example:"3"`
	CourseName     string `json:"courseName" example:"Parallel Algorithms"`
	GroupID        int64  `json:"groupId" example:"1"`
	GroupName      string `json:"groupName" example:"3711"`
	Specialization string `json:"specialization,omitempty" example:"CS"`
	YearOfStudy    *int   `json:"yearOfStudy,omitempty" example:"2"`
}

// NewMissingExamResponseList maps missing pairs, preserving order.
func NewMissingExamResponseList(missing []models.MissingExam) []MissingExamResponse {
	out := make([]MissingExamResponse, 0, len(missing))
	for _, m := range missing {
		out = append(out, MissingExamResponse{
			CourseID:       m.CourseID,
			CourseName:     m.CourseName,
			GroupID:        m.GroupID,
			GroupName:      m.GroupName,
			Specialization: m.Specialization,
			YearOfStudy:    m.YearOfStudy,
		})
	}
	return out
}

// ScheduleOverviewResponse is the secretarial report: every exam on record
// plus the course/group pairs with no exam proposed yet.
type ScheduleOverviewResponse struct {
	Exams   []ExamResponse        `json:"exams"`
	Missing []MissingExamResponse `json:"missing"`
}
