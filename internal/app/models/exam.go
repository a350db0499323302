package models

import (
	"time"
)

// Exam defines the exam model based on the 'exams' table. An exam belongs to
// exactly one (course, group) pair; that pair is unique across the table.
// Scheduling fields (room, assistant, start time, duration) stay unset while
// the exam is PENDING and are written only by the accept transition.
type Exam struct {
	ID          int64      `json:"id" db:"id" example:"5"`
	CourseID    int64      `json:"courseId" db:"course_id" example:"3"`
	GroupID     int64      `json:"groupId" db:"group_id" example:"1"`
	ExamDate    time.Time  `json:"examDate" db:"exam_date" example:"2025-06-10T00:00:00Z"` // calendar day; time component is always midnight UTC
	Type        ExamType   `json:"type" db:"type" example:"WRITTEN"`
	Status      ExamStatus `json:"status" db:"status" example:"PENDING"`
	RoomID      *int64     `json:"roomId,omitempty" db:"room_id"`           // set on accept
	ProfessorID int64      `json:"professorId" db:"professor_id"`           // course coordinator at proposal, reviewer after accept
	AssistantID *int64     `json:"assistantId,omitempty" db:"assistant_id"` // set on accept
	StartTime   *TimeOfDay `json:"startTime,omitempty" db:"start_time"`     // set on accept, paired with Duration
	Duration    *int       `json:"duration,omitempty" db:"duration"`        // minutes, set on accept, paired with StartTime
	Details     *string    `json:"details,omitempty" db:"details"`

	// Relations resolved at query time, no db tag
	Course    *Course `json:"course,omitempty"`
	Group     *Group  `json:"group,omitempty"`
	Room      *Room   `json:"room,omitempty"`
	Professor *User   `json:"professor,omitempty"`
	Assistant *User   `json:"assistant,omitempty"`
}

// ExamSchedule bundles the scheduling detail that the accept transition writes
// atomically together with the ACCEPTED status.
type ExamSchedule struct {
	RoomID      int64
	AssistantID int64
	ProfessorID int64 // the reviewer; becomes the exam's professor on accept
	StartTime   TimeOfDay
	Duration    int
	Details     string
}

// MissingExam is a (course, group) pair that matches on specialization and
// study year but has no exam row yet.
type MissingExam struct {
	CourseID       int64  `json:"courseId"`
	CourseName     string `json:"courseName"`
	GroupID        int64  `json:"groupId"`
	GroupName      string `json:"groupName"`
	Specialization string `json:"specialization,omitempty"`
	YearOfStudy    *int   `json:"yearOfStudy,omitempty"`
}

// ExamDetails is a denormalized read-side row used by the reporting views:
// the exam joined with the display names of its course, group, room and staff.
type ExamDetails struct {
	ExamID         int64      `json:"examId"`
	CourseName     string     `json:"courseName"`
	GroupName      string     `json:"groupName"`
	Specialization string     `json:"specialization,omitempty"`
	ExamDate       time.Time  `json:"examDate"`
	Type           ExamType   `json:"type"`
	Status         ExamStatus `json:"status"`
	StartTime      *TimeOfDay `json:"startTime,omitempty"`
	Duration       *int       `json:"duration,omitempty"`
	RoomName       *string    `json:"roomName,omitempty"`
	Building       *string    `json:"building,omitempty"`
	Professor      *string    `json:"professor,omitempty"`
	Assistant      *string    `json:"assistant,omitempty"`
	Details        *string    `json:"details,omitempty"`
}
