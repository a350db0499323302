package models

// Course defines the course model based on the 'courses' table. Each course is
// owned by one coordinating professor and may list assistant professors via
// the course_assistants join table. The examination method is nullable until
// the coordinator sets it; once set it decides which examination-period window
// proposals for the course must fall within.
type Course struct {
	ID                int64     `json:"id" db:"id" example:"3"`
	Name              string    `json:"name" db:"name" example:"Parallel Algorithms"`
	StudyYear         *int      `json:"studyYear,omitempty" db:"study_year" example:"2"`
	Specialization    *string   `json:"specialization,omitempty" db:"specialization" example:"CS"`
	ExaminationMethod *ExamType `json:"examinationMethod,omitempty" db:"examination_method"`
	CoordinatorID     int64     `json:"coordinatorId" db:"coordinator_id" example:"2"`

	// Relations resolved at query time, no db tag
	Coordinator *User  `json:"coordinator,omitempty"`
	Assistants  []User `json:"assistants,omitempty"`
}
