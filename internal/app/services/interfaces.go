package services

import (
	"context"
	"time"

	"github.com/examplanner/examplanner/internal/app/models"
)

// The store interfaces below are what the services need from the persistence
// layer, implemented by the concrete repositories. Declaring them on the
// consumer side keeps the services testable against in-memory fakes.

// ExamStore persists exams and runs the transactional state transitions.
type ExamStore interface {
	GetByID(ctx context.Context, id int64) (*models.Exam, error)
	ExistsActiveForCourseAndGroup(ctx context.Context, courseID, groupID int64) (bool, error)
	Create(ctx context.Context, exam *models.Exam) error
	Accept(ctx context.Context, examID int64, examDate time.Time, schedule models.ExamSchedule) error
	Reject(ctx context.Context, examID int64, details *string) error
	Reschedule(ctx context.Context, examID int64, newDate time.Time) error
	Update(ctx context.Context, examID int64, updates map[string]interface{}) error
	UpdateWithConflictCheck(ctx context.Context, exam *models.Exam, updates map[string]interface{}, schedule models.ExamSchedule, examDate time.Time) error
	ListDetailsForCoordinator(ctx context.Context, coordinatorID int64) ([]models.ExamDetails, error)
	ListDetailsForGroup(ctx context.Context, groupID int64) ([]models.ExamDetails, error)
	ListAllDetails(ctx context.Context) ([]models.ExamDetails, error)
	ListMissing(ctx context.Context) ([]models.MissingExam, error)
}

// CourseStore persists courses.
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]models.Course, error)
	GetByCoordinatorID(ctx context.Context, coordinatorID int64) ([]models.Course, error)
	GetForGroup(ctx context.Context, group *models.Group) ([]models.Course, error)
	GetAssistants(ctx context.Context, courseID int64) ([]models.User, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SetExaminationMethod(ctx context.Context, courseID int64, method models.ExamType) error
	ReplaceAssistants(ctx context.Context, courseID int64, userIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// GroupStore persists student groups.
type GroupStore interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetByLeaderID(ctx context.Context, leaderID int64) (*models.Group, error)
	GetAll(ctx context.Context) ([]models.Group, error)
}

// RoomStore persists rooms.
type RoomStore interface {
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	GetAll(ctx context.Context) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int64) error
}

// UserStore persists users.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// PeriodStore persists examination periods.
type PeriodStore interface {
	GetByID(ctx context.Context, id int64) (*models.ExaminationPeriod, error)
	GetAll(ctx context.Context) ([]models.ExaminationPeriod, error)
	ExistsForTypeAndDate(ctx context.Context, examType models.ExamType, day time.Time) (bool, error)
	Create(ctx context.Context, period *models.ExaminationPeriod) error
	Update(ctx context.Context, period *models.ExaminationPeriod) error
	Delete(ctx context.Context, id int64) error
}

// MaintenanceStore wipes application data for the administrative reset.
type MaintenanceStore interface {
	ResetAll(ctx context.Context, keep ...models.RoleType) error
}

// Notifier delivers exam lifecycle notifications.
type Notifier interface {
	Notify(toEmail, subject, htmlBody string) error
}
