package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/examplanner/examplanner/internal/db"
)

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key
// violation (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	GroupRepository       *GroupRepository
	CourseRepository      *CourseRepository
	RoomRepository        *RoomRepository
	PeriodRepository      *PeriodRepository
	ExamRepository        *ExamRepository
	MaintenanceRepository *MaintenanceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(database),
		GroupRepository:       NewGroupRepository(database),
		CourseRepository:      NewCourseRepository(database),
		RoomRepository:        NewRoomRepository(database),
		PeriodRepository:      NewPeriodRepository(database),
		ExamRepository:        NewExamRepository(database),
		MaintenanceRepository: NewMaintenanceRepository(database),
	}
}
