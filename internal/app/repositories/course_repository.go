package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/db"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const courseSelect = `
	SELECT c.id, c.name, c.study_year, c.specialization, c.examination_method, c.coordinator_id, u.name
	FROM courses c
	JOIN users u ON u.id = c.coordinator_id
`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	var coordinatorName string
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.StudyYear,
		&course.Specialization,
		&course.ExaminationMethod,
		&course.CoordinatorID,
		&coordinatorName,
	)
	if err != nil {
		return nil, err
	}
	course.Coordinator = &models.User{ID: course.CoordinatorID, Name: coordinatorName}
	return &course, nil
}

// GetByID retrieves a course by ID with its coordinator resolved
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := scanCourse(r.db.Pool.QueryRow(ctx, courseSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return course, nil
}

// GetAll retrieves all courses ordered by name
func (r *CourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	rows, err := r.db.Pool.Query(ctx, courseSelect+` ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	return collectCourses(rows)
}

// GetByCoordinatorID retrieves the courses a professor coordinates
func (r *CourseRepository) GetByCoordinatorID(ctx context.Context, coordinatorID int64) ([]models.Course, error) {
	rows, err := r.db.Pool.Query(ctx, courseSelect+` WHERE c.coordinator_id = $1 ORDER BY c.name`, coordinatorID)
	if err != nil {
		return nil, fmt.Errorf("error querying coordinator courses: %w", err)
	}
	defer rows.Close()

	return collectCourses(rows)
}

// GetForGroup retrieves the courses matching a group's specialization and year
// of study, the candidate set a group leader may propose exams for.
func (r *CourseRepository) GetForGroup(ctx context.Context, group *models.Group) ([]models.Course, error) {
	rows, err := r.db.Pool.Query(ctx, courseSelect+`
		WHERE c.specialization = $1 AND c.study_year = $2
		ORDER BY c.name`, group.Specialization, group.YearOfStudy)
	if err != nil {
		return nil, fmt.Errorf("error querying group courses: %w", err)
	}
	defer rows.Close()

	return collectCourses(rows)
}

func collectCourses(rows pgx.Rows) ([]models.Course, error) {
	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, *course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("name", "study_year", "specialization", "coordinator_id").
		Values(course.Name, course.StudyYear, course.Specialization, course.CoordinatorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
		logger.Error().Err(err).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// Update updates a course's descriptive fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("name", course.Name).
		Set("study_year", course.StudyYear).
		Set("specialization", course.Specialization).
		Set("coordinator_id", course.CoordinatorID).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// SetExaminationMethod stores the coordinator's chosen examination method
func (r *CourseRepository) SetExaminationMethod(ctx context.Context, courseID int64, method models.ExamType) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE courses SET examination_method = $1 WHERE id = $2`, method, courseID)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error setting examination method")
		return fmt.Errorf("error setting examination method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course. Exams referencing it block the delete.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrCourseHasRelations
		}
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// ReplaceAssistants swaps the full assistant set of a course inside one
// transaction.
func (r *CourseRepository) ReplaceAssistants(ctx context.Context, courseID int64, userIDs []int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM course_assistants WHERE course_id = $1`, courseID); err != nil {
			return fmt.Errorf("error clearing course assistants: %w", err)
		}
		for _, userID := range userIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO course_assistants (course_id, user_id) VALUES ($1, $2)`, courseID, userID); err != nil {
				return fmt.Errorf("error adding course assistant: %w", err)
			}
		}
		return nil
	})
}

// GetAssistants retrieves the assistant professors attached to a course
func (r *CourseRepository) GetAssistants(ctx context.Context, courseID int64) ([]models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, u.teacher_id
		FROM users u
		JOIN course_assistants ca ON ca.user_id = u.id
		WHERE ca.course_id = $1
		ORDER BY u.name
	`

	rows, err := r.db.Pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error querying course assistants: %w", err)
	}
	defer rows.Close()

	var assistants []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.TeacherID); err != nil {
			return nil, fmt.Errorf("error scanning assistant row: %w", err)
		}
		assistants = append(assistants, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assistants, nil
}
