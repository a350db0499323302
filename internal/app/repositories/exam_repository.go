package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/scheduling"
	"github.com/examplanner/examplanner/internal/db"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/dberrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so the accepted
// exam scans can run against the pool for read paths and inside the accept
// transaction when the result must stay consistent with the pending update.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var entityColumns = map[scheduling.EntityRole]string{
	scheduling.EntityRoom:      "room_id",
	scheduling.EntityAssistant: "assistant_id",
	scheduling.EntityProfessor: "professor_id",
}

// ExamRepository handles database operations for exams
type ExamRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(database *db.PostgresDB) *ExamRepository {
	return &ExamRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const examColumns = "id, course_id, group_id, exam_date, type, status, room_id, professor_id, assistant_id, start_time, duration, details"

func scanExam(row pgx.Row) (*models.Exam, error) {
	var exam models.Exam
	var startTime *int
	err := row.Scan(
		&exam.ID,
		&exam.CourseID,
		&exam.GroupID,
		&exam.ExamDate,
		&exam.Type,
		&exam.Status,
		&exam.RoomID,
		&exam.ProfessorID,
		&exam.AssistantID,
		&startTime,
		&exam.Duration,
		&exam.Details,
	)
	if err != nil {
		return nil, err
	}
	if startTime != nil {
		t := models.TimeOfDay(*startTime)
		exam.StartTime = &t
	}
	return &exam, nil
}

// GetByID retrieves an exam by ID
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*models.Exam, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams WHERE id = $1`, examColumns)

	exam, err := scanExam(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExamNotFound
		}
		logger.Error().Err(err).Int64("examID", id).Msg("Error scanning exam row")
		return nil, fmt.Errorf("error getting exam by ID: %w", err)
	}

	return exam, nil
}

// ExistsActiveForCourseAndGroup reports whether a PENDING or ACCEPTED exam
// already exists for the (course, group) pair. Rejected exams do not count:
// they are rescheduled in place rather than replaced.
func (r *ExamRepository) ExistsActiveForCourseAndGroup(ctx context.Context, courseID, groupID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM exams
			WHERE course_id = $1 AND group_id = $2 AND status IN ('PENDING', 'ACCEPTED')
		)
	`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, courseID, groupID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking existing exam: %w", err)
	}
	return exists, nil
}

// Create inserts a new PENDING exam proposal
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	sql, args, err := r.sb.Insert("exams").
		Columns("course_id", "group_id", "exam_date", "type", "status", "professor_id").
		Values(exam.CourseID, exam.GroupID, exam.ExamDate, exam.Type, exam.Status, exam.ProfessorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create exam query: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&exam.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "unique_exam_per_course_and_group") {
			return apperrors.ErrExamAlreadyProposed
		}
		logger.Error().Err(err).Msg("Error executing create exam query")
		return fmt.Errorf("error creating exam: %w", err)
	}

	return nil
}

// AcceptedExams returns the booked slots of ACCEPTED exams that reference the
// given entity on the given date, excluding the exam under review. It
// implements scheduling.AcceptedExamSource for read-only scans; the accept
// transaction uses the same query through its own tx.
func (r *ExamRepository) AcceptedExams(ctx context.Context, role scheduling.EntityRole, entityID int64, date time.Time, excludeExamID int64) ([]scheduling.BookedSlot, error) {
	return acceptedExams(ctx, r.db.Pool, role, entityID, date, excludeExamID)
}

func acceptedExams(ctx context.Context, q rowQuerier, role scheduling.EntityRole, entityID int64, date time.Time, excludeExamID int64) ([]scheduling.BookedSlot, error) {
	column, ok := entityColumns[role]
	if !ok {
		return nil, fmt.Errorf("unknown scheduling entity role %q", role)
	}

	query := fmt.Sprintf(`
		SELECT id, start_time, duration
		FROM exams
		WHERE %s = $1
		  AND exam_date = $2
		  AND status = 'ACCEPTED'
		  AND id <> $3
		  AND start_time IS NOT NULL
		  AND duration IS NOT NULL
	`, column)

	rows, err := q.Query(ctx, query, entityID, date, excludeExamID)
	if err != nil {
		return nil, fmt.Errorf("error querying accepted exams: %w", err)
	}
	defer rows.Close()

	var slots []scheduling.BookedSlot
	for rows.Next() {
		var slot scheduling.BookedSlot
		var startTime int
		if err := rows.Scan(&slot.ExamID, &startTime, &slot.Duration); err != nil {
			return nil, fmt.Errorf("error scanning booked slot: %w", err)
		}
		slot.StartTime = models.TimeOfDay(startTime)
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// txSource adapts a transaction to scheduling.AcceptedExamSource so conflict
// scans run under the same snapshot and advisory locks as the accept update.
type txSource struct {
	tx pgx.Tx
}

func (s txSource) AcceptedExams(ctx context.Context, role scheduling.EntityRole, entityID int64, date time.Time, excludeExamID int64) ([]scheduling.BookedSlot, error) {
	return acceptedExams(ctx, s.tx, role, entityID, date, excludeExamID)
}

func lockEntity(ctx context.Context, tx pgx.Tx, role scheduling.EntityRole, entityID int64, date time.Time) error {
	key := fmt.Sprintf("%s:%d:%s", role, entityID, date.Format(models.DateLayout))
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("error locking %s %d: %w", role, entityID, err)
	}
	return nil
}

// Accept atomically flips a PENDING exam to ACCEPTED and writes its schedule.
// Advisory locks serialize competing accepts touching the same room, assistant
// or professor on the same date, so the conflict scans cannot race a
// concurrent accept into a double booking. Returns ErrScheduleConflict with
// the busy entity named, or ErrExamNotPending if another reviewer got there
// first.
func (r *ExamRepository) Accept(ctx context.Context, examID int64, examDate time.Time, schedule models.ExamSchedule) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		checks := []struct {
			role     scheduling.EntityRole
			entityID int64
			message  string
		}{
			{scheduling.EntityRoom, schedule.RoomID, "room is already booked in that interval"},
			{scheduling.EntityAssistant, schedule.AssistantID, "assistant is already assigned to an overlapping exam"},
			{scheduling.EntityProfessor, schedule.ProfessorID, "professor is already assigned to an overlapping exam"},
		}

		for _, c := range checks {
			if err := lockEntity(ctx, tx, c.role, c.entityID, examDate); err != nil {
				return err
			}
		}

		scanner := scheduling.NewScanner(txSource{tx: tx})
		for _, c := range checks {
			conflicts, err := scanner.FindConflicts(ctx, c.role, c.entityID, examDate, schedule.StartTime, schedule.Duration, examID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return apperrors.NewScheduleConflictError(c.message)
			}
		}

		sql, args, err := r.sb.Update("exams").
			Set("status", models.ExamStatusAccepted).
			Set("room_id", schedule.RoomID).
			Set("assistant_id", schedule.AssistantID).
			Set("professor_id", schedule.ProfessorID).
			Set("start_time", schedule.StartTime.Minutes()).
			Set("duration", schedule.Duration).
			Set("details", schedule.Details).
			Where(squirrel.Eq{"id": examID, "status": models.ExamStatusPending}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build accept exam query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("examID", examID).Msg("Error executing accept exam query")
			return fmt.Errorf("error accepting exam: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrExamNotPending
		}
		return nil
	})
}

// Reject flips a PENDING exam to REJECTED. Scheduling fields stay empty.
func (r *ExamRepository) Reject(ctx context.Context, examID int64, details *string) error {
	builder := r.sb.Update("exams").
		Set("status", models.ExamStatusRejected).
		Where(squirrel.Eq{"id": examID, "status": models.ExamStatusPending})
	if details != nil {
		builder = builder.Set("details", *details)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reject exam query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("examID", examID).Msg("Error executing reject exam query")
		return fmt.Errorf("error rejecting exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrExamNotPending
	}
	return nil
}

// Reschedule moves a REJECTED exam back to PENDING with a new date and wipes
// any stale scheduling detail.
func (r *ExamRepository) Reschedule(ctx context.Context, examID int64, newDate time.Time) error {
	sql, args, err := r.sb.Update("exams").
		Set("exam_date", newDate).
		Set("status", models.ExamStatusPending).
		Set("room_id", nil).
		Set("assistant_id", nil).
		Set("start_time", nil).
		Set("duration", nil).
		Set("details", nil).
		Where(squirrel.Eq{"id": examID, "status": models.ExamStatusRejected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reschedule exam query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("examID", examID).Msg("Error executing reschedule exam query")
		return fmt.Errorf("error rescheduling exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrExamNotRejected
	}
	return nil
}

// Update applies a secretarial correction. The updates map uses column names;
// when the exam is ACCEPTED and the correction touches its room, assistant,
// professor, start time, duration or date, the caller must have re-run the
// conflict scans via UpdateWithConflictCheck instead.
func (r *ExamRepository) Update(ctx context.Context, examID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("exams").
		SetMap(updates).
		Where(squirrel.Eq{"id": examID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update exam query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("examID", examID).Msg("Error executing update exam query")
		return fmt.Errorf("error updating exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrExamNotFound
	}
	return nil
}

// UpdateWithConflictCheck applies a secretarial correction to an ACCEPTED exam
// under the same advisory locks and conflict scans as Accept. The scan targets
// are the exam's effective schedule after the correction.
func (r *ExamRepository) UpdateWithConflictCheck(ctx context.Context, exam *models.Exam, updates map[string]interface{}, schedule models.ExamSchedule, examDate time.Time) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		checks := []struct {
			role     scheduling.EntityRole
			entityID int64
			message  string
		}{
			{scheduling.EntityRoom, schedule.RoomID, "room is already booked in that interval"},
			{scheduling.EntityAssistant, schedule.AssistantID, "assistant is already assigned to an overlapping exam"},
			{scheduling.EntityProfessor, schedule.ProfessorID, "professor is already assigned to an overlapping exam"},
		}

		for _, c := range checks {
			if err := lockEntity(ctx, tx, c.role, c.entityID, examDate); err != nil {
				return err
			}
		}

		scanner := scheduling.NewScanner(txSource{tx: tx})
		for _, c := range checks {
			conflicts, err := scanner.FindConflicts(ctx, c.role, c.entityID, examDate, schedule.StartTime, schedule.Duration, exam.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return apperrors.NewScheduleConflictError(c.message)
			}
		}

		sql, args, err := r.sb.Update("exams").
			SetMap(updates).
			Where(squirrel.Eq{"id": exam.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update exam query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("examID", exam.ID).Msg("Error executing update exam query")
			return fmt.Errorf("error updating exam: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrExamNotFound
		}
		return nil
	})
}

const examDetailsQuery = `
	SELECT e.id, c.name, g.name, COALESCE(g.specialization, ''), e.exam_date, e.type, e.status,
	       e.start_time, e.duration, r.name, r.building,
	       p.name, a.name, e.details
	FROM exams e
	JOIN courses c ON c.id = e.course_id
	JOIN groups g ON g.id = e.group_id
	LEFT JOIN rooms r ON r.id = e.room_id
	LEFT JOIN users p ON p.id = e.professor_id
	LEFT JOIN users a ON a.id = e.assistant_id
`

func scanExamDetails(rows pgx.Rows) ([]models.ExamDetails, error) {
	var details []models.ExamDetails
	for rows.Next() {
		var d models.ExamDetails
		var startTime *int
		if err := rows.Scan(
			&d.ExamID,
			&d.CourseName,
			&d.GroupName,
			&d.Specialization,
			&d.ExamDate,
			&d.Type,
			&d.Status,
			&startTime,
			&d.Duration,
			&d.RoomName,
			&d.Building,
			&d.Professor,
			&d.Assistant,
			&d.Details,
		); err != nil {
			return nil, fmt.Errorf("error scanning exam details row: %w", err)
		}
		if startTime != nil {
			t := models.TimeOfDay(*startTime)
			d.StartTime = &t
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListDetailsForCoordinator retrieves the joined rows of every exam belonging
// to a course the professor coordinates, ordered for stable report output.
func (r *ExamRepository) ListDetailsForCoordinator(ctx context.Context, coordinatorID int64) ([]models.ExamDetails, error) {
	query := examDetailsQuery + `
	WHERE c.coordinator_id = $1
	ORDER BY g.name, c.name, e.id`

	rows, err := r.db.Pool.Query(ctx, query, coordinatorID)
	if err != nil {
		return nil, fmt.Errorf("error querying coordinator exams: %w", err)
	}
	defer rows.Close()

	return scanExamDetails(rows)
}

// ListDetailsForGroup retrieves the joined rows of every exam of a group.
func (r *ExamRepository) ListDetailsForGroup(ctx context.Context, groupID int64) ([]models.ExamDetails, error) {
	query := examDetailsQuery + `
	WHERE e.group_id = $1
	ORDER BY e.exam_date, e.start_time NULLS LAST, e.id`

	rows, err := r.db.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("error querying group exams: %w", err)
	}
	defer rows.Close()

	return scanExamDetails(rows)
}

// ListAllDetails retrieves the joined rows of every exam on record.
func (r *ExamRepository) ListAllDetails(ctx context.Context) ([]models.ExamDetails, error) {
	query := examDetailsQuery + `
	ORDER BY g.name, c.name, e.id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying all exams: %w", err)
	}
	defer rows.Close()

	return scanExamDetails(rows)
}

// ListMissing returns every (course, group) pair that matches on
// specialization and study year but has no exam row at all, whatever its
// status, ordered by group name then course name so repeated reports come
// out identical.
func (r *ExamRepository) ListMissing(ctx context.Context) ([]models.MissingExam, error) {
	query := `
		SELECT c.id, c.name, g.id, g.name, COALESCE(g.specialization, ''), g.year_of_study
		FROM courses c
		JOIN groups g
		  ON g.specialization = c.specialization
		 AND g.year_of_study = c.study_year
		WHERE NOT EXISTS (
			SELECT 1 FROM exams e
			WHERE e.course_id = c.id AND e.group_id = g.id
		)
		ORDER BY g.name, c.name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying missing exams: %w", err)
	}
	defer rows.Close()

	var missing []models.MissingExam
	for rows.Next() {
		var m models.MissingExam
		if err := rows.Scan(&m.CourseID, &m.CourseName, &m.GroupID, &m.GroupName, &m.Specialization, &m.YearOfStudy); err != nil {
			return nil, fmt.Errorf("error scanning missing exam row: %w", err)
		}
		missing = append(missing, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return missing, nil
}
