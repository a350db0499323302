package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/db"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// PeriodRepository handles database operations for examination periods
type PeriodRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewPeriodRepository creates a new PeriodRepository
func NewPeriodRepository(database *db.PostgresDB) *PeriodRepository {
	return &PeriodRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const periodColumns = "id, type, period_start, period_end"

func scanPeriod(row pgx.Row) (*models.ExaminationPeriod, error) {
	var p models.ExaminationPeriod
	if err := row.Scan(&p.ID, &p.Type, &p.PeriodStart, &p.PeriodEnd); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves an examination period by ID
func (r *PeriodRepository) GetByID(ctx context.Context, id int64) (*models.ExaminationPeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM examination_periods WHERE id = $1`, periodColumns)

	period, err := scanPeriod(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPeriodNotFound
		}
		logger.Error().Err(err).Int64("periodID", id).Msg("Error scanning period row")
		return nil, fmt.Errorf("error getting period by ID: %w", err)
	}
	return period, nil
}

// GetAll retrieves all examination periods ordered by start date
func (r *PeriodRepository) GetAll(ctx context.Context) ([]models.ExaminationPeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM examination_periods ORDER BY period_start`, periodColumns)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying periods: %w", err)
	}
	defer rows.Close()

	var periods []models.ExaminationPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning period row: %w", err)
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return periods, nil
}

// ExistsForTypeAndDate reports whether any period of the given type contains
// the given day, bounds inclusive.
func (r *PeriodRepository) ExistsForTypeAndDate(ctx context.Context, examType models.ExamType, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM examination_periods
			WHERE type = $1 AND period_start <= $2 AND period_end >= $2
		)
	`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, examType, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking examination period: %w", err)
	}
	return exists, nil
}

// Create creates a new examination period
func (r *PeriodRepository) Create(ctx context.Context, period *models.ExaminationPeriod) error {
	sql, args, err := r.sb.Insert("examination_periods").
		Columns("type", "period_start", "period_end").
		Values(period.Type, period.PeriodStart, period.PeriodEnd).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create period query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&period.ID); err != nil {
		logger.Error().Err(err).Msg("Error executing create period query")
		return fmt.Errorf("error creating period: %w", err)
	}
	return nil
}

// Update updates an examination period
func (r *PeriodRepository) Update(ctx context.Context, period *models.ExaminationPeriod) error {
	sql, args, err := r.sb.Update("examination_periods").
		Set("type", period.Type).
		Set("period_start", period.PeriodStart).
		Set("period_end", period.PeriodEnd).
		Where(squirrel.Eq{"id": period.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update period query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("periodID", period.ID).Msg("Error executing update period query")
		return fmt.Errorf("error updating period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPeriodNotFound
	}
	return nil
}

// Delete removes an examination period
func (r *PeriodRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM examination_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPeriodNotFound
	}
	return nil
}
