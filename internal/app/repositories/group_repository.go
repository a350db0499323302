package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/db"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// GroupRepository handles database operations for student groups
type GroupRepository struct {
	db *db.PostgresDB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(database *db.PostgresDB) *GroupRepository {
	return &GroupRepository{db: database}
}

const groupColumns = "id, name, leader_id, specialization, year_of_study"

func scanGroup(row pgx.Row) (*models.Group, error) {
	var group models.Group
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.LeaderID,
		&group.Specialization,
		&group.YearOfStudy,
	)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM groups WHERE id = $1`, groupColumns)

	group, err := scanGroup(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Int64("groupID", id).Msg("Error scanning group row")
		return nil, fmt.Errorf("error getting group by ID: %w", err)
	}
	return group, nil
}

// GetByLeaderID retrieves the group a user leads. A user leads at most one
// group; ErrUserLeadsNoGroup means the caller is not a leader of anything.
func (r *GroupRepository) GetByLeaderID(ctx context.Context, leaderID int64) (*models.Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM groups WHERE leader_id = $1`, groupColumns)

	group, err := scanGroup(r.db.Pool.QueryRow(ctx, query, leaderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserLeadsNoGroup
		}
		logger.Error().Err(err).Int64("leaderID", leaderID).Msg("Error scanning group row")
		return nil, fmt.Errorf("error getting group by leader: %w", err)
	}
	return group, nil
}

// GetAll retrieves all groups ordered by name
func (r *GroupRepository) GetAll(ctx context.Context) ([]models.Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM groups ORDER BY name`, groupColumns)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning group row: %w", err)
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}
