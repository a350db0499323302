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
	"github.com/examplanner/examplanner/internal/pkg/dberrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// RoomRepository handles database operations for rooms
type RoomRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(database *db.PostgresDB) *RoomRepository {
	return &RoomRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, name, building FROM rooms WHERE id = $1`, id).
		Scan(&room.ID, &room.Name, &room.Building)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoomNotFound
		}
		logger.Error().Err(err).Int64("roomID", id).Msg("Error scanning room row")
		return nil, fmt.Errorf("error getting room by ID: %w", err)
	}
	return &room, nil
}

// GetAll retrieves all rooms ordered by name
func (r *RoomRepository) GetAll(ctx context.Context) ([]models.Room, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, building FROM rooms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Building); err != nil {
			return nil, fmt.Errorf("error scanning room row: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}

// Create creates a new room
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	sql, args, err := r.sb.Insert("rooms").
		Columns("name", "building").
		Values(room.Name, room.Building).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create room query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&room.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "unique_room_name") {
			return apperrors.ErrRoomAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create room query")
		return fmt.Errorf("error creating room: %w", err)
	}
	return nil
}

// Update updates a room
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	sql, args, err := r.sb.Update("rooms").
		Set("name", room.Name).
		Set("building", room.Building).
		Where(squirrel.Eq{"id": room.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update room query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "unique_room_name") {
			return apperrors.ErrRoomAlreadyExists
		}
		logger.Error().Err(err).Int64("roomID", room.ID).Msg("Error executing update room query")
		return fmt.Errorf("error updating room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRoomNotFound
	}
	return nil
}

// Delete removes a room
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewConflictError("room is referenced by scheduled exams and cannot be deleted")
		}
		return fmt.Errorf("error deleting room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRoomNotFound
	}
	return nil
}
