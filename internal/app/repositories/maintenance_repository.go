package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/db"
)

// MaintenanceRepository performs the administrative bulk reset.
type MaintenanceRepository struct {
	db *db.PostgresDB
}

// NewMaintenanceRepository creates a new MaintenanceRepository
func NewMaintenanceRepository(database *db.PostgresDB) *MaintenanceRepository {
	return &MaintenanceRepository{db: database}
}

// ResetAll deletes every exam, course, group, room and examination period,
// plus every user whose role is not in keep, in a single transaction. Order
// follows the foreign keys.
func (r *MaintenanceRepository) ResetAll(ctx context.Context, keep ...models.RoleType) error {
	roles := make([]string, 0, len(keep))
	for _, role := range keep {
		roles = append(roles, string(role))
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		statements := []string{
			`DELETE FROM exams`,
			`DELETE FROM course_assistants`,
			`DELETE FROM courses`,
			`DELETE FROM groups`,
			`DELETE FROM rooms`,
			`DELETE FROM examination_periods`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("error resetting application data: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE role <> ALL($1)`, roles); err != nil {
			return fmt.Errorf("error resetting users: %w", err)
		}
		return nil
	})
}
