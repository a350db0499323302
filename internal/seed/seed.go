package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/repositories"
	"github.com/examplanner/examplanner/internal/db"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/auth"
)

// defaultAccounts are created on first startup so the application is usable
// before any real accounts exist. The administrative reset preserves them.
var defaultAccounts = []struct {
	name     string
	email    string
	password string
	role     models.RoleType
}{
	{"System Administrator", "admin@examplanner.app", "Admin123!", models.RoleAdmin},
	{"Secretariat", "secretariat@examplanner.app", "Secretar123!", models.RoleSecretary},
}

// CreateDefaultData creates the default administrative and secretarial
// accounts if they don't exist.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(database)

	lgr.Info().Msg("Checking/Creating default accounts...")
	var finalErr error

	for _, account := range defaultAccounts {
		_, err := userRepo.GetByEmail(ctx, account.email)
		if err == nil {
			continue // already present
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error checking default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		hashed, err := auth.HashPassword(account.password)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error hashing default account password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &models.User{
			Name:     account.name,
			Email:    account.email,
			Password: hashed,
			Role:     account.role,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Int64("userID", user.ID).Str("email", account.email).Str("role", string(account.role)).
			Msg("Default account created")
	}

	lgr.Info().Msg("Default account check finished.")
	return finalErr
}
