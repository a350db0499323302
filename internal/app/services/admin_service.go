package services

import (
	"context"

	"github.com/examplanner/examplanner/internal/app/auth"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	pkgauth "github.com/examplanner/examplanner/internal/pkg/auth"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// AdminService handles user administration and the application reset
type AdminService struct {
	userRepo    UserStore
	maintenance MaintenanceStore
}

// NewAdminService creates a new admin service instance
func NewAdminService(userRepo UserStore, maintenance MaintenanceStore) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		maintenance: maintenance,
	}
}

// ListUsers returns all user accounts
func (s *AdminService) ListUsers(ctx context.Context, actor auth.Actor) ([]models.User, error) {
	if err := actor.Require(auth.CapManageUsers); err != nil {
		return nil, err
	}
	return s.userRepo.GetAll(ctx)
}

// CreateUser creates a new user account with a hashed password. Coordinating
// professors need an external staff id so courses can reference them.
func (s *AdminService) CreateUser(ctx context.Context, actor auth.Actor, name, email, password string, role models.RoleType, teacherID *int64) (*models.User, error) {
	if err := actor.Require(auth.CapManageUsers); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "role must be one of SG, CD, SEC, ADM")
	}
	if role == models.RoleCoordinator && teacherID == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "a coordinating professor requires a teacherId")
	}

	hashed, err := pkgauth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      role,
		TeacherID: teacherID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User created")

	return user, nil
}

// Reset wipes all application data in one transaction, keeping only the
// administrative and secretarial accounts, so a new planning round can start
// from a clean slate.
func (s *AdminService) Reset(ctx context.Context, actor auth.Actor) (*dto.SuccessResponse, error) {
	if err := actor.Require(auth.CapResetApplication); err != nil {
		return nil, err
	}

	if err := s.maintenance.ResetAll(ctx, models.RoleAdmin, models.RoleSecretary); err != nil {
		return nil, err
	}

	logger.Warn().Int64("userID", actor.UserID).Msg("Application data reset")

	return &dto.SuccessResponse{Message: "application data reset"}, nil
}
