package services

import (
	"context"

	"github.com/examplanner/examplanner/internal/app/auth"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// PeriodService handles examination period administration
type PeriodService struct {
	periodRepo PeriodStore
}

// NewPeriodService creates a new period service instance
func NewPeriodService(periodRepo PeriodStore) *PeriodService {
	return &PeriodService{periodRepo: periodRepo}
}

// List returns all examination periods. Every authenticated role may read
// them; only secretarial staff may change them.
func (s *PeriodService) List(ctx context.Context) ([]models.ExaminationPeriod, error) {
	return s.periodRepo.GetAll(ctx)
}

func buildPeriod(examType, start, end string) (*models.ExaminationPeriod, error) {
	periodType, ok := models.ParseExamType(examType)
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "period type must be WRITTEN or COLLOQUIUM")
	}

	periodStart, err := parseExamDate(start)
	if err != nil {
		return nil, err
	}
	periodEnd, err := parseExamDate(end)
	if err != nil {
		return nil, err
	}
	if !periodStart.Before(periodEnd) {
		return nil, apperrors.ErrInvalidPeriodRange
	}

	return &models.ExaminationPeriod{
		Type:        periodType,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}, nil
}

// Create creates a new examination period
func (s *PeriodService) Create(ctx context.Context, actor auth.Actor, req dto.CreatePeriodRequest) (*models.ExaminationPeriod, error) {
	if err := actor.Require(auth.CapManagePeriods); err != nil {
		return nil, err
	}

	period, err := buildPeriod(req.Type, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if err := s.periodRepo.Create(ctx, period); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("periodID", period.ID).
		Str("type", req.Type).
		Msg("Examination period created")

	return period, nil
}

// Update updates an examination period
func (s *PeriodService) Update(ctx context.Context, actor auth.Actor, id int64, req dto.UpdatePeriodRequest) (*models.ExaminationPeriod, error) {
	if err := actor.Require(auth.CapManagePeriods); err != nil {
		return nil, err
	}

	if _, err := s.periodRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	period, err := buildPeriod(req.Type, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	period.ID = id

	if err := s.periodRepo.Update(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

// Delete removes an examination period
func (s *PeriodService) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if err := actor.Require(auth.CapManagePeriods); err != nil {
		return err
	}
	return s.periodRepo.Delete(ctx, id)
}
