package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examplanner/examplanner/internal/app/auth"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
)

func TestPeriodService(t *testing.T) {
	ctx := context.Background()
	secretary := auth.Actor{UserID: 1, Role: models.RoleSecretary}

	newSvc := func() (*fixture, *PeriodService) {
		f := newFixture()
		return f, NewPeriodService(&fakePeriodStore{f: f})
	}

	t.Run("create requires start before end", func(t *testing.T) {
		_, svc := newSvc()

		_, err := svc.Create(ctx, secretary, dto.CreatePeriodRequest{
			Type: "WRITTEN", PeriodStart: "2025-06-30", PeriodEnd: "2025-06-01",
		})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidPeriodRange))

		_, err = svc.Create(ctx, secretary, dto.CreatePeriodRequest{
			Type: "WRITTEN", PeriodStart: "2025-06-01", PeriodEnd: "2025-06-01",
		})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidPeriodRange))
	})

	t.Run("create and update round trip", func(t *testing.T) {
		_, svc := newSvc()

		period, err := svc.Create(ctx, secretary, dto.CreatePeriodRequest{
			Type: "WRITTEN", PeriodStart: "2025-06-01", PeriodEnd: "2025-06-30",
		})
		require.NoError(t, err)
		assert.Equal(t, models.ExamTypeWritten, period.Type)

		updated, err := svc.Update(ctx, secretary, period.ID, dto.UpdatePeriodRequest{
			Type: "COLLOQUIUM", PeriodStart: "2025-05-15", PeriodEnd: "2025-05-31",
		})
		require.NoError(t, err)
		assert.Equal(t, models.ExamTypeColloquium, updated.Type)
		assert.Equal(t, "2025-05-15", updated.PeriodStart.Format(models.DateLayout))
	})

	t.Run("unknown period type is refused", func(t *testing.T) {
		_, svc := newSvc()
		_, err := svc.Create(ctx, secretary, dto.CreatePeriodRequest{
			Type: "ORAL", PeriodStart: "2025-06-01", PeriodEnd: "2025-06-30",
		})
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	})

	t.Run("only secretarial staff may manage periods", func(t *testing.T) {
		_, svc := newSvc()
		coordinator := auth.Actor{UserID: 2, Role: models.RoleCoordinator}

		_, err := svc.Create(ctx, coordinator, dto.CreatePeriodRequest{
			Type: "WRITTEN", PeriodStart: "2025-06-01", PeriodEnd: "2025-06-30",
		})
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})

	t.Run("delete of a missing period reports not found", func(t *testing.T) {
		_, svc := newSvc()
		err := svc.Delete(ctx, secretary, 42)
		assert.True(t, errors.Is(err, apperrors.ErrPeriodNotFound))
	})
}
