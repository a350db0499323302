package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Authorization
// failures always surface as 403 and are never conflated with a 404; a
// conflict names the busy entity through the error message itself.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrExamNotFound,
		apperrors.ErrCourseNotFound,
		apperrors.ErrGroupNotFound,
		apperrors.ErrRoomNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrPeriodNotFound,
		apperrors.ErrUserLeadsNoGroup,
		apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, err.Error())))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))

	case apperrors.Is(err, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotFound):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, err.Error())))

	case errors.Is(err, apperrors.ErrScheduleConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeScheduleConflict, err.Error())))

	case apperrors.Is(err, apperrors.ErrExamAlreadyProposed,
		apperrors.ErrEmailAlreadyExists,
		apperrors.ErrRoomAlreadyExists,
		apperrors.ErrCourseHasRelations,
		apperrors.ErrResourceAlreadyExists,
		apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))

	case apperrors.Is(err, apperrors.ErrExamNotPending, apperrors.ErrExamNotRejected):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, err.Error())))

	case errors.Is(err, apperrors.ErrDateOutsidePeriod):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeOutsidePeriod, err.Error())))

	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrNoExaminationMethod,
		apperrors.ErrInvalidPeriodRange,
		apperrors.ErrGroupWithoutLeader,
		apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

// HandleValidationError returns a 400 with the translated field errors.
func HandleValidationError(c *gin.Context, fields map[string]string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
		WithDetails(fields)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
