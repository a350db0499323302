package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/app/services"
	"github.com/examplanner/examplanner/internal/middleware"
	"github.com/examplanner/examplanner/internal/pkg/validation"
)

// PeriodController handles examination period endpoints
type PeriodController struct {
	periodService *services.PeriodService
}

// NewPeriodController creates a new PeriodController
func NewPeriodController(periodService *services.PeriodService) *PeriodController {
	return &PeriodController{periodService: periodService}
}

// List returns all examination periods
func (c *PeriodController) List(ctx *gin.Context) {
	periods, err := c.periodService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.PeriodResponse, 0, len(periods))
	for _, period := range periods {
		items = append(items, dto.NewPeriodResponse(period))
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.PeriodListResponse{Periods: items}, "Examination periods retrieved"))
}

// Create registers a new examination period
func (c *PeriodController) Create(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreatePeriodRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	period, err := c.periodService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewPeriodResponse(*period), "Examination period created"))
}

// Update modifies an existing examination period
func (c *PeriodController) Update(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	periodID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePeriodRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	period, err := c.periodService.Update(ctx.Request.Context(), actor, periodID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewPeriodResponse(*period), "Examination period updated"))
}

// Delete removes an examination period
func (c *PeriodController) Delete(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	periodID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.periodService.Delete(ctx.Request.Context(), actor, periodID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Examination period deleted"))
}
