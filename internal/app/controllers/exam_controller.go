package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/app/services"
	"github.com/examplanner/examplanner/internal/middleware"
	"github.com/examplanner/examplanner/internal/pkg/validation"
)

// ExamController handles the exam lifecycle endpoints
type ExamController struct {
	examService *services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(examService *services.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// Propose creates a pending exam for the caller's group
func (c *ExamController) Propose(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.ProposeExamRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	exam, warning, err := c.examService.Propose(ctx.Request.Context(), actor, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewStructuredResponse(exam, "Exam proposal created")
	if warning != "" {
		resp = resp.WithWarning(warning)
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Review records a coordinator's decision on a pending exam
func (c *ExamController) Review(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewExamRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	exam, warning, err := c.examService.Review(ctx.Request.Context(), actor, examID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewStructuredResponse(exam, "Exam review recorded")
	if warning != "" {
		resp = resp.WithWarning(warning)
	}
	ctx.JSON(http.StatusOK, resp)
}

// Reschedule proposes a new date for a rejected exam
func (c *ExamController) Reschedule(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RescheduleExamRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	exam, warning, err := c.examService.Reschedule(ctx.Request.Context(), actor, examID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewStructuredResponse(exam, "Exam rescheduled")
	if warning != "" {
		resp = resp.WithWarning(warning)
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetByID returns one exam, subject to the caller's visibility
func (c *ExamController) GetByID(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.examService.GetByID(ctx.Request.Context(), actor, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(exam, "Exam retrieved"))
}

// Update applies a secretarial correction to an exam
func (c *ExamController) Update(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateExamRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	exam, err := c.examService.UpdateBySecretary(ctx.Request.Context(), actor, examID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(exam, "Exam updated"))
}
