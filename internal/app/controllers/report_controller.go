package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/app/services"
	"github.com/examplanner/examplanner/internal/middleware"
)

// ReportController handles the read-side exam views
type ReportController struct {
	reportService *services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// GroupExams returns the exams of the caller's own group
func (c *ReportController) GroupExams(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	exams, err := c.reportService.GroupExams(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.ExamListResponse{Exams: exams}, "Group exams retrieved"))
}

// ExamsByStatus returns the caller's coordinated exams grouped by status
func (c *ReportController) ExamsByStatus(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	buckets, err := c.reportService.ExamsByStatus(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(buckets, "Exams retrieved"))
}

// ScheduleOverview returns every exam plus the pairs still missing one
func (c *ReportController) ScheduleOverview(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	overview, err := c.reportService.ScheduleOverview(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(overview, "Schedule overview retrieved"))
}
