package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/app/services"
	"github.com/examplanner/examplanner/internal/middleware"
	"github.com/examplanner/examplanner/internal/pkg/validation"
)

// CourseController handles course endpoints
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// List returns the courses visible to the caller
func (c *CourseController) List(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.ListForActor(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, dto.NewCourseResponse(course))
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CourseListResponse{Courses: items}, "Courses retrieved"))
}

// GetByID returns one course with its assistants
func (c *CourseController) GetByID(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetByID(ctx.Request.Context(), actor, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponse(*course), "Course retrieved"))
}

// SetExaminationMethod stores the examination method of a course
func (c *CourseController) SetExaminationMethod(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetExaminationMethodRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	course, err := c.courseService.SetExaminationMethod(ctx.Request.Context(), actor, courseID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponse(*course), "Examination method updated"))
}

// Create registers a new course
func (c *CourseController) Create(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	course, err := c.courseService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewCourseResponse(*course), "Course created"))
}

// Update modifies an existing course
func (c *CourseController) Update(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	course, err := c.courseService.Update(ctx.Request.Context(), actor, courseID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponse(*course), "Course updated"))
}

// Delete removes a course without exams or assistants
func (c *CourseController) Delete(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx.Request.Context(), actor, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Course deleted"))
}
