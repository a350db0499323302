package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/app/services"
	"github.com/examplanner/examplanner/internal/middleware"
	"github.com/examplanner/examplanner/internal/pkg/validation"
)

// AdminController handles user management and the semester reset
type AdminController struct {
	adminService *services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// ListUsers returns all registered users
func (c *AdminController) ListUsers(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	users, err := c.adminService.ListUsers(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.NewUserResponse(user))
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.UserListResponse{Users: items}, "Users retrieved"))
}

// CreateUser registers a new account
func (c *AdminController) CreateUser(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	user, err := c.adminService.CreateUser(ctx.Request.Context(), actor,
		req.Name, req.Email, req.Password, models.RoleType(req.Role), req.TeacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewUserResponse(*user), "User created"))
}

// Reset wipes semester data so a new planning round can start
func (c *AdminController) Reset(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	result, err := c.adminService.Reset(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(result, "Application reset completed"))
}
