package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/app/services"
	"github.com/examplanner/examplanner/internal/middleware"
	"github.com/examplanner/examplanner/internal/pkg/validation"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login verifies credentials and issues an access token
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if fields := validation.Bind(ctx, &req); fields != nil {
		middleware.HandleValidationError(ctx, fields)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Login successful"))
}

// Me returns the authenticated user's profile
func (c *AuthController) Me(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	user, err := c.authService.GetUser(ctx.Request.Context(), actor.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewUserResponse(*user), "User profile"))
}
