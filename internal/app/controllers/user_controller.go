package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/app/services"
	"github.com/suraj/version24/internal/middleware"
)

// UserController serves the authenticated user's profile
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile returns the caller's profile with registrations
// @Summary Get own profile
// @Tags user
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /user [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	email := ctx.GetString(middleware.ContextEmail)

	profile, err := c.userService.GetProfile(ctx.Request.Context(), email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(profile))
}
