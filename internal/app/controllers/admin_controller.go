package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/app/services"
	"github.com/suraj/version24/internal/middleware"
	"github.com/suraj/version24/internal/pkg/apperrors"
	"github.com/suraj/version24/internal/pkg/helpers"
)

// AdminController handles roster management
type AdminController struct {
	userService  services.UserService
	eventService services.EventService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(userService services.UserService, eventService services.EventService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		userService:  userService,
		eventService: eventService,
		logger:       logger,
	}
}

// GetAllUsers lists non-admin accounts with registrations
// @Summary List users
// @Tags admin
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Router /admin/users [get]
func (c *AdminController) GetAllUsers(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	users, err := c.userService.GetAllUsers(ctx.Request.Context(), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(users))
}

// DeleteUsers removes accounts by email
// @Summary Delete users
// @Description Removes the listed accounts. Event registrations cascade.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.DeleteUsersRequest true "Emails to remove"
// @Success 200 {object} dto.APIResponse "Users deleted"
// @Failure 404 {object} dto.ErrorResponse "No matching user"
// @Router /admin/user [delete]
func (c *AdminController) DeleteUsers(ctx *gin.Context) {
	var req dto.DeleteUsersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	deleted, err := c.userService.DeleteUsers(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("deleted", deleted).Str("admin", ctx.GetString(middleware.ContextEmail)).Msg("Users deleted")
	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{"deleted": deleted}))
}

// GetRoster returns an event roster
// @Summary Get an event roster
// @Tags admin
// @Produce json
// @Param eventName query string true "Event name"
// @Success 200 {object} dto.APIResponse{data=dto.RosterResponse} "Roster"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/event/participants [get]
func (c *AdminController) GetRoster(ctx *gin.Context) {
	eventName := ctx.Query("eventName")
	if eventName == "" {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrValidationFailed, "eventName is required."))
		return
	}

	roster, err := c.eventService.GetEventRoster(ctx.Request.Context(), eventName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(roster))
}

// RegisterTeam registers a team on behalf of its members
// @Summary Register a team as admin
// @Description Same transaction as the user-facing registration, without the
// @Description requester-membership constraint.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.RegisterEventRequest true "Event, team name and participant emails"
// @Success 201 {object} dto.APIResponse "Registered"
// @Failure 400 {object} dto.ErrorResponse "Validation or conflict"
// @Router /admin/registerevent [post]
func (c *AdminController) RegisterTeam(ctx *gin.Context) {
	var req dto.RegisterEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.eventService.AdminRegisterTeam(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("event", req.EventName).Int("teamSize", len(req.Emails)).Str("admin", ctx.GetString(middleware.ContextEmail)).Msg("Team registered by admin")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Team registered."))
}

// DeleteRegistration removes registrations from an event
// @Summary Delete registrations
// @Description Removes a whole team by name, or individual participants by
// @Description email. A participant who belongs to a team takes the whole
// @Description team with them.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.DeleteRegistrationRequest true "Event plus team name or emails"
// @Success 200 {object} dto.APIResponse "Registrations removed"
// @Failure 404 {object} dto.ErrorResponse "No matching registration"
// @Router /admin/registerevent [delete]
func (c *AdminController) DeleteRegistration(ctx *gin.Context) {
	var req dto.DeleteRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	removed, err := c.eventService.DeleteRegistration(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("event", req.EventName).Int64("removed", removed).Str("admin", ctx.GetString(middleware.ContextEmail)).Msg("Registrations deleted")
	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{"removed": removed}))
}
