package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/app/services"
	"github.com/suraj/version24/internal/middleware"
	"github.com/suraj/version24/internal/pkg/apperrors"
)

// EventController handles the public event surface and team registration
type EventController struct {
	eventService services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// ListEvents returns the event catalog
// @Summary List events
// @Tags event
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse} "Events"
// @Router /event [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	events, err := c.eventService.ListEvents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(events))
}

// GetRoster returns every participant of an event
// @Summary Get an event roster
// @Tags event
// @Produce json
// @Param eventName query string true "Event name"
// @Success 200 {object} dto.APIResponse{data=dto.RosterResponse} "Roster"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /event/participants [get]
func (c *EventController) GetRoster(ctx *gin.Context) {
	eventName := ctx.Query("eventName")
	if eventName == "" {
		var req dto.RosterQueryRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrValidationFailed, "eventName is required."))
			return
		}
		eventName = req.EventName
	}

	roster, err := c.eventService.GetEventRoster(ctx.Request.Context(), eventName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(roster))
}

// RegisterTeam registers the caller's team for an event
// @Summary Register a team
// @Description Registers every listed participant atomically. The caller must
// @Description be one of the participants.
// @Tags event
// @Accept json
// @Produce json
// @Param request body dto.RegisterEventRequest true "Event, team name and participant emails"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "Registered"
// @Failure 400 {object} dto.ErrorResponse "Validation, team name conflict or duplicate registration"
// @Failure 404 {object} dto.ErrorResponse "Unknown participant or event"
// @Router /registerevent [post]
func (c *EventController) RegisterTeam(ctx *gin.Context) {
	var req dto.RegisterEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	email := ctx.GetString(middleware.ContextEmail)

	profile, err := c.eventService.RegisterTeam(ctx.Request.Context(), email, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("event", req.EventName).Str("email", email).Int("teamSize", len(req.Emails)).Msg("Team registered")
	ctx.JSON(http.StatusCreated, dto.NewDataResponse(profile))
}
