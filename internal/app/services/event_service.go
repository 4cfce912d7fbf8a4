package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/app/repositories"
	"github.com/suraj/version24/internal/pkg/apperrors"
)

// EventService handles the event catalog and team registration.
type EventService interface {
	ListEvents(ctx context.Context) ([]dto.EventResponse, error)
	RegisterTeam(ctx context.Context, requesterEmail string, req *dto.RegisterEventRequest) (*dto.UserResponse, error)
	AdminRegisterTeam(ctx context.Context, req *dto.RegisterEventRequest) error
	GetEventRoster(ctx context.Context, eventName string) (*dto.RosterResponse, error)
	DeleteRegistration(ctx context.Context, req *dto.DeleteRegistrationRequest) (int64, error)
}

type eventService struct {
	eventRepo repositories.IEventRepository
	userRepo  repositories.IUserRepository
	logger    zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo repositories.IEventRepository,
	userRepo repositories.IUserRepository,
	logger zerolog.Logger,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// ListEvents returns the event catalog.
func (s *eventService) ListEvents(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.eventRepo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, dto.EventResponse{ID: event.ID, Name: event.Name})
	}
	return responses, nil
}

// RegisterTeam registers every listed participant for the event in one
// transaction. The requester must be among the participants. The team-name
// pre-check is a fast path only; the store's unique index decides races.
func (s *eventService) RegisterTeam(ctx context.Context, requesterEmail string, req *dto.RegisterEventRequest) (*dto.UserResponse, error) {
	if err := s.validateRegistration(ctx, req); err != nil {
		return nil, err
	}

	requester := strings.ToLower(requesterEmail)
	inTeam := false
	for _, e := range req.Emails {
		if strings.EqualFold(e, requester) {
			inTeam = true
			break
		}
	}
	if !inTeam {
		return nil, apperrors.ErrNotInTeam
	}

	if err := s.eventRepo.CreateTeamRegistration(ctx, req.EventName, teamNamePtr(req.TeamName), normalizeEmails(req.Emails)); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, requester)
	if err != nil {
		return nil, err
	}
	registrations, err := s.userRepo.GetRegistrationsByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromUserWithRegistrations(user, registrations), nil
}

// AdminRegisterTeam is the roster-management variant: same validation and
// transaction, without the requester-membership constraint.
func (s *eventService) AdminRegisterTeam(ctx context.Context, req *dto.RegisterEventRequest) error {
	if err := s.validateRegistration(ctx, req); err != nil {
		return err
	}
	return s.eventRepo.CreateTeamRegistration(ctx, req.EventName, teamNamePtr(req.TeamName), normalizeEmails(req.Emails))
}

// GetEventRoster returns every participant registered for the event.
func (s *eventService) GetEventRoster(ctx context.Context, eventName string) (*dto.RosterResponse, error) {
	exists, err := s.eventRepo.EventExists(ctx, eventName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrEventNotFound
	}

	entries, err := s.eventRepo.GetRosterByEvent(ctx, eventName)
	if err != nil {
		return nil, err
	}

	participants := make([]dto.RosterParticipant, 0, len(entries))
	for _, entry := range entries {
		participants = append(participants, dto.RosterParticipant{
			ID:       entry.UserID,
			Email:    entry.Email,
			Name:     entry.Name,
			Mobile:   entry.Mobile,
			TeamName: entry.TeamName,
		})
	}

	return &dto.RosterResponse{
		EventName:    eventName,
		Count:        len(participants),
		Participants: participants,
	}, nil
}

// DeleteRegistration removes registrations for an event. With a team name it
// removes that team. Given only emails, a participant who belongs to a team
// takes the whole team with them; solo registrations go row by row.
func (s *eventService) DeleteRegistration(ctx context.Context, req *dto.DeleteRegistrationRequest) (int64, error) {
	if err := validateStruct(req); err != nil {
		return 0, err
	}

	if req.TeamName != "" {
		return s.eventRepo.DeleteTeam(ctx, req.EventName, req.TeamName)
	}

	var removed int64
	for _, emailAddr := range normalizeEmails(req.Emails) {
		teamName, err := s.eventRepo.FindTeamNameByParticipant(ctx, req.EventName, emailAddr)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrRegistrationNotFound) {
				continue
			}
			return removed, err
		}

		var n int64
		if teamName != nil {
			n, err = s.eventRepo.DeleteTeam(ctx, req.EventName, *teamName)
		} else {
			n, err = s.eventRepo.DeleteByEventAndEmails(ctx, req.EventName, []string{emailAddr})
		}
		if err != nil {
			return removed, err
		}
		removed += n
	}

	if removed == 0 {
		return 0, apperrors.ErrRegistrationNotFound
	}
	return removed, nil
}

func (s *eventService) validateRegistration(ctx context.Context, req *dto.RegisterEventRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	if len(req.Emails) > 1 && strings.TrimSpace(req.TeamName) == "" {
		return apperrors.ErrTeamNameRequired
	}

	exists, err := s.eventRepo.EventExists(ctx, req.EventName)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrEventNotFound
	}

	if req.TeamName != "" {
		taken, err := s.eventRepo.TeamNameExists(ctx, req.EventName, req.TeamName)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrTeamNameTaken
		}
	}

	return nil
}

func teamNamePtr(teamName string) *string {
	trimmed := strings.TrimSpace(teamName)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeEmails(emails []string) []string {
	normalized := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		lowered := strings.ToLower(strings.TrimSpace(e))
		if lowered == "" {
			continue
		}
		if _, dup := seen[lowered]; dup {
			continue
		}
		seen[lowered] = struct{}{}
		normalized = append(normalized, lowered)
	}
	return normalized
}
