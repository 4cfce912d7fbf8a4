package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/app/repositories"
	"github.com/suraj/version24/internal/pkg/apperrors"
	"github.com/suraj/version24/internal/pkg/helpers"
)

// UserService serves user profiles and the admin user listing.
type UserService interface {
	GetProfile(ctx context.Context, email string) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context, page, pageSize int) (*dto.UserListResponse, error)
	DeleteUsers(ctx context.Context, req *dto.DeleteUsersRequest) (int64, error)
}

type userService struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

// GetProfile returns the user's public profile with their registrations.
func (s *userService) GetProfile(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	registrations, err := s.userRepo.GetRegistrationsByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromUserWithRegistrations(user, registrations), nil
}

// GetAllUsers lists non-admin accounts with their registrations, paginated.
func (s *userService) GetAllUsers(ctx context.Context, page, pageSize int) (*dto.UserListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	users, total, err := s.userRepo.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		user := u
		registrations, err := s.userRepo.GetRegistrationsByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *dto.FromUserWithRegistrations(&user, registrations))
	}

	return &dto.UserListResponse{
		Users:          responses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// DeleteUsers removes accounts by email; registrations cascade in the store.
func (s *userService) DeleteUsers(ctx context.Context, req *dto.DeleteUsersRequest) (int64, error) {
	if err := validateStruct(req); err != nil {
		return 0, err
	}

	deleted, err := s.userRepo.DeleteUsersByEmail(ctx, normalizeEmails(req.Emails))
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, apperrors.ErrUserNotExist
	}

	s.logger.Info().Int64("deleted", deleted).Msg("Admin removed user accounts")
	return deleted, nil
}
