package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/pkg/apperrors"
	"github.com/suraj/version24/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Every sentinel the
// services raise appears here exactly once; anything unrecognized reduces to
// a logged 500 so internals never leak to clients.
func HandleAPIError(c *gin.Context, err error) {
	message := errorMessage(err)

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrInvalidEmail),
		errors.Is(err, apperrors.ErrInvalidPassword),
		errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message, "Invalid request.")

	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, message, "User already registered.")

	case errors.Is(err, apperrors.ErrTeamNameRequired):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeTeamNameRequired, message, "Team name is required for team events.")

	case errors.Is(err, apperrors.ErrTeamNameTaken):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeTeamNameTaken, message, "Team name already taken for this event.")

	case errors.Is(err, apperrors.ErrNotInTeam):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeNotInTeam, message, "You must be part of the team you register.")

	case errors.Is(err, apperrors.ErrTeammatesAlreadyRegistered):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeTeamConflict, message, "One or more teammates are already registered for this event.")

	case errors.Is(err, apperrors.ErrPasswordIncorrect):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeInvalidCredentials, message, "Incorrect password.")

	case errors.Is(err, apperrors.ErrEmailNotConfirmed):
		respondError(c, http.StatusForbidden, dto.ErrorCodeEmailNotConfirmed, message, "Please confirm your email first.")

	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrInvalidOrExpiredToken):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, message, "Invalid or expired token.")

	case errors.Is(err, apperrors.ErrOTPMismatch),
		errors.Is(err, apperrors.ErrOTPNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, message, "Invalid or expired OTP.")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, message, "You do not have permission to perform this action.")

	case errors.Is(err, apperrors.ErrUserNotExist):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message, "User does not exist.")

	case errors.Is(err, apperrors.ErrEventNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message, "Event not found.")

	case errors.Is(err, apperrors.ErrRegistrationNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message, "Registration not found.")

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "", "Something went wrong.")
	}
}

// errorMessage surfaces a CustomError's message; sentinels fall back to the
// per-case default.
func errorMessage(err error) string {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		return customErr.Message
	}
	return ""
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message, fallback string) {
	if message == "" {
		message = fallback
	}
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
