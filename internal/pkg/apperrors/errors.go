package apperrors

import "errors"

// Common errors
var (
	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidPassword  = errors.New("invalid password format")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserAlreadyExists = errors.New("email already registered")
	ErrUserNotExist      = errors.New("user not registered")
	ErrPasswordIncorrect = errors.New("incorrect password")
	ErrEmailNotConfirmed = errors.New("email not confirmed")

	// Token errors
	ErrTokenInvalid          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

	// OTP errors
	ErrOTPMismatch = errors.New("otp does not match")
	ErrOTPNotFound = errors.New("no otp generated for this email")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
)

// Event registration errors
var (
	ErrEventNotFound              = errors.New("event not found")
	ErrTeamNameRequired           = errors.New("team name is required")
	ErrTeamNameTaken              = errors.New("team name already exists")
	ErrNotInTeam                  = errors.New("registering user must be part of the team")
	ErrTeammatesAlreadyRegistered = errors.New("one or more teammates are already registered for this event")
	ErrRegistrationNotFound       = errors.New("event registration not found")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a field-level message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
