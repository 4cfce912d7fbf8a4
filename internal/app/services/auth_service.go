package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/suraj/version24/internal/app/models"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/app/repositories"
	"github.com/suraj/version24/internal/pkg/apperrors"
	"github.com/suraj/version24/internal/pkg/auth"
	"github.com/suraj/version24/internal/pkg/email"
)

// passwordResetTokenTTL bounds how long a reset link stays usable.
const passwordResetTokenTTL = 10 * time.Minute

// AuthService handles the credential lifecycle: signup, email confirmation,
// login, and both password reset paths (link token and OTP).
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	ConfirmEmail(ctx context.Context, rawToken string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, string, int, error)
	RequestPasswordReset(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
	GenerateOTP(ctx context.Context, emailAddr string) error
	VerifyOTP(ctx context.Context, emailAddr, code string) error
	ResetPasswordWithOTP(ctx context.Context, emailAddr, newPassword, code string) error
}

type authService struct {
	userRepo     repositories.IUserRepository
	otpRepo      repositories.IOTPRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	otpRepo repositories.IOTPRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		otpRepo:      otpRepo,
		jwtService:   jwtService,
		emailService: emailService,
		logger:       logger,
	}
}

// Signup creates an unconfirmed account and dispatches the confirmation link.
// Only the token hash is persisted; a failed mail dispatch does not fail the
// signup, it is reported through SignupResponse.EmailSent.
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUserAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:      strings.ToLower(req.Email),
		Name:       req.Name,
		Password:   hashedPassword,
		Mobile:     req.Mobile,
		University: req.University,
		RollNo:     req.RollNo,
		Role:       models.RoleStudent,
	}

	userID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = userID

	rawToken, tokenHash, err := auth.GenerateSingleUseToken()
	if err != nil {
		return nil, fmt.Errorf("error generating confirmation token: %w", err)
	}

	if err := s.userRepo.SetEmailToken(ctx, userID, tokenHash); err != nil {
		return nil, err
	}

	emailSent := true
	if err := s.emailService.SendConfirmationEmail(user.Email, user.Name, rawToken); err != nil {
		emailSent = false
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to send confirmation email")
	}

	return &dto.SignupResponse{
		User:      dto.FromUser(user),
		EmailSent: emailSent,
	}, nil
}

// ConfirmEmail consumes a confirmation token. An already-confirmed account
// holding the token succeeds idempotently.
func (s *authService) ConfirmEmail(ctx context.Context, rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return apperrors.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByEmailTokenHash(ctx, auth.HashToken(rawToken))
	if err != nil {
		return err
	}

	if user.IsEmailConfirmed {
		return nil
	}

	return s.userRepo.ConfirmEmail(ctx, user.ID)
}

// Login authenticates a user and mints a session token. The confirmation
// check runs before any token is issued.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, string, int, error) {
	if err := validateStruct(req); err != nil {
		return nil, "", 0, err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, "", 0, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, "", 0, apperrors.ErrPasswordIncorrect
	}

	if !user.IsEmailConfirmed {
		return nil, "", 0, apperrors.ErrEmailNotConfirmed
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user.Email)
	if err != nil {
		return nil, "", 0, fmt.Errorf("token generation error: %w", err)
	}

	resp := dto.FromUser(user)
	resp.Mobile = ""

	return &dto.LoginResponse{User: resp}, token, expiresIn, nil
}

// RequestPasswordReset mints a reset token, stores its hash with a 10 minute
// expiry and mails the link. An unknown email surfaces as UserNotExist, which
// the HTTP layer maps to 404; the existence leak mirrors the observed contract.
func (s *authService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(emailAddr))
	if err != nil {
		return err
	}

	rawToken, tokenHash, err := auth.GenerateSingleUseToken()
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}

	expiry := time.Now().Add(passwordResetTokenTTL)
	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, tokenHash, expiry); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, user.Name, rawToken); err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to send password reset email")
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ResetPassword finishes the link flow. Clearing the token, stamping
// password_changed_at and storing the new hash happen as one store mutation,
// so a second presentation of the same token always misses.
func (s *authService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if strings.TrimSpace(rawToken) == "" {
		return apperrors.ErrInvalidOrExpiredToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	ok, err := s.userRepo.ResetPasswordByTokenHash(ctx, auth.HashToken(rawToken), hashedPassword)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrInvalidOrExpiredToken
	}

	return nil
}

// GenerateOTP stores a fresh six-digit code for the email, overwriting any
// prior code, and mails it.
func (s *authService) GenerateOTP(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(emailAddr))
	if err != nil {
		return err
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("error generating otp: %w", err)
	}

	if err := s.otpRepo.Save(ctx, user.Email, code); err != nil {
		return err
	}

	if err := s.emailService.SendOTPEmail(user.Email, user.Name, code); err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to send otp email")
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	return nil
}

// VerifyOTP checks a code without consuming it, so the client can verify
// before submitting the new password.
func (s *authService) VerifyOTP(ctx context.Context, emailAddr, code string) error {
	stored, err := s.otpRepo.Get(ctx, strings.ToLower(emailAddr))
	if err != nil {
		return err
	}
	if stored != code {
		return apperrors.ErrOTPMismatch
	}
	return nil
}

// ResetPasswordWithOTP re-checks the code, consumes it and stores the new
// password hash. A consumed code cannot complete a second reset.
func (s *authService) ResetPasswordWithOTP(ctx context.Context, emailAddr, newPassword, code string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	normalized := strings.ToLower(emailAddr)

	stored, err := s.otpRepo.Get(ctx, normalized)
	if err != nil {
		return err
	}
	if stored != code {
		return apperrors.ErrOTPMismatch
	}

	// The GETDEL is the single-use gate: if the code vanished between the
	// check above and here, another reset already consumed it.
	if _, err := s.otpRepo.Consume(ctx, normalized); err != nil {
		if errors.Is(err, apperrors.ErrOTPNotFound) {
			return apperrors.ErrOTPMismatch
		}
		return err
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, normalized, hashedPassword)
}
