package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/pkg/apperrors"
	"github.com/suraj/version24/internal/pkg/auth"
)

func newTestAuthService() (AuthService, *fakeUserRepo, *fakeOTPRepo, *fakeEmailService) {
	userRepo := newFakeUserRepo()
	otpRepo := newFakeOTPRepo()
	emailSvc := &fakeEmailService{}
	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "version24.test",
	})
	svc := NewAuthService(userRepo, otpRepo, jwtSvc, emailSvc, zerolog.Nop())
	return svc, userRepo, otpRepo, emailSvc
}

func validSignup() *dto.SignupRequest {
	return &dto.SignupRequest{
		Name:       "Suraj Soren",
		Email:      "suraj@example.com",
		Password:   "longenough",
		Mobile:     "9876543210",
		University: "IIEST Shibpur",
		RollNo:     "2021CS042",
	}
}

func TestSignup_StoresHashesNotSecrets(t *testing.T) {
	svc, userRepo, _, emailSvc := newTestAuthService()

	resp, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.True(t, resp.EmailSent)
	assert.False(t, resp.User.IsEmailConfirmed)

	stored, err := userRepo.GetUserByEmail(context.Background(), "suraj@example.com")
	require.NoError(t, err)

	// Password is stored as a bcrypt hash.
	assert.NotEqual(t, "longenough", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "longenough"))

	// Only the hash of the mailed token is persisted.
	require.Len(t, emailSvc.confirmSent, 1)
	rawToken := emailSvc.confirmSent[0]
	require.NotNil(t, stored.EmailToken)
	assert.NotEqual(t, rawToken, *stored.EmailToken)
	assert.Equal(t, auth.HashToken(rawToken), *stored.EmailToken)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), validSignup())
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
}

func TestSignup_EmailFailureIsNonFatal(t *testing.T) {
	svc, userRepo, _, emailSvc := newTestAuthService()
	emailSvc.fail = true

	resp, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	assert.False(t, resp.EmailSent)

	// The account exists despite the failed dispatch.
	_, err = userRepo.GetUserByEmail(context.Background(), "suraj@example.com")
	assert.NoError(t, err)
}

func TestSignup_RejectsBadMobile(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	req := validSignup()
	req.Mobile = "12345"

	_, err := svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestConfirmEmail_ConsumesToken(t *testing.T) {
	svc, userRepo, _, emailSvc := newTestAuthService()

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	rawToken := emailSvc.confirmSent[0]

	require.NoError(t, svc.ConfirmEmail(context.Background(), rawToken))

	stored, err := userRepo.GetUserByEmail(context.Background(), "suraj@example.com")
	require.NoError(t, err)
	assert.True(t, stored.IsEmailConfirmed)
	assert.Nil(t, stored.EmailToken)

	// The token was deleted on use, so a replay misses.
	err = svc.ConfirmEmail(context.Background(), rawToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestConfirmEmail_UnknownToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	err := svc.ConfirmEmail(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestLogin_RequiresConfirmedEmail(t *testing.T) {
	svc, _, _, emailSvc := newTestAuthService()

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	login := &dto.LoginRequest{Email: "suraj@example.com", Password: "longenough"}

	// Correct credentials, unconfirmed email: no token is issued.
	_, token, _, err := svc.Login(context.Background(), login)
	assert.ErrorIs(t, err, apperrors.ErrEmailNotConfirmed)
	assert.Empty(t, token)

	require.NoError(t, svc.ConfirmEmail(context.Background(), emailSvc.confirmSent[0]))

	resp, token, expiresIn, err := svc.Login(context.Background(), login)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3600, expiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "suraj@example.com", resp.User.Email)
	assert.Empty(t, resp.User.Mobile)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "suraj@example.com", Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, apperrors.ErrPasswordIncorrect)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	_, _, _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@example.com", Password: "whatever1",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotExist)
}

func TestResetPassword_TokenRoundTrip(t *testing.T) {
	svc, userRepo, _, emailSvc := newTestAuthService()

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "suraj@example.com"))
	require.Len(t, emailSvc.resetSent, 1)
	rawToken := emailSvc.resetSent[0]

	// Only the hash lives on the user row.
	stored, _ := userRepo.GetUserByEmail(context.Background(), "suraj@example.com")
	require.NotNil(t, stored.PasswordResetToken)
	assert.Equal(t, auth.HashToken(rawToken), *stored.PasswordResetToken)

	require.NoError(t, svc.ResetPassword(context.Background(), rawToken, "brandnewpass"))

	stored, _ = userRepo.GetUserByEmail(context.Background(), "suraj@example.com")
	assert.True(t, auth.CheckPassword(stored.Password, "brandnewpass"))
	assert.Nil(t, stored.PasswordResetToken)
	assert.NotNil(t, stored.PasswordChangedAt)

	// The token cleared with the update; a second presentation fails.
	err = svc.ResetPassword(context.Background(), rawToken, "anotherpass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestResetPassword_UnknownToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	err := svc.ResetPassword(context.Background(), "bogus", "brandnewpass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestRequestPasswordReset_UnknownUser(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotExist)
}

func TestOTPFlow(t *testing.T) {
	svc, userRepo, otpRepo, emailSvc := newTestAuthService()

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	require.NoError(t, svc.GenerateOTP(context.Background(), "suraj@example.com"))
	require.Len(t, emailSvc.otpSent, 1)
	code := emailSvc.otpSent[0]

	// Verify does not consume.
	require.NoError(t, svc.VerifyOTP(context.Background(), "suraj@example.com", code))
	require.NoError(t, svc.VerifyOTP(context.Background(), "suraj@example.com", code))

	assert.ErrorIs(t, svc.VerifyOTP(context.Background(), "suraj@example.com", "000000"),
		apperrors.ErrOTPMismatch)

	require.NoError(t, svc.ResetPasswordWithOTP(context.Background(), "suraj@example.com", "freshpassword", code))

	stored, _ := userRepo.GetUserByEmail(context.Background(), "suraj@example.com")
	assert.True(t, auth.CheckPassword(stored.Password, "freshpassword"))
	assert.NotNil(t, stored.PasswordChangedAt)

	// The code was consumed by the successful reset.
	_, err = otpRepo.Get(context.Background(), "suraj@example.com")
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
	err = svc.ResetPasswordWithOTP(context.Background(), "suraj@example.com", "yetanotherpw", code)
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestResetPasswordWithOTP_LostConsumeRace(t *testing.T) {
	svc, userRepo, otpRepo, emailSvc := newTestAuthService()

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	require.NoError(t, svc.GenerateOTP(context.Background(), "suraj@example.com"))
	code := emailSvc.otpSent[0]

	// A competing reset wins the consume between the code check and the
	// delete. This request must fail, not complete with a stale code.
	otpRepo.beforeConsume = func(codes map[string]string) {
		delete(codes, "suraj@example.com")
	}

	err = svc.ResetPasswordWithOTP(context.Background(), "suraj@example.com", "freshpassword", code)
	assert.ErrorIs(t, err, apperrors.ErrOTPMismatch)

	// The password is untouched.
	stored, _ := userRepo.GetUserByEmail(context.Background(), "suraj@example.com")
	assert.True(t, auth.CheckPassword(stored.Password, "longenough"))
	assert.Nil(t, stored.PasswordChangedAt)
}

func TestGenerateOTP_OverwritesPrevious(t *testing.T) {
	svc, _, otpRepo, emailSvc := newTestAuthService()

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	require.NoError(t, svc.GenerateOTP(context.Background(), "suraj@example.com"))
	require.NoError(t, svc.GenerateOTP(context.Background(), "suraj@example.com"))
	require.Len(t, emailSvc.otpSent, 2)

	current, err := otpRepo.Get(context.Background(), "suraj@example.com")
	require.NoError(t, err)
	assert.Equal(t, emailSvc.otpSent[1], current)
}
