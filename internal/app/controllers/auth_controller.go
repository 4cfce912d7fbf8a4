// Package controllers handles HTTP request handling
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

// AuthController handles authentication related operations
type AuthController struct {
	authService  services.AuthService
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController. cookieSecure marks the
// session cookie Secure; it is on in production mode.
func NewAuthController(authService services.AuthService, cookieSecure bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Signup handles user registration
// @Summary Register a new account
// @Description Creates an unconfirmed account and emails a confirmation link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=dto.SignupResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or email already registered"
// @Router /signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("email", req.Email).Bool("emailSent", resp.EmailSent).Msg("Account created")
	ctx.JSON(http.StatusCreated, dto.NewDataResponse(resp))
}

// ConfirmEmail handles the confirmation link
// @Summary Confirm an email address
// @Description Consumes the confirmation token mailed at signup.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ConfirmEmailRequest true "Raw confirmation token"
// @Success 200 {object} dto.APIResponse "Email confirmed"
// @Failure 401 {object} dto.ErrorResponse "Invalid token"
// @Router /confirmemail [post]
func (c *AuthController) ConfirmEmail(ctx *gin.Context) {
	var req dto.ConfirmEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// The link hands the token over as a query parameter.
		if token := ctx.Query("token"); token != "" {
			req.Token = token
		} else {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}
	}

	if err := c.authService.ConfirmEmail(ctx.Request.Context(), req.Token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Email confirmed."))
}

// Login handles user login
// @Summary Log in
// @Description Verifies credentials and sets the jwt session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Logged in"
// @Failure 400 {object} dto.ErrorResponse "Incorrect password"
// @Failure 403 {object} dto.ErrorResponse "Email not confirmed"
// @Failure 404 {object} dto.ErrorResponse "User does not exist"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, token, expiresIn, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, token, expiresIn, "/", "", c.cookieSecure, true)

	c.logger.Info().Str("email", req.Email).Msg("User logged in")
	ctx.JSON(http.StatusOK, dto.NewDataResponse(resp))
}

// Logout clears the session cookie
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", c.cookieSecure, true)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Logged out."))
}

// ForgetPassword starts the reset-link flow
// @Summary Request a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgetPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse "Reset link sent"
// @Failure 404 {object} dto.ErrorResponse "User does not exist"
// @Router /forgetpassword [post]
func (c *AuthController) ForgetPassword(ctx *gin.Context) {
	var req dto.ForgetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Password reset link sent to your email."))
}

// ResetPassword finishes a reset, via link token or via email+OTP
// @Summary Reset the password
// @Description Accepts either the mailed reset token or the email plus OTP.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset credentials and new password"
// @Success 200 {object} dto.APIResponse "Password updated"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired token/OTP"
// @Router /resetpassword [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	if req.ResetToken == "" {
		req.ResetToken = ctx.Query("token")
	}

	var err error
	switch {
	case req.ResetToken != "":
		err = c.authService.ResetPassword(ctx.Request.Context(), req.ResetToken, req.NewPassword)
	case req.Email != "" && req.OTP != "":
		err = c.authService.ResetPasswordWithOTP(ctx.Request.Context(), req.Email, req.NewPassword, req.OTP)
	default:
		err = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Either resetToken or email and otp are required.")
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Password updated. Please log in again."))
}

// GenerateOTP mails a one-time code
// @Summary Generate a password reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GenerateOTPRequest true "Account email"
// @Success 200 {object} dto.APIResponse "OTP sent"
// @Failure 404 {object} dto.ErrorResponse "User does not exist"
// @Router /generateotp [post]
func (c *AuthController) GenerateOTP(ctx *gin.Context) {
	var req dto.GenerateOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.GenerateOTP(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("OTP sent to your email."))
}

// VerifyOTP checks a code without consuming it
// @Summary Verify a password reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email and code"
// @Success 200 {object} dto.APIResponse "OTP valid"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired OTP"
// @Router /verifyotp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.VerifyOTP(ctx.Request.Context(), req.Email, req.OTP); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("OTP verified."))
}

// IsAuthenticated reports whether the session cookie is valid
// @Summary Check session validity
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Session valid"
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Router /isauthenticated [get]
func (c *AuthController) IsAuthenticated(ctx *gin.Context) {
	// SessionAuth already vetted the token; reaching here means authenticated.
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "authenticated": true, "email": ctx.GetString(middleware.ContextEmail)})
}
