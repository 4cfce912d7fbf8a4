package dto

// SignupRequest represents a new account registration
type SignupRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8,max=100"`
	Mobile     string `json:"mobile" binding:"required,len=10,numeric"`
	University string `json:"university" binding:"required,min=1,max=100"`
	RollNo     string `json:"rollno" binding:"required,min=1,max=15"`
}

// SignupResponse is returned after a successful signup. EmailSent is false
// when the confirmation mail could not be dispatched; the account still exists
// and confirmation can be re-triggered.
type SignupResponse struct {
	User      *UserResponse `json:"user"`
	EmailSent bool          `json:"emailSent"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

// LoginResponse carries the authenticated user; the session token itself
// travels in the jwt cookie.
type LoginResponse struct {
	User *UserResponse `json:"user"`
}

// ConfirmEmailRequest carries the raw confirmation token from the email link
type ConfirmEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForgetPasswordRequest starts the reset-link flow
type ForgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest finishes a password reset. Either ResetToken (link
// flow) or Email+OTP (code flow) must be present.
type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken,omitempty"`
	Email       string `json:"email,omitempty"`
	OTP         string `json:"otp,omitempty"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=100"`
}

// GenerateOTPRequest starts the OTP reset flow
type GenerateOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest checks a previously generated code
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}
