package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for outbound mail
type EmailService interface {
	SendConfirmationEmail(toEmail, toName, rawToken string) error
	SendPasswordResetEmail(toEmail, toName, rawToken string) error
	SendOTPEmail(toEmail, toName, code string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string // Base URL embedded in confirmation/reset links
}

// EmailServiceImpl implements EmailService over plain SMTP
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendConfirmationEmail sends the account confirmation link. The raw token
// appears only here; the server keeps its hash.
func (s *EmailServiceImpl) SendConfirmationEmail(toEmail, toName, rawToken string) error {
	confirmationURL := fmt.Sprintf("%s/confirmemail?token=%s", s.config.BaseURL, rawToken)

	if s.devFallback(toEmail, "confirmation", confirmationURL) {
		return nil
	}

	subject := "Email Confirmation - Version24"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to Version24!</h2>
				<p>Hello %s,</p>
				<p>Thank you for signing up. To complete your registration, please confirm your email address:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Confirm Email</a>
				</div>
				<p>If you did not create a Version24 account, please ignore this email.</p>
				<p>Best regards,<br>The Version24 Team</p>
			</div>
		</body>
		</html>
	`, firstName(toName), confirmationURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends the reset link; the link expires in 10 minutes.
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, rawToken string) error {
	resetURL := fmt.Sprintf("%s/resetpassword?token=%s", s.config.BaseURL, rawToken)

	if s.devFallback(toEmail, "password reset", resetURL) {
		return nil
	}

	subject := "Reset Your Password - Version24"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Password Reset</h2>
				<p>Hello %s,</p>
				<p>We received a request to reset your password. This link is valid for 10 minutes:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>
				<p>If you did not request a reset, you can safely ignore this email.</p>
				<p>Best regards,<br>The Version24 Team</p>
			</div>
		</body>
		</html>
	`, firstName(toName), resetURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendOTPEmail sends the six-digit one-time code for the OTP reset path
func (s *EmailServiceImpl) SendOTPEmail(toEmail, toName, code string) error {
	if s.devFallback(toEmail, "otp", code) {
		return nil
	}

	subject := "Your One-Time Code - Version24"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">One-Time Code</h2>
				<p>Hello %s,</p>
				<p>Use this code to reset your password:</p>
				<p style="text-align: center; font-size: 32px; letter-spacing: 8px; font-weight: bold;">%s</p>
				<p>If you did not request a code, you can safely ignore this email.</p>
				<p>Best regards,<br>The Version24 Team</p>
			</div>
		</body>
		</html>
	`, firstName(toName), code)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// devFallback logs the payload instead of sending when SMTP credentials are
// not configured, so the flows stay testable in development.
func (s *EmailServiceImpl) devFallback(toEmail, kind, payload string) bool {
	if s.config.Username != "" && s.config.Password != "" {
		return false
	}

	s.logger.Warn().
		Str("toEmail", toEmail).
		Str("kind", kind).
		Str("payload", payload).
		Msg("SMTP credentials not configured - email not sent. Use the payload above for testing.")
	return true
}

func firstName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		err := smtp.SendMail(
			serverAddress,
			auth,
			s.config.FromEmail,
			[]string{toEmail},
			[]byte(message),
		)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
	}

	conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create SMTP client")
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}
