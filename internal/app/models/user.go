package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                       int64      `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email                    string     `json:"email" db:"email" example:"alice@nitjsr.ac.in"`            // User's email address (unique)
	Name                     string     `json:"name" db:"name" example:"Alice Kumar"`                     // Display name
	Password                 string     `json:"-" db:"password"`                                          // Hashed password (excluded from JSON)
	Mobile                   string     `json:"mobile" db:"mobile" example:"9876543210"`                  // 10 digit mobile number
	University               string     `json:"university" db:"university" example:"NIT Jamshedpur"`      // University / affiliation
	RollNo                   string     `json:"rollno" db:"rollno" example:"2021UGCS001"`                 // Roll number
	Role                     RoleType   `json:"role" db:"role" example:"student"`                         // User's role (student or admin)
	IsEmailConfirmed         bool       `json:"isEmailConfirmed" db:"is_email_confirmed" example:"false"` // Whether the email has been confirmed
	EmailToken               *string    `json:"-" db:"email_token"`                                       // SHA-256 hash of the confirmation token, cleared on use
	PasswordResetToken       *string    `json:"-" db:"password_reset_token"`                              // SHA-256 hash of the reset token
	PasswordResetTokenExpiry *time.Time `json:"-" db:"password_reset_token_expiry"`                       // Reset token expiry
	PasswordChangedAt        *time.Time `json:"-" db:"password_changed_at"`                               // Set on every password reset, invalidates older sessions
	CreatedAt                time.Time  `json:"-" db:"created_at"`
}

// PasswordChangedAfter reports whether the password was changed after the
// given unix timestamp. Session tokens issued before the change are stale.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}
