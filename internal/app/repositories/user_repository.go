package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suraj/version24/internal/app/models"
	"github.com/suraj/version24/internal/pkg/apperrors"
	"github.com/suraj/version24/internal/pkg/dberrors"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	SetEmailToken(ctx context.Context, userID int64, tokenHash string) error
	GetUserByEmailTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	ConfirmEmail(ctx context.Context, userID int64) error

	SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error
	ResetPasswordByTokenHash(ctx context.Context, tokenHash, newPasswordHash string) (bool, error)
	UpdatePassword(ctx context.Context, email, newPasswordHash string) error

	GetRegistrationsByUserID(ctx context.Context, userID int64) ([]models.EventRegistration, error)
	ListUsers(ctx context.Context, offset uint64, limit int) ([]models.User, int64, error)
	DeleteUsersByEmail(ctx context.Context, emails []string) (int64, error)
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = `id, email, name, password, mobile, university, rollno, role,
	is_email_confirmed, email_token, password_reset_token, password_reset_token_expiry,
	password_changed_at, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Password, &user.Mobile,
		&user.University, &user.RollNo, &user.Role, &user.IsEmailConfirmed,
		&user.EmailToken, &user.PasswordResetToken, &user.PasswordResetTokenExpiry,
		&user.PasswordChangedAt, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser creates a new user row. The unique index on email is the
// authoritative duplicate signal; the pre-check only produces a friendlier
// error without a round trip through the constraint machinery.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	exists, err := r.EmailExists(ctx, user.Email)
	if err != nil {
		return 0, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return 0, apperrors.ErrUserAlreadyExists
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, password, mobile, university, rollno, role, is_email_confirmed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		user.Email, user.Name, user.Password, user.Mobile, user.University,
		user.RollNo, user.Role, user.IsEmailConfirmed).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotExist
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotExist
		}
		return nil, fmt.Errorf("error getting user by id: %w", err)
	}
	return user, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// SetEmailToken stores the hash of a freshly minted confirmation token
func (r *UserRepository) SetEmailToken(ctx context.Context, userID int64, tokenHash string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET email_token = $1 WHERE id = $2`, tokenHash, userID)
	if err != nil {
		return fmt.Errorf("error storing email token: %w", err)
	}
	return nil
}

// GetUserByEmailTokenHash finds the user holding a confirmation token hash
func (r *UserRepository) GetUserByEmailTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_token = $1`, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error looking up email token: %w", err)
	}
	return user, nil
}

// ConfirmEmail marks the email confirmed and consumes the token in one statement
func (r *UserRepository) ConfirmEmail(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET is_email_confirmed = TRUE, email_token = NULL WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error confirming email: %w", err)
	}
	return nil
}

// SetPasswordResetToken stores the reset token hash and its expiry
func (r *UserRepository) SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_reset_token = $1, password_reset_token_expiry = $2
		WHERE id = $3`,
		tokenHash, expiry, userID)
	if err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}
	return nil
}

// ResetPasswordByTokenHash updates the password, clears the reset token and
// stamps password_changed_at as one atomic statement. Returns false when no
// row matched, i.e. the token is unknown or expired.
func (r *UserRepository) ResetPasswordByTokenHash(ctx context.Context, tokenHash, newPasswordHash string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password = $1,
		    password_reset_token = NULL,
		    password_reset_token_expiry = NULL,
		    password_changed_at = NOW()
		WHERE password_reset_token = $2
		  AND password_reset_token_expiry > NOW()`,
		newPasswordHash, tokenHash)
	if err != nil {
		return false, fmt.Errorf("error resetting password: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdatePassword stores a new password hash for the OTP reset path and stamps
// password_changed_at so older session tokens go stale.
func (r *UserRepository) UpdatePassword(ctx context.Context, email, newPasswordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password = $1, password_changed_at = NOW()
		WHERE email = $2`,
		newPasswordHash, email)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotExist
	}
	return nil
}

// GetRegistrationsByUserID lists a user's event registrations
func (r *UserRepository) GetRegistrationsByUserID(ctx context.Context, userID int64) ([]models.EventRegistration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, event_name, team_name, user_id, created_at
		FROM event_registrations
		WHERE user_id = $1
		ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	defer rows.Close()

	var regs []models.EventRegistration
	for rows.Next() {
		var reg models.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.EventName, &reg.TeamName, &reg.UserID, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// ListUsers returns a page of non-admin users plus the total count
func (r *UserRepository) ListUsers(ctx context.Context, offset uint64, limit int) ([]models.User, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role <> $1`, models.RoleAdmin).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	sql, args, err := r.sb.Select(
		"id", "email", "name", "mobile", "university", "rollno", "is_email_confirmed").
		From("users").
		Where(squirrel.NotEq{"role": models.RoleAdmin}).
		OrderBy("id").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Mobile,
			&user.University, &user.RollNo, &user.IsEmailConfirmed); err != nil {
			return nil, 0, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// DeleteUsersByEmail hard-deletes users; their registration rows go with them
// through the ON DELETE CASCADE on event_registrations.user_id.
func (r *UserRepository) DeleteUsersByEmail(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	sql, args, err := r.sb.Delete("users").
		Where(squirrel.Eq{"email": emails}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting users: %w", err)
	}
	return tag.RowsAffected(), nil
}
