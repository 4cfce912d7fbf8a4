package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suraj/version24/internal/pkg/apperrors"
)

const otpKeyPrefix = "otp:"

// IOTPRepository defines the interface for the ephemeral OTP store
type IOTPRepository interface {
	Save(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, email string) (string, error)
}

// OTPRepository stores short-lived OTP codes in Redis, keyed by email.
// A new code for the same email overwrites the old one.
type OTPRepository struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewOTPRepository creates a new OTPRepository
func NewOTPRepository(client *redis.Client, ttl time.Duration) *OTPRepository {
	return &OTPRepository{
		redis: client,
		ttl:   ttl,
	}
}

func (r *OTPRepository) key(email string) string {
	return otpKeyPrefix + email
}

// Save stores a code with the configured TTL, replacing any prior code
func (r *OTPRepository) Save(ctx context.Context, email, code string) error {
	if err := r.redis.Set(ctx, r.key(email), code, r.ttl).Err(); err != nil {
		return fmt.Errorf("error storing otp: %w", err)
	}
	return nil
}

// Get returns the current code without consuming it
func (r *OTPRepository) Get(ctx context.Context, email string) (string, error) {
	code, err := r.redis.Get(ctx, r.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrOTPNotFound
		}
		return "", fmt.Errorf("error reading otp: %w", err)
	}
	return code, nil
}

// Consume atomically reads and deletes the code, so a code that completed a
// password reset cannot be replayed.
func (r *OTPRepository) Consume(ctx context.Context, email string) (string, error) {
	code, err := r.redis.GetDel(ctx, r.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrOTPNotFound
		}
		return "", fmt.Errorf("error consuming otp: %w", err)
	}
	return code, nil
}
