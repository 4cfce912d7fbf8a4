package repositories

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository  *UserRepository
	EventRepository *EventRepository
	OTPRepository   *OTPRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool, redisClient *redis.Client, otpTTL time.Duration) *Repositories {
	return &Repositories{
		UserRepository:  NewUserRepository(db),
		EventRepository: NewEventRepository(db),
		OTPRepository:   NewOTPRepository(redisClient, otpTTL),
	}
}
