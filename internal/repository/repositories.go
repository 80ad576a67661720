package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"marketplace/pkg/logger"
)

type Repositories struct {
	User         UserRepository
	Listing      ListingRepository
	Message      MessageRepository
	Notification NotificationRepository
	EmailQueue   EmailQueueRepository
	RateLimit    RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db, log),
		Listing:      NewListingRepository(db, log),
		Message:      NewMessageRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		EmailQueue:   NewEmailQueueRepository(redis, log),
		RateLimit:    NewRateLimitRepository(redis, log),
	}
}
