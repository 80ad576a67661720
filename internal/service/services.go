package service

import (
	"marketplace/internal/config"
	"marketplace/internal/repository"
	"marketplace/pkg/logger"
)

type Services struct {
	Auth         AuthService
	Message      MessageService
	Notification NotificationService
	Presence     PresenceService
	Email        EmailService
	RateLimit    RateLimitService
}

// NewServices собирает сервисный слой. Broadcaster передаётся явно,
// чтобы в тестах его можно было подменить без глобального состояния.
func NewServices(repos *repository.Repositories, cfg *config.Config, broadcaster Broadcaster, log logger.Logger) *Services {
	email := NewEmailService(repos.EmailQueue, cfg.SMTP, log)
	notification := NewNotificationService(repos.Notification, repos.User, broadcaster, email, log)

	return &Services{
		Auth:         NewAuthService(repos.User, cfg.JWT, log),
		Message:      NewMessageService(repos.Message, repos.User, repos.Listing, broadcaster, notification, log),
		Notification: notification,
		Presence:     NewPresenceService(repos.User, log),
		Email:        email,
		RateLimit:    NewRateLimitService(repos.RateLimit, log),
	}
}
