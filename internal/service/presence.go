package service

import (
	"context"
	"time"

	"marketplace/internal/repository"
	"marketplace/pkg/logger"
)

// PresenceService обновляет отметку last seen пользователя.
// Обновление best-effort: выполняется в отдельной горутине, ошибка
// логируется и никогда не влияет на само соединение.
type PresenceService interface {
	Touch(userID int64)
}

type presenceService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewPresenceService(userRepo repository.UserRepository, log logger.Logger) PresenceService {
	return &presenceService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *presenceService) Touch(userID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.userRepo.UpdateLastSeen(ctx, userID, time.Now()); err != nil {
			s.log.Warn("Failed to update presence", "user_id", userID, "error", err)
		}
	}()
}
