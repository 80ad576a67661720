package service

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/ws"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

// NotificationService — диспетчер уведомлений. Realtime-доставка безусловна;
// настройки пользователя управляют только асинхронным email-каналом.
// После каждой мутации рассылается актуальный счётчик непрочитанных,
// пересчитанный из хранилища.
type NotificationService interface {
	Create(ctx context.Context, userID int64, typ domain.NotificationType, title, message string, data json.RawMessage) (*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	broadcaster      Broadcaster
	email            EmailService
	log              logger.Logger
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
	email EmailService,
	log logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
		email:            email,
		log:              log,
	}
}

func (s *notificationService) Create(ctx context.Context, userID int64, typ domain.NotificationType, title, message string, data json.RawMessage) (*domain.Notification, error) {
	notification := &domain.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		Read:      false,
		CreatedAt: time.Now(),
	}

	// Сначала персистентность, потом любые рассылки
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	s.broadcaster.ToUser(userID, ws.NewEvent(ws.EventNewNotification, notification))
	s.broadcastCount(ctx, userID)

	// Решение об email не блокирует и не влияет на realtime-доставку
	go s.maybeSendEmail(userID, notification)

	return notification, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID int64) error {
	affected, err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	// Чужое или несуществующее уведомление неотличимы для вызывающего
	if affected == 0 {
		return apperrors.ErrNotificationNotFound
	}

	s.broadcastCount(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	// Счётчик рассылается безусловно, даже если ничего не изменилось:
	// все открытые клиенты должны сойтись на нуле
	s.broadcaster.ToUser(userID, ws.NewEvent(ws.EventNotificationCountUpdated,
		ws.NotificationCountPayload{UnreadCount: 0}))

	return count, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// broadcastCount пересчитывает счётчик из хранилища и рассылает его во все
// соединения пользователя. Счётчик никогда не кешируется между запросами.
func (s *notificationService) broadcastCount(ctx context.Context, userID int64) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		s.log.Error("Failed to recompute unread count", "user_id", userID, "error", err)
		return
	}

	s.broadcaster.ToUser(userID, ws.NewEvent(ws.EventNotificationCountUpdated,
		ws.NotificationCountPayload{UnreadCount: count}))
}

func (s *notificationService) maybeSendEmail(userID int64, notification *domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := s.notificationRepo.GetSettings(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load notification settings", "user_id", userID, "error", err)
		return
	}

	if !settings.EmailEnabled(notification.Type) {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to resolve email recipient", "user_id", userID, "error", err)
		return
	}

	s.email.Enqueue(user.Email, notification.Title, notification.Message)
}
