package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/internal/domain"
	"marketplace/pkg/logger"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
	// MarkRead переводит уведомление в read только если оно принадлежит userID.
	// Возвращает число затронутых строк (0 — не найдено или чужое).
	MarkRead(ctx context.Context, id, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	// GetSettings лениво создаёт настройки с разрешающими значениями по умолчанию
	GetSettings(ctx context.Context, userID int64) (*domain.NotificationSettings, error)
}

type notificationRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, log logger.Logger) NotificationRepository {
	return &notificationRepository{db: db, log: log}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message, data, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		notification.UserID, notification.Type, notification.Title,
		notification.Message, notification.Data, notification.Read, notification.CreatedAt,
	).Scan(&notification.ID, &notification.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create notification", "error", err,
			"user_id", notification.UserID, "type", notification.Type)
		return err
	}

	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count unread notifications", "error", err, "user_id", userID)
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) (int64, error) {
	query := `
		UPDATE notifications
		SET read = true
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to mark notification read", "error", err,
			"notification_id", id, "user_id", userID)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE notifications
		SET read = true
		WHERE user_id = $1 AND read = false
	`

	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to mark all notifications read", "error", err, "user_id", userID)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepository) GetSettings(ctx context.Context, userID int64) (*domain.NotificationSettings, error) {
	// Разрешающие значения по умолчанию создаются при первом обращении
	query := `
		INSERT INTO notification_settings (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, email_new_message, email_search_match, email_listing_inquiry,
		          email_listing_favorited, email_report_resolved, email_weekly_digest,
		          created_at, updated_at
	`

	settings := &domain.NotificationSettings{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&settings.UserID, &settings.EmailNewMessage, &settings.EmailSearchMatch,
		&settings.EmailListingInquiry, &settings.EmailListingFavorited,
		&settings.EmailReportResolved, &settings.EmailWeeklyDigest,
		&settings.CreatedAt, &settings.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to get notification settings", "error", err, "user_id", userID)
		return nil, err
	}

	return settings, nil
}
