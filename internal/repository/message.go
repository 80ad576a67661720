package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/internal/domain"
	"marketplace/pkg/logger"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// MarkConversationRead переводит unread -> read все сообщения от senderID
	// к receiverID и возвращает число затронутых строк. Обратного перехода нет.
	MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (content, sender_id, receiver_id, listing_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.Content, message.SenderID, message.ReceiverID,
		message.ListingID, message.Read, message.CreatedAt,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create message", "error", err,
			"sender_id", message.SenderID, "receiver_id", message.ReceiverID)
		return err
	}

	return nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error) {
	query := `
		UPDATE messages
		SET read = true
		WHERE sender_id = $1 AND receiver_id = $2 AND read = false
	`

	tag, err := r.db.Exec(ctx, query, senderID, receiverID)
	if err != nil {
		r.log.Error("Failed to mark messages read", "error", err,
			"sender_id", senderID, "receiver_id", receiverID)
		return 0, err
	}

	return tag.RowsAffected(), nil
}
