package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/ws"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

const previewMaxLen = 120

// MessageService — обмен личными сообщениями. Персистентность строго
// предшествует любой рассылке: при ошибке записи ничего не рассылается.
type MessageService interface {
	Send(ctx context.Context, sender ws.Identity, content string, receiverID int64, listingID *int64) (*domain.Message, error)
	MarkRead(ctx context.Context, caller ws.Identity, fromUserID int64) (int64, error)
	Typing(sender ws.Identity, receiverID int64, typing bool)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	broadcaster Broadcaster
	notifier    NotificationService
	log         logger.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	broadcaster Broadcaster,
	notifier NotificationService,
	log logger.Logger,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		broadcaster: broadcaster,
		notifier:    notifier,
		log:         log,
	}
}

func (s *messageService) Send(ctx context.Context, sender ws.Identity, content string, receiverID int64, listingID *int64) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrEmptyContent
	}
	if receiverID == sender.UserID {
		return nil, apperrors.ErrSelfMessage
	}

	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrReceiverNotFound
		}
		return nil, err
	}

	if listingID != nil {
		exists, err := s.listingRepo.Exists(ctx, *listingID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrListingNotFound
		}
	}

	message := &domain.Message{
		Content:      content,
		SenderID:     sender.UserID,
		ReceiverID:   receiverID,
		ListingID:    listingID,
		Read:         false,
		CreatedAt:    time.Now(),
		SenderName:   sender.Name,
		ReceiverName: receiver.DisplayName,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	// Порядок рассылки: комната диалога, персональная комната получателя,
	// подтверждение отправителю
	room := ws.ConversationRoom(sender.UserID, receiverID)
	s.broadcaster.ToRoom(room, ws.NewEvent(ws.EventNewMessage, message))

	s.broadcaster.ToUser(receiverID, ws.NewEvent(ws.EventMessageNotification,
		ws.MessageNotificationPayload{
			SenderID:   sender.UserID,
			SenderName: sender.Name,
			Content:    preview(content),
			ListingID:  listingID,
		}))

	s.broadcaster.ToConn(sender.ConnID, ws.NewEvent(ws.EventMessageSent, message))

	// Персистентное уведомление получателю; его сбой не отменяет отправку
	data, _ := json.Marshal(map[string]any{
		"senderId":  sender.UserID,
		"messageId": message.ID,
	})
	if _, err := s.notifier.Create(ctx, receiverID, domain.NotificationNewMessage,
		fmt.Sprintf("New message from %s", sender.Name), preview(content), data); err != nil {
		s.log.Warn("Failed to create message notification",
			"receiver_id", receiverID, "error", err)
	}

	return message, nil
}

func (s *messageService) MarkRead(ctx context.Context, caller ws.Identity, fromUserID int64) (int64, error) {
	count, err := s.messageRepo.MarkConversationRead(ctx, fromUserID, caller.UserID)
	if err != nil {
		return 0, err
	}

	// Все соединения исходного отправителя узнают, что его сообщения прочитаны
	s.broadcaster.ToUser(fromUserID, ws.NewEvent(ws.EventMessagesRead,
		ws.MessagesReadPayload{
			ReadBy:     caller.UserID,
			ReadByName: caller.Name,
			Count:      count,
		}))

	s.broadcaster.ToConn(caller.ConnID, ws.NewEvent(ws.EventMessagesMarkedRead,
		ws.MessagesMarkedReadPayload{Count: count}))

	return count, nil
}

// Typing ретранслирует эфемерный индикатор набора текста всем участникам
// комнаты диалога, кроме самого отправителя. Ничего не персистится.
func (s *messageService) Typing(sender ws.Identity, receiverID int64, typing bool) {
	event := ws.EventUserTyping
	if !typing {
		event = ws.EventUserStoppedTyping
	}

	room := ws.ConversationRoom(sender.UserID, receiverID)
	s.broadcaster.ToRoomExcept(room, sender.ConnID, ws.NewEvent(event,
		ws.TypingEventPayload{UserID: sender.UserID, UserName: sender.Name}))
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewMaxLen {
		return content
	}

	runes := []rune(content)
	return string(runes[:previewMaxLen]) + "…"
}
