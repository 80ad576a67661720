package ws

import (
	"encoding/json"
)

// События клиент -> сервер
const (
	EventJoinConversation         = "join_conversation"
	EventLeaveConversation        = "leave_conversation"
	EventSendMessage              = "send_message"
	EventTypingStart              = "typing_start"
	EventTypingStop               = "typing_stop"
	EventMarkMessagesRead         = "mark_messages_read"
	EventMarkNotificationRead     = "mark_notification_read"
	EventMarkAllNotificationsRead = "mark_all_notifications_read"
	EventGetNotificationCount     = "get_notification_count"
)

// События сервер -> клиент
const (
	EventNewMessage                 = "new_message"
	EventMessageSent                = "message_sent"
	EventMessageNotification        = "message_notification"
	EventMessageError               = "message_error"
	EventUserTyping                 = "user_typing"
	EventUserStoppedTyping          = "user_stopped_typing"
	EventMessagesRead               = "messages_read"
	EventMessagesMarkedRead         = "messages_marked_read"
	EventNewNotification            = "new_notification"
	EventNotificationCountUpdated   = "notification_count_updated"
	EventNotificationMarkedRead     = "notification_marked_read"
	EventAllNotificationsMarkedRead = "all_notifications_marked_read"
	EventNotificationError          = "notification_error"
)

// InboundEvent — конверт входящего события, payload разбирается обработчиком
type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Event — исходящее событие
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

func NewEvent(name string, data any) Event {
	return Event{Event: name, Data: data}
}

// Входящие payload'ы

type JoinConversationPayload struct {
	OtherUserID int64 `json:"otherUserId"`
}

type SendMessagePayload struct {
	Content    string `json:"content"`
	ReceiverID int64  `json:"receiverId"`
	ListingID  *int64 `json:"listingId,omitempty"`
}

type TypingPayload struct {
	ReceiverID int64 `json:"receiverId"`
}

type MarkMessagesReadPayload struct {
	FromUserID int64 `json:"fromUserId"`
}

// Исходящие payload'ы

type MessageNotificationPayload struct {
	SenderID   int64  `json:"senderId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	ListingID  *int64 `json:"listingId,omitempty"`
}

type MessageErrorPayload struct {
	Message string `json:"message"`
}

type TypingEventPayload struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName,omitempty"`
}

type MessagesReadPayload struct {
	ReadBy     int64  `json:"readBy"`
	ReadByName string `json:"readByName"`
	Count      int64  `json:"count"`
}

type MessagesMarkedReadPayload struct {
	Count int64 `json:"count"`
}

type NotificationCountPayload struct {
	UnreadCount int64 `json:"unreadCount"`
}

type AllNotificationsMarkedReadPayload struct {
	UpdatedCount int64 `json:"updatedCount"`
}

type NotificationErrorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
