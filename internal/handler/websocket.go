package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"marketplace/internal/service"
	"marketplace/internal/ws"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

type WebSocketHandler struct {
	auth          service.AuthService
	messages      service.MessageService
	notifications service.NotificationService
	presence      service.PresenceService
	hub           *ws.Hub
	log           logger.Logger
}

func NewWebSocketHandler(
	auth service.AuthService,
	messages service.MessageService,
	notifications service.NotificationService,
	presence service.PresenceService,
	hub *ws.Hub,
	log logger.Logger,
) *WebSocketHandler {
	return &WebSocketHandler{
		auth:          auth,
		messages:      messages,
		notifications: notifications,
		presence:      presence,
		hub:           hub,
		log:           log,
	}
}

// HandleConnection аутентифицирует рукопожатие и обслуживает соединение.
// Отказ происходит до апгрейда: никакие комнаты и обработчики не
// регистрируются для неаутентифицированного клиента.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth token required"})
		return
	}

	user, err := h.auth.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := ws.NewClient(conn, user.ID, user.DisplayName, h.log)
	h.hub.Register(client)
	h.presence.Touch(user.ID)

	go client.WritePump()

	// Терминальный хук: одна точка выхода для любого вида разрыва
	// (штатное закрытие, обрыв сети, остановка сервера)
	defer h.teardown(client)

	for {
		ev, err := client.ReadEvent()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("Connection closed", "conn_id", client.ID(), "error", err)
			}
			return
		}
		h.dispatch(client, ev)
	}
}

func (h *WebSocketHandler) teardown(client *ws.Client) {
	if h.hub.Unregister(client) {
		h.presence.Touch(client.UserID())
	}
}

func (h *WebSocketHandler) dispatch(client *ws.Client, ev ws.InboundEvent) {
	// Неожиданная паника обработчика не должна ронять соединение
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("Panic in event handler", "event", ev.Event, "conn_id", client.ID(), "panic", r)
			h.hub.ToConn(client.ID(), ws.NewEvent(ws.EventMessageError,
				ws.MessageErrorPayload{Message: "internal error"}))
		}
	}()

	ctx := context.Background()

	switch ev.Event {
	case ws.EventJoinConversation:
		var p ws.JoinConversationPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			h.log.Warn("Malformed join payload", "conn_id", client.ID(), "error", err)
			return
		}
		h.hub.Join(client, ws.ConversationRoom(client.UserID(), p.OtherUserID))

	case ws.EventLeaveConversation:
		var p ws.JoinConversationPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			h.log.Warn("Malformed leave payload", "conn_id", client.ID(), "error", err)
			return
		}
		h.hub.Leave(client, ws.ConversationRoom(client.UserID(), p.OtherUserID))

	case ws.EventSendMessage:
		var p ws.SendMessagePayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			h.messageError(client, apperrors.ErrBadRequest)
			return
		}
		if _, err := h.messages.Send(ctx, client.Identity(), p.Content, p.ReceiverID, p.ListingID); err != nil {
			h.messageError(client, err)
		}

	case ws.EventTypingStart, ws.EventTypingStop:
		var p ws.TypingPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			h.log.Warn("Malformed typing payload", "conn_id", client.ID(), "error", err)
			return
		}
		h.messages.Typing(client.Identity(), p.ReceiverID, ev.Event == ws.EventTypingStart)

	case ws.EventMarkMessagesRead:
		var p ws.MarkMessagesReadPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			h.messageError(client, apperrors.ErrBadRequest)
			return
		}
		if _, err := h.messages.MarkRead(ctx, client.Identity(), p.FromUserID); err != nil {
			h.messageError(client, err)
		}

	case ws.EventMarkNotificationRead:
		var id int64
		if err := json.Unmarshal(ev.Data, &id); err != nil {
			h.notificationError(client, "invalid notification id", err)
			return
		}
		if err := h.notifications.MarkRead(ctx, id, client.UserID()); err != nil {
			h.notificationError(client, "failed to mark notification as read", err)
			return
		}
		h.hub.ToConn(client.ID(), ws.NewEvent(ws.EventNotificationMarkedRead, id))

	case ws.EventMarkAllNotificationsRead:
		count, err := h.notifications.MarkAllRead(ctx, client.UserID())
		if err != nil {
			h.notificationError(client, "failed to mark notifications as read", err)
			return
		}
		h.hub.ToConn(client.ID(), ws.NewEvent(ws.EventAllNotificationsMarkedRead,
			ws.AllNotificationsMarkedReadPayload{UpdatedCount: count}))

	case ws.EventGetNotificationCount:
		count, err := h.notifications.UnreadCount(ctx, client.UserID())
		if err != nil {
			h.notificationError(client, "failed to get notification count", err)
			return
		}
		h.hub.ToConn(client.ID(), ws.NewEvent(ws.EventNotificationCountUpdated,
			ws.NotificationCountPayload{UnreadCount: count}))

	default:
		h.log.Warn("Unknown event", "event", ev.Event, "conn_id", client.ID())
	}
}

// messageError отправляет scoped-ошибку только инициатору; соединение живёт дальше
func (h *WebSocketHandler) messageError(client *ws.Client, err error) {
	msg := "failed to send message"
	if apperrors.HTTPStatusFromError(err) != http.StatusInternalServerError {
		msg = err.Error()
	} else {
		h.log.Error("Message operation failed", "conn_id", client.ID(), "error", err)
	}

	h.hub.ToConn(client.ID(), ws.NewEvent(ws.EventMessageError,
		ws.MessageErrorPayload{Message: msg}))
}

func (h *WebSocketHandler) notificationError(client *ws.Client, msg string, err error) {
	h.hub.ToConn(client.ID(), ws.NewEvent(ws.EventNotificationError,
		ws.NotificationErrorPayload{Message: msg, Error: err.Error()}))
}

func bearerToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}

	// Браузерный WebSocket не умеет выставлять свои заголовки,
	// но для остальных клиентов поддерживаем Authorization
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
