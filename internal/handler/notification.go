package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/service"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

// NotificationHandler — HTTP-вход диспетчера уведомлений для внутренней
// доменной логики (избранное, модерация, дайджесты). Контракт тот же,
// что и у socket-слоя.
type NotificationHandler struct {
	notifications service.NotificationService
	log           logger.Logger
}

func NewNotificationHandler(notifications service.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		log:           log,
	}
}

type createNotificationRequest struct {
	UserID  int64                   `json:"user_id" binding:"required"`
	Type    domain.NotificationType `json:"type" binding:"required"`
	Title   string                  `json:"title" binding:"required"`
	Message string                  `json:"message" binding:"required"`
	Data    json.RawMessage         `json:"data,omitempty"`
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.notifications.Create(c.Request.Context(),
		req.UserID, req.Type, req.Title, req.Message, req.Data)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := c.GetInt64("user_id")

	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
