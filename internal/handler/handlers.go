package handler

import (
	"marketplace/internal/config"
	"marketplace/internal/service"
	"marketplace/internal/ws"
	"marketplace/pkg/logger"
)

type Handlers struct {
	Health       *HealthHandler
	Notification *NotificationHandler
	WebSocket    *WebSocketHandler
}

func NewHandlers(services *service.Services, hub *ws.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(cfg, hub),
		Notification: NewNotificationHandler(services.Notification, log),
		WebSocket: NewWebSocketHandler(
			services.Auth,
			services.Message,
			services.Notification,
			services.Presence,
			hub,
			log,
		),
	}
}
