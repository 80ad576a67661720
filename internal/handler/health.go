package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/config"
	"marketplace/internal/ws"
)

type HealthHandler struct {
	cfg *config.Config
	hub *ws.Hub
}

func NewHealthHandler(cfg *config.Config, hub *ws.Hub) *HealthHandler {
	return &HealthHandler{cfg: cfg, hub: hub}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"environment": h.cfg.Environment,
		"connections": h.hub.Count(),
		"time":        time.Now().UTC(),
	})
}
