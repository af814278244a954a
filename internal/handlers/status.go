package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ManuelBanchero/roadmap-sh-projects/internal/monitoring"
)

// StatusHandler exposes liveness and runtime snapshot endpoints.
type StatusHandler struct {
	monitor *monitoring.Service
}

func NewStatusHandler(monitor *monitoring.Service) *StatusHandler {
	return &StatusHandler{monitor: monitor}
}

func (h *StatusHandler) HealthCheck(c *gin.Context) {
	if err := h.monitor.Healthy(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":  "Spiral Blog API",
		"version":  "0.1.0",
		"status":   "operational",
		"snapshot": h.monitor.Snapshot(),
	})
}
