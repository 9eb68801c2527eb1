package handlers

import (
	"net/http"

	"tracker-backend/internal/service"
	"tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type StatusHandler struct {
	statusService *service.StatusService
	log           zerolog.Logger
}

func NewStatusHandler(statusService *service.StatusService, logger *logger.Logger) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		log:           logger.GetLogger("status-handler"),
	}
}

func (h *StatusHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/status", h.GetSystemStatus)
}

func (h *StatusHandler) GetSystemStatus(c *gin.Context) {
	status, err := h.statusService.GetSystemStatus(c.Request.Context())
	if err != nil {
		internalError(c, h.log, err, "Failed to get system status")
		return
	}
	c.JSON(http.StatusOK, status)
}

// Health answers 200 while the store is reachable and 503 otherwise.
func (h *StatusHandler) Health(c *gin.Context) {
	if err := h.statusService.Ping(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
