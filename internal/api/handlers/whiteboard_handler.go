package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"tracker-backend/internal/service"
	"tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type WhiteboardHandler struct {
	whiteboardService *service.WhiteboardService
	log               zerolog.Logger
}

func NewWhiteboardHandler(whiteboardService *service.WhiteboardService, logger *logger.Logger) *WhiteboardHandler {
	return &WhiteboardHandler{
		whiteboardService: whiteboardService,
		log:               logger.GetLogger("whiteboard-handler"),
	}
}

func (h *WhiteboardHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/whiteboard", h.GetState)
	r.POST("/whiteboard", h.SaveState)
	r.POST("/whiteboard/save", h.SaveSnapshot)
	r.GET("/whiteboard/latest", h.LatestSnapshot)
}

func (h *WhiteboardHandler) GetState(c *gin.Context) {
	state, err := h.whiteboardService.State(c.Request.Context())
	if err != nil {
		internalError(c, h.log, err, "Failed to load whiteboard")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", state)
}

// isDocument reports whether body is a JSON object or array. Bare scalars
// and null are refused like any other malformed body.
func isDocument(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid(trimmed)
}

// SaveState stores the request body verbatim. An empty body stores {}.
func (h *WhiteboardHandler) SaveState(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !isDocument(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.whiteboardService.SaveState(c.Request.Context(), body); err != nil {
		internalError(c, h.log, err, "Failed to save whiteboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *WhiteboardHandler) SaveSnapshot(c *gin.Context) {
	var req struct {
		CanvasImage string          `json:"canvasImage"`
		StickyNotes json.RawMessage `json:"stickyNotes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing canvasImage or stickyNotes"})
		return
	}

	id, err := h.whiteboardService.SaveSnapshot(c.Request.Context(), req.CanvasImage, req.StickyNotes)
	if errors.Is(err, service.ErrInvalidSnapshot) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing canvasImage or stickyNotes"})
		return
	}
	if err != nil {
		internalError(c, h.log, err, "Failed to save whiteboard snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true, "id": id})
}

func (h *WhiteboardHandler) LatestSnapshot(c *gin.Context) {
	snapshot, err := h.whiteboardService.Latest(c.Request.Context())
	if err != nil {
		internalError(c, h.log, err, "Failed to load whiteboard snapshot")
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusOK, gin.H{"canvasImage": nil, "stickyNotes": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"canvasImage": snapshot.CanvasImage,
		"stickyNotes": snapshot.StickyNotes,
	})
}
