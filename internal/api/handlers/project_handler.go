package handlers

import (
	"net/http"

	"tracker-backend/internal/service"
	"tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	log            zerolog.Logger
}

func NewProjectHandler(projectService *service.ProjectService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            logger.GetLogger("project-handler"),
	}
}

func (h *ProjectHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/project", h.GetProject)
	r.POST("/project", h.SaveProject)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	name, err := h.projectService.Name(c.Request.Context())
	if err != nil {
		internalError(c, h.log, err, "Failed to load project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name})
}

func (h *ProjectHandler) SaveProject(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.projectService.Rename(c.Request.Context(), req.Name); err != nil {
		internalError(c, h.log, err, "Failed to save project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
