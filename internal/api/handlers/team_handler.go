package handlers

import (
	"errors"
	"io"
	"net/http"

	"tracker-backend/internal/service"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type TeamHandler struct {
	teamService *service.TeamService
	log         zerolog.Logger
}

func NewTeamHandler(teamService *service.TeamService, logger *logger.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		log:         logger.GetLogger("team-handler"),
	}
}

func (h *TeamHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/team", h.ListMembers)
	r.POST("/invite", h.Invite)
	r.PATCH("/team/:id/not-working", h.Offboard)
	r.DELETE("/team/:id", h.RemoveMember)
	r.GET("/join", h.Join)
}

func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.teamService.List(c.Request.Context())
	if err != nil {
		internalError(c, h.log, err, "Failed to list team")
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *TeamHandler) Invite(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Org      string `json:"org"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or email"})
		return
	}

	member, err := h.teamService.Invite(c.Request.Context(), req.Username, req.Email, req.Org)
	if errors.Is(err, service.ErrInvalidInvite) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or email"})
		return
	}
	if err != nil {
		internalError(c, h.log, err, "Failed to invite member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User added", "username": member.Username})
}

func (h *TeamHandler) Offboard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		ReassignTo string `json:"reassign_to"`
	}
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	n, err := h.teamService.Offboard(c.Request.Context(), id, req.ReassignTo)
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		return
	}
	if err != nil {
		internalError(c, h.log, err, "Failed to offboard member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true, "reassigned": n})
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.teamService.Remove(c.Request.Context(), id)
	switch {
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
	case errors.Is(err, types.ErrMemberAssigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete: member is assigned to tasks"})
	case err != nil:
		internalError(c, h.log, err, "Failed to remove member")
	default:
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// Join accepts any invite.
func (h *TeamHandler) Join(c *gin.Context) {
	h.log.Debug().Str("invite", c.Query("invite")).Msg("Invite accepted")
	c.JSON(http.StatusOK, gin.H{"message": "Joined successfully"})
}
