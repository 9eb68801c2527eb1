package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// parseID reads the :id path parameter. It writes a 400 and returns false
// when the value is not a non-negative integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// internalError logs err and answers 500 with its message.
func internalError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	_ = c.Error(err)
	log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
