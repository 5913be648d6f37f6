package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/service"
)

// GetSummary returns the stored end-of-adventure summary for a session.
func (h *AdventureHandler) GetSummary(c *gin.Context) {
	sessionID := normalizeSessionID(c.Param("sessionID"))
	if !sessionIDRegex.MatchString(sessionID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}

	sum, err := service.GetSummary(h.repo, sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
