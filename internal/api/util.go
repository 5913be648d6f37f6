package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
	"github.com/NykoEugen/R-D-telegram-game/internal/service"
)

// sceneView projects the authoring-side scene onto the response shape:
// clients get identity and kind, never the compiled rules.
func sceneView(s *catalog.Scene) gin.H {
	if s == nil {
		return nil
	}
	return gin.H{
		"id":   s.ID,
		"kind": s.Kind,
	}
}

var sessionIDRegex = regexp.MustCompile("^[a-z0-9]{12}$")

func normalizeSessionID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// writeServiceError maps service and engine errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
	case errors.Is(err, service.ErrAdventureEnded):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAdventureOver})
	case errors.Is(err, service.ErrSceneMismatch):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSceneMismatch})
	case errors.Is(err, service.ErrNotInCombat):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotInCombat})
	case errors.Is(err, game.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrActionNotAllowed})
	case errors.Is(err, game.ErrInsufficientEnergy):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotEnoughEnergy})
	case errors.Is(err, service.ErrEmptyPlayerName):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreSession})
	}
}
