package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
	"github.com/NykoEugen/R-D-telegram-game/internal/service"
)

// StartRequest carries the character sheet and an optional fixed seed for
// reproducible runs.
type StartRequest struct {
	Character game.CharacterSnapshot `json:"character"`
	Seed      int64                  `json:"seed"`
}

// StartAdventure creates a new adventure session.
func (h *AdventureHandler) StartAdventure(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "start_adventure")
	defer span.End()

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	res, err := service.StartAdventure(h.repo, h.cat, req.Character, req.Seed)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	span.SetAttributes(attribute.String("session.id", res.SessionID))
	if res.Scene != nil {
		span.SetAttributes(attribute.String("scene.id", res.Scene.ID))
	}

	body := gin.H{
		"session_id":    res.SessionID,
		"status":        res.Status,
		"state":         res.State,
		"scene":         sceneView(res.Scene),
		"combat":        res.Combat,
		"ended":         res.Ended,
		"legal_actions": res.LegalActions,
	}
	if res.Ended {
		body["reason"] = res.Reason
		body["summary"] = res.Summary
	}
	c.JSON(http.StatusCreated, body)
}

// GetAdventure returns the current view of a session.
func (h *AdventureHandler) GetAdventure(c *gin.Context) {
	sessionID := normalizeSessionID(c.Param("sessionID"))
	if !sessionIDRegex.MatchString(sessionID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}

	res, err := service.GetAdventure(h.repo, h.cat, sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":    res.SessionID,
		"status":        res.Status,
		"state":         res.State,
		"scene":         sceneView(res.Scene),
		"combat":        res.Combat,
		"ended":         res.Ended,
		"legal_actions": res.LegalActions,
	})
}
