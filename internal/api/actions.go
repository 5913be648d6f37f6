package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/logging"
	"github.com/NykoEugen/R-D-telegram-game/internal/narrative"
	"github.com/NykoEugen/R-D-telegram-game/internal/service"
)

// ActionRequest is one player submission: the scene it targets and the
// chosen action or combat command id.
type ActionRequest struct {
	SceneID  string `json:"scene_id"`
	ActionID string `json:"action_id"`
}

// SubmitAction applies one action to the session and returns the updated
// view together with a narration line.
func (h *AdventureHandler) SubmitAction(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "submit_action")
	defer span.End()

	sessionID := normalizeSessionID(c.Param("sessionID"))
	if !sessionIDRegex.MatchString(sessionID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ActionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("action.id", req.ActionID),
	)

	res, err := service.SubmitAction(h.repo, h.cat, h.items, sessionID, req.SceneID, req.ActionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	narration := h.narrate(res, req.ActionID)

	body := gin.H{
		"session_id":    res.SessionID,
		"status":        res.Status,
		"state":         res.State,
		"outcome":       res.Outcome,
		"scene":         sceneView(res.Scene),
		"combat":        res.Combat,
		"ended":         res.Ended,
		"narration":     narration,
		"legal_actions": res.LegalActions,
	}
	if res.Ended {
		body["reason"] = res.Reason
		body["summary"] = res.Summary
	}
	c.JSON(http.StatusOK, body)
}

// narrate asks the provider for prose describing the processed action.
// Narration is decoration: a provider failure degrades to empty text and
// never fails the request.
func (h *AdventureHandler) narrate(res *service.ActResult, actionID string) string {
	if h.narrator == nil || res.Outcome == nil {
		return ""
	}
	nreq := narrative.Request{
		PlayerName: res.State.Name,
		ActionID:   actionID,
		Tags:       res.Outcome.Tags,
	}
	if res.Scene != nil {
		nreq.SceneTitle = res.Scene.ID
		nreq.SceneKind = string(res.Scene.Kind)
	}
	line, err := h.narrator.Narrate(nreq)
	if err != nil {
		logging.Error("narration failed", err, logging.Fields{constants.LogFieldSessionID: res.SessionID})
		return ""
	}
	return line
}
