package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/engine"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
	"github.com/NykoEugen/R-D-telegram-game/internal/logging"
	"github.com/NykoEugen/R-D-telegram-game/internal/storage"
)

// ActResult is the response of one processed action or combat command.
type ActResult struct {
	SessionID    string                 `json:"session_id"`
	State        *game.PlayerState      `json:"state"`
	Combat       *game.CombatState      `json:"combat,omitempty"`
	Outcome      *game.Outcome          `json:"outcome,omitempty"`
	Scene        *catalog.Scene         `json:"scene,omitempty"`
	Ended        bool                   `json:"ended"`
	Reason       string                 `json:"reason,omitempty"`
	Summary      *game.AdventureSummary `json:"summary,omitempty"`
	LegalActions []string               `json:"legal_actions,omitempty"`
	Status       game.SessionStatus     `json:"status"`
}

// SubmitAction applies one player submission to a session: a catalog action
// while exploring, or a combat command while a fight is active. Calls for
// the same session are serialized; each call loads the snapshot, replays the
// random stream to its recorded position and persists the updated state.
func SubmitAction(repo storage.Repository, cat *catalog.Catalog, items engine.ItemResolver, sessionID, sceneID, actionID string) (*ActResult, error) {
	unlock := lockSession(sessionID)
	defer unlock()

	sess, err := repo.GetSession(sessionID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if sess.Status == string(game.StatusEnded) {
		return nil, ErrAdventureEnded
	}

	st, cs, err := decodeState(sess)
	if err != nil {
		return nil, err
	}
	rng := engine.RestoreRNG(st.Seed, st.RNGPos)

	res := &ActResult{SessionID: sessionID}

	if cs != nil && !cs.Over() {
		if sceneID != "" && sceneID != cs.SceneID {
			return nil, ErrSceneMismatch
		}
		cmd, skillID, ok := parseCombatCommand(actionID)
		if !ok {
			return nil, game.ErrInvalidAction
		}
		if err := engine.ResolveTurn(cat, st, cs, cmd, skillID, items, rng); err != nil {
			return nil, err
		}
		res.Scene = cat.Scene(cs.SceneID)
	} else {
		if _, _, ok := parseCombatCommand(actionID); ok {
			return nil, ErrNotInCombat
		}
		if sceneID != "" && sceneID != st.CurrentScene {
			return nil, ErrSceneMismatch
		}
		scene := cat.Scene(st.CurrentScene)
		if scene == nil {
			return nil, game.ErrInvalidAction
		}
		out, err := engine.ApplyAction(cat, st, scene, actionID, rng)
		if err != nil {
			return nil, err
		}
		res.Outcome = out

		next := engine.Advance(cat, st, scene, rng)
		if next.Ended {
			res.Ended = true
			res.Reason = string(next.Reason)
			res.Summary = next.Summary
		} else {
			res.Scene = next.Scene
			if next.StartCombat {
				cs = engine.InitCombat(cat, st, next.Scene, rng)
			}
		}
	}

	// Fold any concluded combat back onto the player state and move on. The
	// loop covers the edge where an opening enemy strike finishes the fight
	// before the hero ever acts.
	for !res.Ended && cs != nil && cs.Over() {
		engine.FoldCombat(st, cs, rng)
		from := cat.Scene(cs.SceneID)
		res.Combat = cs
		cs = nil

		next := engine.Advance(cat, st, from, rng)
		if next.Ended {
			res.Ended = true
			res.Reason = string(next.Reason)
			res.Summary = next.Summary
			break
		}
		res.Scene = next.Scene
		if next.StartCombat {
			cs = engine.InitCombat(cat, st, next.Scene, rng)
		}
	}
	if cs != nil {
		res.Combat = cs
	}

	st.RNGPos = rng.Position()
	res.State = st

	switch {
	case res.Ended:
		res.Status = game.StatusEnded
	case cs != nil:
		res.Status = game.StatusCombat
	default:
		res.Status = game.StatusActive
	}

	sess.Status = string(res.Status)
	sess.LastActionAt = time.Now()
	if err := encodeState(sess, st, cs); err != nil {
		return nil, err
	}
	if err := repo.UpdateSession(sess); err != nil {
		return nil, err
	}

	if res.Ended {
		if err := saveSummary(repo, sessionID, res.Summary); err != nil {
			logging.Error("failed to store adventure summary", err, logging.Fields{constants.LogFieldSessionID: sessionID})
		}
		logging.Info("adventure ended", logging.Fields{
			constants.LogFieldSessionID: sessionID,
			constants.LogFieldReason:    res.Reason,
			constants.LogFieldSteps:     st.StepCount,
		})
	} else {
		res.LegalActions = legalActions(cat, st, res.Scene, cs)
	}

	return res, nil
}

// parseCombatCommand recognizes the combat submission forms: "attack",
// "run", "skill:<id>" and "item:<id>".
func parseCombatCommand(actionID string) (game.CombatCommand, string, bool) {
	switch {
	case actionID == string(game.CommandAttack):
		return game.CommandAttack, "", true
	case actionID == string(game.CommandRun):
		return game.CommandRun, "", true
	case strings.HasPrefix(actionID, "skill:"):
		return game.CommandSkill, strings.TrimPrefix(actionID, "skill:"), true
	case strings.HasPrefix(actionID, "item:"):
		return game.CommandItem, strings.TrimPrefix(actionID, "item:"), true
	}
	return "", "", false
}

func saveSummary(repo storage.Repository, sessionID string, sum *game.AdventureSummary) error {
	itemsJSON, err := json.Marshal(sum.Items)
	if err != nil {
		return err
	}
	return repo.SaveSummary(&storage.SummaryRecord{
		SessionID:     sessionID,
		Reason:        sum.Reason,
		Steps:         sum.Steps,
		ScenesVisited: sum.ScenesVisited,
		Gold:          sum.Gold,
		XP:            sum.XP,
		ItemsJSON:     string(itemsJSON),
	})
}
