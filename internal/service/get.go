package service

import (
	"encoding/json"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
	"github.com/NykoEugen/R-D-telegram-game/internal/storage"
)

// GetAdventure loads a session and returns its current view without
// mutating anything.
func GetAdventure(repo storage.Repository, cat *catalog.Catalog, sessionID string) (*ActResult, error) {
	sess, err := repo.GetSession(sessionID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	st, cs, err := decodeState(sess)
	if err != nil {
		return nil, err
	}

	res := &ActResult{
		SessionID: sessionID,
		State:     st,
		Combat:    cs,
		Status:    game.SessionStatus(sess.Status),
	}
	if res.Status == game.StatusEnded {
		res.Ended = true
		return res, nil
	}
	res.Scene = cat.Scene(st.CurrentScene)
	res.LegalActions = legalActions(cat, st, res.Scene, cs)
	return res, nil
}

// GetSummary returns the stored end-of-adventure summary.
func GetSummary(repo storage.Repository, sessionID string) (*game.AdventureSummary, error) {
	rec, err := repo.GetSummary(sessionID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	sum := &game.AdventureSummary{
		Reason:        rec.Reason,
		Steps:         rec.Steps,
		ScenesVisited: rec.ScenesVisited,
		Gold:          rec.Gold,
		XP:            rec.XP,
		Items:         []string{},
	}
	if rec.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(rec.ItemsJSON), &sum.Items); err != nil {
			return nil, err
		}
	}
	return sum, nil
}
