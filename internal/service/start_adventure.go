package service

import (
	"errors"
	"math/rand"
	"time"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/engine"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
	"github.com/NykoEugen/R-D-telegram-game/internal/logging"
	"github.com/NykoEugen/R-D-telegram-game/internal/storage"
)

var ErrEmptyPlayerName = errors.New("player name must not be empty")

// StartResult is the full response of a freshly started adventure.
type StartResult struct {
	SessionID    string                 `json:"session_id"`
	State        *game.PlayerState      `json:"state"`
	Scene        *catalog.Scene         `json:"scene,omitempty"`
	Combat       *game.CombatState      `json:"combat,omitempty"`
	Ended        bool                   `json:"ended"`
	Reason       string                 `json:"reason,omitempty"`
	Summary      *game.AdventureSummary `json:"summary,omitempty"`
	LegalActions []string               `json:"legal_actions,omitempty"`
	Status       game.SessionStatus     `json:"status"`
}

// StartAdventure builds the initial player state from a character snapshot,
// selects the opening scene and persists the new session. A zero seed asks
// for a fresh random one; callers pass a fixed seed to replay a run.
func StartAdventure(repo storage.Repository, cat *catalog.Catalog, snap game.CharacterSnapshot, seed int64) (*StartResult, error) {
	if snap.Name == "" {
		return nil, ErrEmptyPlayerName
	}
	if seed == 0 {
		seed = rand.Int63()
	}

	st := game.NewPlayerState(snap, seed)
	rng := engine.NewRNG(seed)

	scene, err := engine.Start(cat, st, rng)
	if err != nil {
		return nil, err
	}

	// An opening combat scene begins the fight immediately; the hero's first
	// command arrives with the first action submission.
	var cs *game.CombatState
	if scene.Kind == catalog.KindCombat {
		cs = engine.InitCombat(cat, st, scene, rng)
	}

	res := &StartResult{State: st, Scene: scene, Combat: cs}

	// The enemy's opening strike can settle the fight before the hero ever
	// acts. Fold such a combat right away so the session never starts
	// inside a finished one.
	for !res.Ended && cs != nil && cs.Over() {
		engine.FoldCombat(st, cs, rng)
		from := res.Scene
		res.Combat = cs
		cs = nil

		next := engine.Advance(cat, st, from, rng)
		if next.Ended {
			res.Ended = true
			res.Reason = string(next.Reason)
			res.Summary = next.Summary
			res.Scene = nil
			break
		}
		res.Scene = next.Scene
		if next.StartCombat {
			cs = engine.InitCombat(cat, st, next.Scene, rng)
			res.Combat = cs
		}
	}

	st.RNGPos = rng.Position()

	switch {
	case res.Ended:
		res.Status = game.StatusEnded
	case cs != nil:
		res.Status = game.StatusCombat
	default:
		res.Status = game.StatusActive
	}

	sess := &storage.Session{
		SessionID:    newSessionID(),
		PlayerName:   snap.Name,
		Status:       string(res.Status),
		LastActionAt: time.Now(),
	}
	if err := encodeState(sess, st, cs); err != nil {
		return nil, err
	}
	if err := repo.CreateSession(sess); err != nil {
		return nil, err
	}
	res.SessionID = sess.SessionID

	if res.Ended {
		if err := saveSummary(repo, sess.SessionID, res.Summary); err != nil {
			logging.Error("failed to store adventure summary", err, logging.Fields{constants.LogFieldSessionID: sess.SessionID})
		}
	} else {
		res.LegalActions = legalActions(cat, st, res.Scene, cs)
	}

	logging.Info("adventure started", logging.Fields{
		constants.LogFieldSessionID: sess.SessionID,
		constants.LogFieldPlayer:    snap.Name,
		constants.LogFieldSceneID:   st.CurrentScene,
		constants.LogFieldSeed:      seed,
	})

	return res, nil
}
