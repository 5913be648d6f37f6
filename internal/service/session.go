package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
	"github.com/NykoEugen/R-D-telegram-game/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAdventureEnded  = errors.New("adventure has already ended")
	ErrSceneMismatch   = errors.New("action targets a scene that is not current")
	ErrNotInCombat     = errors.New("combat command outside combat")
)

const sessionIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
const sessionIDLength = 12

// newSessionID creates a short random session identifier.
func newSessionID() string {
	b := make([]byte, sessionIDLength)
	for i := range b {
		b[i] = sessionIDCharset[rand.Intn(len(sessionIDCharset))]
	}
	return string(b)
}

// sessionLocks serializes access per session: concurrent calls for the same
// player must be mutually exclusive (single-writer discipline); the engine
// itself carries no locking.
var sessionLocks sync.Map

func lockSession(sessionID string) func() {
	v, _ := sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func decodeState(sess *storage.Session) (*game.PlayerState, *game.CombatState, error) {
	var st game.PlayerState
	if err := json.Unmarshal([]byte(sess.StateJSON), &st); err != nil {
		return nil, nil, fmt.Errorf("corrupt session state: %w", err)
	}
	var cs *game.CombatState
	if sess.CombatJSON != "" {
		cs = &game.CombatState{}
		if err := json.Unmarshal([]byte(sess.CombatJSON), cs); err != nil {
			return nil, nil, fmt.Errorf("corrupt combat state: %w", err)
		}
	}
	return &st, cs, nil
}

func encodeState(sess *storage.Session, st *game.PlayerState, cs *game.CombatState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	sess.StateJSON = string(b)
	sess.CombatJSON = ""
	if cs != nil {
		cb, err := json.Marshal(cs)
		if err != nil {
			return err
		}
		sess.CombatJSON = string(cb)
	}
	return nil
}

// legalActions lists the action ids a caller may submit next: catalog
// actions for the scene kind, or the combat command menu while fighting.
func legalActions(cat *catalog.Catalog, st *game.PlayerState, scene *catalog.Scene, cs *game.CombatState) []string {
	if cs != nil && !cs.Over() {
		out := []string{string(game.CommandAttack)}
		for _, id := range cat.SkillsForClass(st.Class) {
			if cs.SkillCooldowns[id] == 0 {
				out = append(out, "skill:"+id)
			}
		}
		out = append(out, string(game.CommandRun))
		return out
	}
	if scene == nil {
		return nil
	}
	return cat.ActionsFor(scene.Kind)
}
