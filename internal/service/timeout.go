package service

import (
	"time"

	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
	"github.com/NykoEugen/R-D-telegram-game/internal/logging"
	"github.com/NykoEugen/R-D-telegram-game/internal/storage"
)

// ReasonAbandoned marks sessions the sweeper closed for inactivity, as
// opposed to the catalog-driven end conditions.
const ReasonAbandoned = "abandoned"

const sweepBatchSize = 100

// CloseIdleSessions ends every session whose last action is older than the
// idle timeout and stores an abandonment summary for it. Returns the number
// of sessions closed.
func CloseIdleSessions(repo storage.Repository, idleTimeout time.Duration) (int, error) {
	cutoff := time.Now().Add(-idleTimeout)
	sessions, err := repo.FindIdleSessions(cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range sessions {
		sess := &sessions[i]
		unlock := lockSession(sess.SessionID)

		st, _, err := decodeState(sess)
		if err != nil {
			unlock()
			logging.Error("skipping idle session with corrupt state", err, logging.Fields{constants.LogFieldSessionID: sess.SessionID})
			continue
		}

		sess.Status = string(game.StatusEnded)
		if err := repo.UpdateSession(sess); err != nil {
			unlock()
			return closed, err
		}
		sum := &game.AdventureSummary{
			Reason:        ReasonAbandoned,
			Steps:         st.StepCount,
			ScenesVisited: len(st.Visited),
			Gold:          st.Gold,
			XP:            st.XP,
			Items:         st.Items,
		}
		if err := saveSummary(repo, sess.SessionID, sum); err != nil {
			logging.Error("failed to store abandonment summary", err, logging.Fields{constants.LogFieldSessionID: sess.SessionID})
		}
		unlock()

		closed++
		logging.Info("idle session closed", logging.Fields{
			constants.LogFieldSessionID: sess.SessionID,
			constants.LogFieldReason:    ReasonAbandoned,
		})
	}
	return closed, nil
}

// RunIdleSweeper periodically closes idle sessions until stop is closed.
func RunIdleSweeper(repo storage.Repository, idleTimeout, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := CloseIdleSessions(repo, idleTimeout); err != nil {
				logging.Error("idle session sweep failed", err, nil)
			}
		case <-stop:
			return
		}
	}
}
