package engine

import (
	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

// ApplyAction processes one chosen action against the player state and
// returns an outcome record for the caller to render. The state is mutated
// in place on acceptance and left untouched on rejection. The step counter
// increments exactly once per processed action, success or not.
func ApplyAction(cat *catalog.Catalog, st *game.PlayerState, scene *catalog.Scene, actionID string, rng *RNG) (*game.Outcome, error) {
	a := cat.Actions[actionID]
	if a == nil || !a.AppliesTo(scene.Kind) {
		return nil, game.ErrInvalidAction
	}

	shortOnEnergy := a.EnergyCost > 0 && st.Energy < a.EnergyCost
	if shortOnEnergy && !a.FreeOnFailure {
		return nil, game.ErrInsufficientEnergy
	}

	out := &game.Outcome{Tags: []string{"action:" + a.ID, "scene:" + scene.ID}}

	success := false
	if shortOnEnergy {
		// Cost-free-on-failure actions fail outright instead of rejecting.
		out.Tags = append(out.Tags, "exhausted")
	} else {
		st.Energy -= a.EnergyCost
		out.EnergySpent = a.EnergyCost
		success = rng.Chance(a.SuccessProb)
	}

	if success {
		st.Risk += a.RiskDelta
		out.RiskApplied = a.RiskDelta
		if len(a.StatChanges) > 0 {
			out.StatChanges = map[string]int{}
			for name, delta := range a.StatChanges {
				st.Stats[name] += delta
				if st.Stats[name] < 0 {
					st.Stats[name] = 0
				}
				out.StatChanges[name] = delta
			}
		}
		out.Tags = append(out.Tags, "success")
	} else if a.Failure != nil {
		st.Energy -= a.Failure.EnergyCost
		st.Risk += a.Failure.RiskDelta
		out.EnergySpent += a.Failure.EnergyCost
		out.RiskApplied = a.Failure.RiskDelta
		if len(a.Failure.StatChanges) > 0 {
			out.StatChanges = map[string]int{}
			for name, delta := range a.Failure.StatChanges {
				st.Stats[name] += delta
				if st.Stats[name] < 0 {
					st.Stats[name] = 0
				}
				out.StatChanges[name] = delta
			}
		}
		out.Tags = append(out.Tags, "failure")
	} else {
		// Attempted but failed: the risk delta applies at half magnitude,
		// rounded toward zero.
		half := halfToward(a.RiskDelta)
		st.Risk += half
		out.RiskApplied = half
		out.Tags = append(out.Tags, "failure")
	}

	st.ClampEnergy()
	st.ClampRisk()
	st.StepCount++

	out.Success = success
	return out, nil
}

// halfToward halves a delta preserving its sign, magnitude rounded down.
func halfToward(n int) int {
	if n < 0 {
		return -((-n) / 2)
	}
	return n / 2
}
