package engine

import (
	"math"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

// NextResult is the outcome of advancing the scene graph: either the next
// scene (possibly flagging a combat encounter to initialize) or the end of
// the adventure with a summary.
type NextResult struct {
	Scene       *catalog.Scene
	StartCombat bool
	Ended       bool
	Reason      catalog.EndKind
	Summary     *game.AdventureSummary
}

// Start selects the opening scene for a fresh player state: a weighted pick
// among eligible scenes, falling back to the catalog's default scene when
// nothing qualifies. It never fails for a validated catalog; the returned
// error covers only a catalog whose default scene went missing, which is an
// authoring bug fatal to the adventure.
func Start(cat *catalog.Catalog, st *game.PlayerState, rng *RNG) (*catalog.Scene, error) {
	candidates := make([]*catalog.Scene, 0, len(cat.SceneOrder))
	weights := make([]float64, 0, len(cat.SceneOrder))
	for _, id := range cat.SceneOrder {
		s := cat.Scenes[id]
		if s.Weight <= 0 || !eligible(s, st) {
			continue
		}
		candidates = append(candidates, s)
		weights = append(weights, s.Weight)
	}
	var scene *catalog.Scene
	if len(candidates) == 0 {
		scene = cat.Scene(cat.DefaultScene)
		if scene == nil {
			return nil, game.ErrNoEligibleStartScene
		}
	} else {
		scene = candidates[rng.WeightedIndex(weights)]
	}
	st.CurrentScene = scene.ID
	return scene, nil
}

// Advance evaluates end conditions, applies the current scene's entry
// effects and picks the next scene. End conditions are checked first so a
// finished adventure never hands out another transition.
func Advance(cat *catalog.Catalog, st *game.PlayerState, from *catalog.Scene, rng *RNG) NextResult {
	if reason, ended := endReason(cat, st); ended {
		return NextResult{Ended: true, Reason: reason, Summary: summarize(st, reason)}
	}

	applyEntryEffects(st, from, rng)

	st.TickCooldowns()
	st.MarkVisited(from.ID)
	if from.Cooldown > 0 {
		st.Cooldowns[from.ID] = from.Cooldown
	}

	next := pickTransition(cat, st, from, rng)
	st.CurrentScene = next.ID
	return NextResult{Scene: next, StartCombat: next.Kind == catalog.KindCombat}
}

// CheckEnd exposes end-condition evaluation without mutating state, for
// callers that need to probe after combat resolution.
func CheckEnd(cat *catalog.Catalog, st *game.PlayerState) (NextResult, bool) {
	if reason, ended := endReason(cat, st); ended {
		return NextResult{Ended: true, Reason: reason, Summary: summarize(st, reason)}, true
	}
	return NextResult{}, false
}

func applyEntryEffects(st *game.PlayerState, s *catalog.Scene, rng *RNG) {
	st.Risk += s.RiskDelta
	st.ClampRisk()
	if !s.Reward.Gold.Zero() {
		st.Gold += s.Reward.Gold.Roll(rng.Roll)
	}
	if !s.Reward.XP.Zero() {
		st.AddExperience(s.Reward.XP.Roll(rng.Roll))
	}
	st.Items = append(st.Items, s.Reward.Items...)
	if s.GrantsGoal != "" {
		st.Goals[s.GrantsGoal] = true
	}
	if s.CompletesQuest != "" {
		st.Quests[s.CompletesQuest] = true
	}
}

// eligible applies the shared scene-eligibility rules: requirements hold,
// no block matches, cooldown expired, once-scenes not yet visited.
func eligible(s *catalog.Scene, st *game.PlayerState) bool {
	if s.Once && st.HasVisited(s.ID) {
		return false
	}
	if st.Cooldowns[s.ID] > 0 {
		return false
	}
	if !catalog.All(s.Requires, st) {
		return false
	}
	if catalog.Any(s.Blocks, st) {
		return false
	}
	return true
}

// pickTransition runs the weighted-eligibility selection over a scene's
// outgoing transitions. When no transition qualifies the default scene is
// the fallback, mirroring Start.
func pickTransition(cat *catalog.Catalog, st *game.PlayerState, from *catalog.Scene, rng *RNG) *catalog.Scene {
	targets := make([]*catalog.Scene, 0, len(from.Transitions))
	weights := make([]float64, 0, len(from.Transitions))
	for _, t := range from.Transitions {
		if t.Weight <= 0 {
			continue
		}
		if !catalog.All(t.Requires, st) {
			continue
		}
		target := cat.Scene(t.Target)
		if target == nil || !eligible(target, st) {
			continue
		}
		targets = append(targets, target)
		weights = append(weights, t.Weight)
	}
	if len(targets) == 0 {
		return cat.Scene(cat.DefaultScene)
	}
	return targets[rng.WeightedIndex(weights)]
}

// endReason evaluates every end condition in the fixed priority order and
// returns the first that holds.
func endReason(cat *catalog.Catalog, st *game.PlayerState) (catalog.EndKind, bool) {
	for _, kind := range catalog.EndOrder {
		for _, ec := range cat.EndConditions {
			if ec.Kind != kind {
				continue
			}
			if endHolds(ec, st) {
				return kind, true
			}
		}
	}
	return "", false
}

func endHolds(ec catalog.EndCondition, st *game.PlayerState) bool {
	switch ec.Kind {
	case catalog.EndRiskThreshold:
		return st.Risk >= ec.Threshold
	case catalog.EndEnergyDepleted:
		return st.Energy <= 0
	case catalog.EndStepBudget:
		return st.StepCount >= StepBudgetLimit(ec, st)
	case catalog.EndGoalReached:
		return st.Goals[ec.Goal]
	case catalog.EndQuestCompleted:
		return st.Quests[ec.Quest]
	}
	return false
}

// StepBudgetLimit computes the effective step limit:
// floor(base + sum(bonus_per_stat[s] * stat[s])).
func StepBudgetLimit(ec catalog.EndCondition, st *game.PlayerState) int {
	limit := float64(ec.Base)
	for name, bonus := range ec.BonusPerStat {
		limit += bonus * float64(st.Stat(name))
	}
	return int(math.Floor(limit))
}

func summarize(st *game.PlayerState, reason catalog.EndKind) *game.AdventureSummary {
	return &game.AdventureSummary{
		Reason:        string(reason),
		Steps:         st.StepCount,
		ScenesVisited: len(st.Visited),
		Gold:          st.Gold,
		XP:            st.XP,
		Items:         st.Items,
	}
}
