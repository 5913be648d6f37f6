package catalog

import (
	"fmt"

	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

// validate performs cross-entry checks: dangling references, unknown stat
// names and missing mandatory entries. Called once from Parse; a failure is
// fatal at load time.
func (c *Catalog) validate() error {
	if len(c.Scenes) == 0 {
		return fmt.Errorf("%w: 'scenes' is empty", ErrValidation)
	}
	if c.DefaultScene == "" {
		return fmt.Errorf("%w: 'default_scene' is required", ErrValidation)
	}
	def, ok := c.Scenes[c.DefaultScene]
	if !ok {
		return fmt.Errorf("%w: default_scene %q does not exist", ErrValidation, c.DefaultScene)
	}
	// The default scene is the unconditional fallback: it must always be
	// eligible, so gating it would defeat its purpose.
	if len(def.Requires) > 0 || def.Once || def.Cooldown > 0 {
		return fmt.Errorf("%w: default_scene %q must be ungated (no requires, once or cooldown)", ErrValidation, c.DefaultScene)
	}

	known := make(map[string]struct{}, len(game.KnownStats))
	for _, s := range game.KnownStats {
		known[s] = struct{}{}
	}
	checkStat := func(name, where string) error {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w: %s references unknown stat %q", ErrValidation, where, name)
		}
		return nil
	}
	checkPreds := func(preds []Predicate, where string) error {
		for _, p := range preds {
			if p.Kind == PredStat {
				if err := checkStat(p.Stat, where); err != nil {
					return err
				}
			}
			if p.Kind == PredVisited {
				if _, ok := c.Scenes[p.Ref]; !ok {
					return fmt.Errorf("%w: %s references unknown scene %q", ErrValidation, where, p.Ref)
				}
			}
		}
		return nil
	}

	for _, id := range c.SceneOrder {
		s := c.Scenes[id]
		if err := checkPreds(s.Requires, "scene "+id+" requires"); err != nil {
			return err
		}
		if err := checkPreds(s.Blocks, "scene "+id+" blocks"); err != nil {
			return err
		}
		for _, t := range s.Transitions {
			if _, ok := c.Scenes[t.Target]; !ok {
				return fmt.Errorf("%w: scene %q transition targets unknown scene %q", ErrValidation, id, t.Target)
			}
			if err := checkPreds(t.Requires, "scene "+id+" transition "+t.Target); err != nil {
				return err
			}
		}
		if s.Kind == KindCombat {
			if s.EnemyTemplate == "" {
				return fmt.Errorf("%w: combat scene %q missing 'enemy_template'", ErrValidation, id)
			}
			if _, ok := c.EnemyTemplates[s.EnemyTemplate]; !ok {
				return fmt.Errorf("%w: combat scene %q references unknown enemy template %q", ErrValidation, id, s.EnemyTemplate)
			}
		}
	}

	for _, ec := range c.EndConditions {
		if ec.Kind == EndStepBudget {
			for name := range ec.BonusPerStat {
				if err := checkStat(name, "step_budget bonus table"); err != nil {
					return err
				}
			}
		}
	}

	for _, id := range c.ActionOrder {
		a := c.Actions[id]
		for name := range a.StatChanges {
			if err := checkStat(name, "action "+id+" stat_changes"); err != nil {
				return err
			}
		}
		if a.Failure != nil {
			for name := range a.Failure.StatChanges {
				if err := checkStat(name, "action "+id+" failure stat_changes"); err != nil {
					return err
				}
			}
		}
	}

	for id, sk := range c.Skills {
		if sk.HealStat != "" {
			if err := checkStat(sk.HealStat, "skill "+id+" heal_stat"); err != nil {
				return err
			}
		}
	}
	return nil
}
