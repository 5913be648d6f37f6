package engine

import (
	"testing"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

const testCatalogJSON = `{
  "default_scene": "camp",
  "scenes": [
    {"id": "camp", "kind": "rest", "weight": 1,
     "transitions": [{"target": "trail", "weight": 1}]},
    {"id": "trail", "kind": "story", "weight": 2, "risk_delta": 1,
     "transitions": [
       {"target": "camp", "weight": 1},
       {"target": "den", "weight": 5, "requires": ["stat:bravery>=5"]}
     ]},
    {"id": "shrine", "kind": "story", "weight": 1, "once": true, "cooldown": 2,
     "requires": ["stat:intellect>=3"], "risk_delta": -1,
     "reward": {"gold": "5", "xp": "10"},
     "grants_goal": "blessing",
     "transitions": [{"target": "camp", "weight": 1}]},
    {"id": "den", "kind": "combat", "weight": 0, "enemy_template": "wolf",
     "transitions": [{"target": "camp", "weight": 1}]}
  ],
  "end_conditions": [
    {"kind": "risk_threshold", "threshold": 10},
    {"kind": "energy_depleted"},
    {"kind": "step_budget", "base": 4, "bonus_per_stat": {"intellect": 0.5, "stamina": 0.5}},
    {"kind": "goal_reached", "goal": "blessing"}
  ],
  "actions": [
    {"id": "scout", "kinds": ["story", "exploration"], "energy_cost": 5,
     "risk_delta": 4, "success_prob": 1, "stat_changes": {"bravery": 1}},
    {"id": "gamble", "kinds": ["story"], "energy_cost": 3, "risk_delta": 5,
     "success_prob": 0},
    {"id": "sneak", "kinds": ["story"], "energy_cost": 4, "risk_delta": 1,
     "success_prob": 0,
     "failure": {"energy_cost": 2, "risk_delta": 6, "stat_changes": {"bravery": -1}}},
    {"id": "forage", "kinds": ["rest", "story"], "energy_cost": 5,
     "risk_delta": 2, "success_prob": 1, "free_on_failure": true},
    {"id": "rest_here", "kinds": ["rest"], "energy_cost": 0, "risk_delta": -2,
     "success_prob": 1}
  ],
  "enemy_templates": [
    {"id": "wolf", "name": "Grey Wolf", "hp_mult": 8, "attack_mult": 1.5,
     "magic_mult": 0.2, "agility_mult": 0.1, "armor": 1, "gold_base": 6,
     "xp_base": 14, "loot": [{"item_id": "wolf_pelt", "chance": 1}]},
    {"id": "dummy", "name": "Training Dummy", "hp_mult": 1000,
     "attack_mult": 0, "magic_mult": 0, "agility_mult": 0,
     "gold_base": 0, "xp_base": 0, "scripted_action": "skip"}
  ],
  "skills": [
    {"id": "power_strike", "class": "warrior", "formula": "attack",
     "dice_count": 2, "dice_sides": 6, "cooldown": 3, "armor_pierce_chance": 1,
     "crit_bonus": 25},
    {"id": "mend_wounds", "class": "warrior", "formula": "attack",
     "dice_count": 1, "dice_sides": 4, "cooldown": 2, "heal_stat": "stamina",
     "status": {"kind": "stun", "chance": 1, "duration": 2}}
  ]
}`

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalogJSON))
	if err != nil {
		t.Fatalf("test catalog failed to parse: %v", err)
	}
	return c
}

func newTestPlayer() *game.PlayerState {
	return game.NewPlayerState(game.CharacterSnapshot{
		Name:       "Rin",
		Class:      "warrior",
		Level:      1,
		Bravery:    2,
		Charisma:   1,
		Intellect:  4,
		Stamina:    2,
		MaxHP:      30,
		Attack:     6,
		Magic:      3,
		Agility:    20,
		CritChance: 5,
		Gold:       50,
	}, 1)
}
