package engine

import (
	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

// SpawnEnemy scales an enemy template to the player's level and the scene's
// difficulty multiplier.
func SpawnEnemy(tpl *catalog.EnemyTemplate, level int, multiplier float64) game.Enemy {
	if level < 1 {
		level = 1
	}
	if multiplier <= 0 {
		multiplier = 1.0
	}
	hp := int(tpl.HPMult * float64(level) * multiplier)
	if hp < 1 {
		hp = 1
	}
	return game.Enemy{
		Name:           tpl.Name,
		Level:          level,
		HP:             hp,
		MaxHP:          hp,
		Attack:         int((tpl.AttackMult*float64(level) + 2) * multiplier),
		Magic:          int((tpl.MagicMult*float64(level) + 1) * multiplier),
		Agility:        int((tpl.AgilityMult*float64(level) + 8) * multiplier),
		Armor:          int(float64(tpl.Armor) * multiplier),
		GoldReward:     int(float64(tpl.GoldBase) * float64(level) * multiplier),
		XPReward:       int(float64(tpl.XPBase) * float64(level) * multiplier),
		Loot:           tpl.Loot,
		ScriptedAction: tpl.ScriptedAction,
	}
}
