package engine

import (
	"fmt"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

const (
	baseHitChance  = 75.0
	hitChanceFloor = 40.0
	hitChanceCeil  = 95.0
	damageDieSides = 6
	critMultiplier = 1.5
	enemyCritBase  = 5.0
	escapeBase     = 50.0
	escapeCap      = 85.0
	bleedDamage    = 2
	weakenPenalty  = 1
	defeatGoldCut  = 10 // percent of gold lost on defeat
)

// ItemResolver is the extension point for combat item use. The core resolves
// no items itself; an external inventory collaborator decides the effect and
// returns a narration line.
type ItemResolver interface {
	UseItem(st *game.PlayerState, cs *game.CombatState, itemID string) (string, error)
}

// HitChance is the agility-differential hit formula, clamped to [40, 95].
func HitChance(attackerAgi, defenderAgi int) float64 {
	return clampF(baseHitChance+float64(attackerAgi-defenderAgi)*2.0, hitChanceFloor, hitChanceCeil)
}

// EscapeChance grows with agility and caps at 85 percent.
func EscapeChance(agility int) float64 {
	return clampF(escapeBase+float64(agility), 0, escapeCap)
}

// InitCombat spawns the scene's enemy, rolls initiative and, when the enemy
// wins it, resolves the enemy's opening attack so that every subsequent
// turn is driven by a hero command.
func InitCombat(cat *catalog.Catalog, st *game.PlayerState, scene *catalog.Scene, rng *RNG) *game.CombatState {
	tpl := cat.EnemyTemplates[scene.EnemyTemplate]
	enemy := SpawnEnemy(tpl, st.Stat(game.StatLevel), scene.EnemyMultiplier)

	cs := &game.CombatState{
		SceneID:        scene.ID,
		PlayerHP:       st.HP,
		PlayerMaxHP:    st.MaxHP,
		Enemy:          enemy,
		SkillCooldowns: map[string]int{},
	}
	cs.Append(fmt.Sprintf("%s (level %d) blocks the way", enemy.Name, enemy.Level))

	heroInit := st.Agility + rng.Roll(6)
	enemyInit := enemy.Agility + rng.Roll(6)
	// Ties favor the hero.
	if heroInit >= enemyInit {
		cs.TurnOrder = []string{game.SideHero, game.SideEnemy}
		cs.Append("you seize the initiative")
	} else {
		cs.TurnOrder = []string{game.SideEnemy, game.SideHero}
		cs.Append(fmt.Sprintf("%s strikes first", enemy.Name))
		enemyTurn(st, cs, rng)
		finishTurn(cs, game.SideEnemy)
		checkTermination(cs)
	}
	return cs
}

// ResolveTurn executes one hero command and, when combat continues, the
// enemy's answer. Status effects tick at the end of each side's turn and
// apply before the next action resolves.
func ResolveTurn(cat *catalog.Catalog, st *game.PlayerState, cs *game.CombatState, cmd game.CombatCommand, skillID string, items ItemResolver, rng *RNG) error {
	if cs.Over() {
		return game.ErrInvalidAction
	}

	escaped := false
	if cs.HasStatus(game.SideHero, game.StatusStun) {
		cs.Append("you are stunned and lose your turn")
	} else {
		switch cmd {
		case game.CommandAttack:
			heroAttack(st, cs, rng)
		case game.CommandSkill:
			if err := useSkill(cat, st, cs, skillID, rng); err != nil {
				return err
			}
		case game.CommandItem:
			if items == nil {
				return game.ErrInvalidAction
			}
			line, err := items.UseItem(st, cs, skillID)
			if err != nil {
				return err
			}
			cs.Append(line)
		case game.CommandRun:
			if rng.PercentChance(EscapeChance(st.Agility)) {
				cs.Result = game.CombatEscaped
				cs.Append("you slip away from the fight")
				escaped = true
			} else {
				cs.Append("escape fails; the enemy closes in")
			}
		default:
			return game.ErrInvalidAction
		}
	}

	finishTurn(cs, game.SideHero)
	if escaped {
		return nil
	}
	if checkTermination(cs) {
		return nil
	}

	if cs.HasStatus(game.SideEnemy, game.StatusStun) {
		cs.Append(fmt.Sprintf("%s is stunned and skips its turn", cs.Enemy.Name))
	} else {
		enemyTurn(st, cs, rng)
	}
	finishTurn(cs, game.SideEnemy)
	checkTermination(cs)
	return nil
}

// FoldCombat applies a finished encounter back onto the player state:
// victory grants the enemy's rewards exactly once, defeat restores 1 HP and
// costs a slice of gold, escape carries only the hit points lost.
func FoldCombat(st *game.PlayerState, cs *game.CombatState, rng *RNG) {
	switch cs.Result {
	case game.CombatVictory:
		st.HP = cs.PlayerHP
		// Bleed can tick the hero to zero on the same turn the enemy dies.
		if st.HP < 1 {
			st.HP = 1
		}
		st.Gold += cs.Enemy.GoldReward
		st.AddExperience(cs.Enemy.XPReward)
		for _, drop := range cs.Enemy.Loot {
			if rng.Chance(drop.Chance) {
				st.Items = append(st.Items, drop.ItemID)
			}
		}
	case game.CombatDefeat:
		st.HP = 1
		st.Gold -= st.Gold * defeatGoldCut / 100
	case game.CombatEscaped:
		st.HP = cs.PlayerHP
		if st.HP < 1 {
			st.HP = 1
		}
	}
}

func heroAttack(st *game.PlayerState, cs *game.CombatState, rng *RNG) {
	hit := HitChance(st.Agility, cs.Enemy.Agility)
	if !rng.PercentChance(hit) {
		cs.Append("your attack misses")
		return
	}
	atk := st.Attack
	if cs.HasStatus(game.SideHero, game.StatusWeaken) {
		atk -= weakenPenalty
	}
	crit := rng.PercentChance(st.CritChance + cs.CritBonus)
	dmg := rollDamage(atk, rng.Roll(damageDieSides), crit)
	dmg = applyArmor(dmg, cs.Enemy.Armor)
	cs.Enemy.HP -= dmg
	if cs.Enemy.HP < 0 {
		cs.Enemy.HP = 0
	}
	if crit {
		cs.Append(fmt.Sprintf("critical hit! %d damage to %s", dmg, cs.Enemy.Name))
	} else {
		cs.Append(fmt.Sprintf("you hit %s for %d damage", cs.Enemy.Name, dmg))
	}
}

func enemyTurn(st *game.PlayerState, cs *game.CombatState, rng *RNG) {
	// Simple deterministic AI: always attack unless the template scripts
	// the turn away.
	if cs.Enemy.ScriptedAction == "skip" {
		cs.Append(fmt.Sprintf("%s hesitates", cs.Enemy.Name))
		return
	}
	hit := HitChance(cs.Enemy.Agility, st.Agility)
	if !rng.PercentChance(hit) {
		cs.Append(fmt.Sprintf("%s misses you", cs.Enemy.Name))
		return
	}
	atk := cs.Enemy.Attack
	if cs.HasStatus(game.SideEnemy, game.StatusWeaken) {
		atk -= weakenPenalty
	}
	crit := rng.PercentChance(enemyCritBase)
	dmg := rollDamage(atk, rng.Roll(damageDieSides), crit)
	cs.PlayerHP -= dmg
	if cs.PlayerHP < 0 {
		cs.PlayerHP = 0
	}
	if crit {
		cs.Append(fmt.Sprintf("%s lands a critical blow for %d damage", cs.Enemy.Name, dmg))
	} else {
		cs.Append(fmt.Sprintf("%s hits you for %d damage", cs.Enemy.Name, dmg))
	}
}

// finishTurn ticks the acting side's status effects and, for the hero,
// winds down skill cooldowns.
func finishTurn(cs *game.CombatState, side string) {
	if side == game.SideHero {
		cs.HeroEffects = tickEffects(cs.HeroEffects, func(e game.StatusEffectInstance) {
			if e.Kind == game.StatusBleed {
				cs.PlayerHP -= bleedDamage
				if cs.PlayerHP < 0 {
					cs.PlayerHP = 0
				}
				cs.Append(fmt.Sprintf("bleeding costs you %d hp", bleedDamage))
			}
		})
		for id, cd := range cs.SkillCooldowns {
			cd--
			if cd <= 0 {
				delete(cs.SkillCooldowns, id)
			} else {
				cs.SkillCooldowns[id] = cd
			}
		}
		// A skill's crit bonus lasts only for the turn that used it.
		cs.CritBonus = 0
	} else {
		cs.EnemyEffects = tickEffects(cs.EnemyEffects, func(e game.StatusEffectInstance) {
			if e.Kind == game.StatusBleed {
				cs.Enemy.HP -= bleedDamage
				if cs.Enemy.HP < 0 {
					cs.Enemy.HP = 0
				}
				cs.Append(fmt.Sprintf("%s bleeds for %d hp", cs.Enemy.Name, bleedDamage))
			}
		})
	}
	cs.TurnIndex++
}

func tickEffects(effects []game.StatusEffectInstance, apply func(game.StatusEffectInstance)) []game.StatusEffectInstance {
	kept := effects[:0]
	for _, e := range effects {
		apply(e)
		e.Duration--
		if e.Duration > 0 {
			kept = append(kept, e)
		}
	}
	return kept
}

func checkTermination(cs *game.CombatState) bool {
	if cs.Result != game.CombatOngoing {
		return true
	}
	if cs.Enemy.HP <= 0 {
		cs.Result = game.CombatVictory
		cs.Append(fmt.Sprintf("%s is defeated", cs.Enemy.Name))
		return true
	}
	if cs.PlayerHP <= 0 {
		cs.Result = game.CombatDefeat
		cs.Append("you fall in battle")
		return true
	}
	return false
}

func rollDamage(base, die int, crit bool) int {
	total := base + die
	if crit {
		total = int(float64(total) * critMultiplier)
	}
	if total < 1 {
		total = 1
	}
	return total
}

func applyArmor(dmg, armor int) int {
	dmg -= armor
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
