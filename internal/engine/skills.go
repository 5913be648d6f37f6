package engine

import (
	"fmt"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

// useSkill resolves a data-described class skill. The formula tag and
// parameters come entirely from the catalog so adding a class or skill is a
// data change.
func useSkill(cat *catalog.Catalog, st *game.PlayerState, cs *game.CombatState, skillID string, rng *RNG) error {
	def := cat.Skills[skillID]
	if def == nil || def.Class != st.Class {
		return game.ErrInvalidAction
	}
	if cs.SkillCooldowns[skillID] > 0 {
		return game.ErrInvalidAction
	}
	cs.SkillCooldowns[skillID] = def.Cooldown

	hit := HitChance(st.Agility, cs.Enemy.Agility)
	if !rng.PercentChance(hit) {
		cs.Append(fmt.Sprintf("%s misses", def.ID))
		return nil
	}

	base := st.Attack
	if def.Formula == catalog.FormulaMagic {
		base = st.Magic
	}
	if cs.HasStatus(game.SideHero, game.StatusWeaken) {
		base -= weakenPenalty
	}

	if def.CritBonus > 0 {
		cs.CritBonus = def.CritBonus
	}
	crit := rng.PercentChance(st.CritChance + cs.CritBonus)
	dmg := rollDamage(base, rng.RollDice(def.DiceCount, def.DiceSides), crit)

	// Armor pierce only applies when the hero opened the fight.
	pierced := false
	if def.ArmorPierceChance > 0 && len(cs.TurnOrder) > 0 && cs.TurnOrder[0] == game.SideHero {
		pierced = rng.Chance(def.ArmorPierceChance)
	}
	if !pierced {
		dmg = applyArmor(dmg, cs.Enemy.Armor)
	}

	cs.Enemy.HP -= dmg
	if cs.Enemy.HP < 0 {
		cs.Enemy.HP = 0
	}
	if crit {
		cs.Append(fmt.Sprintf("%s crits %s for %d damage", def.ID, cs.Enemy.Name, dmg))
	} else {
		cs.Append(fmt.Sprintf("%s hits %s for %d damage", def.ID, cs.Enemy.Name, dmg))
	}

	if def.HealStat != "" {
		heal := st.Stat(def.HealStat)
		if heal > 0 {
			cs.PlayerHP += heal
			if cs.PlayerHP > cs.PlayerMaxHP {
				cs.PlayerHP = cs.PlayerMaxHP
			}
			cs.Append(fmt.Sprintf("you recover %d hp", heal))
		}
	}

	if def.Status != nil && rng.Chance(def.Status.Chance) {
		cs.EnemyEffects = append(cs.EnemyEffects, game.StatusEffectInstance{
			Kind:     def.Status.Kind,
			Duration: def.Status.Duration,
		})
		cs.Append(fmt.Sprintf("%s suffers %s", cs.Enemy.Name, def.Status.Kind))
	}
	return nil
}
