package game

// Combat participant tags used in the turn order.
const (
	SideHero  = "hero"
	SideEnemy = "enemy"
)

// CombatCommand is one of the four hero-turn inputs.
type CombatCommand string

const (
	CommandAttack CombatCommand = "attack"
	CommandSkill  CombatCommand = "skill"
	CommandItem   CombatCommand = "item"
	CommandRun    CombatCommand = "run"
)

// CombatResult describes how an encounter ended.
type CombatResult string

const (
	CombatOngoing CombatResult = ""
	CombatVictory CombatResult = "victory"
	CombatDefeat  CombatResult = "defeat"
	CombatEscaped CombatResult = "escaped"
)

// StatusKind is a timed combat modifier.
type StatusKind string

const (
	StatusBleed  StatusKind = "bleed"  // -2 HP per tick
	StatusWeaken StatusKind = "weaken" // -1 effective ATK
	StatusStun   StatusKind = "stun"   // skip next turn
)

// StatusEffectInstance is one active status effect on a combatant.
type StatusEffectInstance struct {
	Kind      StatusKind `json:"kind"`
	Duration  int        `json:"duration"`
	Magnitude int        `json:"magnitude,omitempty"`
}

// Enemy is the combat-time snapshot of an enemy template scaled to the
// player's level and the scene's difficulty multiplier.
type Enemy struct {
	Name       string     `json:"name"`
	Level      int        `json:"level"`
	HP         int        `json:"hp"`
	MaxHP      int        `json:"max_hp"`
	Attack     int        `json:"attack"`
	Magic      int        `json:"magic"`
	Agility    int        `json:"agility"`
	Armor      int        `json:"armor"`
	GoldReward int        `json:"gold_reward"`
	XPReward   int        `json:"xp_reward"`
	Loot       []LootDrop `json:"loot,omitempty"`
	// ScriptedAction overrides the default always-attack AI when set.
	ScriptedAction string `json:"scripted_action,omitempty"`
}

// LootDrop is one weighted entry of an enemy loot table.
type LootDrop struct {
	ItemID string  `json:"item_id"`
	Chance float64 `json:"chance"`
}

// MaxCombatLog bounds the append-only narration log.
const MaxCombatLog = 100

// CombatState is the embedded sub-state while a combat scene is active.
// Like PlayerState it is a flat, JSON-serializable structure.
type CombatState struct {
	SceneID     string `json:"scene_id"`
	PlayerHP    int    `json:"player_hp"`
	PlayerMaxHP int    `json:"player_max_hp"`
	Enemy       Enemy  `json:"enemy"`

	TurnOrder []string `json:"turn_order"`
	TurnIndex int      `json:"turn_index"`

	HeroEffects  []StatusEffectInstance `json:"hero_effects"`
	EnemyEffects []StatusEffectInstance `json:"enemy_effects"`

	SkillCooldowns map[string]int `json:"skill_cooldowns"`

	Log []string `json:"log"`

	// CritBonus is a transient additive crit-chance bonus (percent points).
	CritBonus float64 `json:"crit_bonus"`

	Result CombatResult `json:"result"`
}

// IsHeroTurn reports whose turn the current index points at.
func (c *CombatState) IsHeroTurn() bool {
	if len(c.TurnOrder) == 0 {
		return true
	}
	return c.TurnOrder[c.TurnIndex%len(c.TurnOrder)] == SideHero
}

// Over reports whether either side is out of hit points or the fight has
// otherwise concluded.
func (c *CombatState) Over() bool {
	return c.Result != CombatOngoing || c.PlayerHP <= 0 || c.Enemy.HP <= 0
}

// Append adds a narration line, dropping the oldest lines past the bound.
func (c *CombatState) Append(line string) {
	c.Log = append(c.Log, line)
	if len(c.Log) > MaxCombatLog {
		c.Log = c.Log[len(c.Log)-MaxCombatLog:]
	}
}

// HasStatus reports whether the given side currently has the effect.
func (c *CombatState) HasStatus(side string, kind StatusKind) bool {
	for _, e := range c.effectsFor(side) {
		if e.Kind == kind && e.Duration > 0 {
			return true
		}
	}
	return false
}

func (c *CombatState) effectsFor(side string) []StatusEffectInstance {
	if side == SideHero {
		return c.HeroEffects
	}
	return c.EnemyEffects
}
