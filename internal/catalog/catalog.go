package catalog

import (
	"sort"

	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

// SceneKind classifies a scene node.
type SceneKind string

const (
	KindStory       SceneKind = "story"
	KindChoice      SceneKind = "choice"
	KindEncounter   SceneKind = "encounter"
	KindDialogue    SceneKind = "dialogue"
	KindRest        SceneKind = "rest"
	KindExploration SceneKind = "exploration"
	KindQuest       SceneKind = "quest"
	KindLoot        SceneKind = "loot"
	KindCombat      SceneKind = "combat"
)

var sceneKinds = map[SceneKind]struct{}{
	KindStory: {}, KindChoice: {}, KindEncounter: {}, KindDialogue: {},
	KindRest: {}, KindExploration: {}, KindQuest: {}, KindLoot: {},
	KindCombat: {},
}

// Reward is a scene's entry reward: gold/xp rolled from dice expressions
// plus fixed item grants.
type Reward struct {
	Gold  Dice
	XP    Dice
	Items []string
}

// Transition is a weighted, requirement-gated edge to a candidate scene.
type Transition struct {
	Target   string
	Weight   float64
	Requires []Predicate
}

// Scene is one node of the adventure graph.
type Scene struct {
	ID        string
	Kind      SceneKind
	Weight    float64
	Once      bool
	Requires  []Predicate
	Blocks    []Predicate
	Cooldown  int
	RiskDelta int
	Reward    Reward

	// GrantsGoal / CompletesQuest fire on scene entry and feed the
	// goal-reached and quest-completed end conditions.
	GrantsGoal     string
	CompletesQuest string

	Transitions []Transition

	// Combat-only fields: the enemy template spawned on entry and the
	// difficulty multiplier applied to its stats and rewards.
	EnemyTemplate   string
	EnemyMultiplier float64
}

// EndKind tags the end-condition variants. EndOrder is the fixed priority
// in which the engine evaluates them.
type EndKind string

const (
	EndRiskThreshold  EndKind = "risk_threshold"
	EndEnergyDepleted EndKind = "energy_depleted"
	EndStepBudget     EndKind = "step_budget"
	EndGoalReached    EndKind = "goal_reached"
	EndQuestCompleted EndKind = "quest_completed"
)

// EndOrder is the evaluation priority; the first condition that holds wins.
var EndOrder = []EndKind{
	EndRiskThreshold, EndEnergyDepleted, EndStepBudget,
	EndGoalReached, EndQuestCompleted,
}

// EndCondition is one tagged end-condition variant.
type EndCondition struct {
	Kind         EndKind
	Threshold    int                // risk_threshold
	Base         int                // step_budget
	BonusPerStat map[string]float64 // step_budget
	Goal         string             // goal_reached
	Quest        string             // quest_completed
}

// FailureEffect is an action's optional alternate consequence on failure.
type FailureEffect struct {
	EnergyCost  int
	RiskDelta   int
	StatChanges map[string]int
}

// ActionDefinition describes one player action and its effects.
type ActionDefinition struct {
	ID          string
	Kinds       map[SceneKind]struct{}
	EnergyCost  int
	RiskDelta   int
	StatChanges map[string]int
	SuccessProb float64
	// FreeOnFailure actions never reject for lack of energy; they simply
	// fail without spending anything.
	FreeOnFailure bool
	Failure       *FailureEffect
}

// AppliesTo reports whether the action is legal for a scene kind.
func (a *ActionDefinition) AppliesTo(kind SceneKind) bool {
	_, ok := a.Kinds[kind]
	return ok
}

// EnemyTemplate scales into a combat-time enemy by player level and the
// scene's difficulty multiplier.
type EnemyTemplate struct {
	ID             string
	Name           string
	HPMult         float64
	AttackMult     float64
	MagicMult      float64
	AgilityMult    float64
	Armor          int
	GoldBase       int
	XPBase         int
	Loot           []game.LootDrop
	ScriptedAction string
}

// SkillFormula selects the attacking stat a skill is built on.
type SkillFormula string

const (
	FormulaAttack SkillFormula = "attack"
	FormulaMagic  SkillFormula = "magic"
)

// StatusApplication is a chance to attach a status effect on skill hit.
type StatusApplication struct {
	Kind     game.StatusKind
	Chance   float64
	Duration int
}

// SkillDefinition is a data-described class skill: formula tag plus
// parameters, so new classes are a catalog change rather than a code change.
type SkillDefinition struct {
	ID        string
	Class     string
	Formula   SkillFormula
	DiceCount int
	DiceSides int
	Cooldown  int
	// CritBonus is an additive crit-chance bonus (percent points) granted
	// for the remainder of the combat once the skill hits.
	CritBonus float64
	// HealStat heals the hero for the named stat's value on hit.
	HealStat string
	// ArmorPierceChance ignores enemy armor with this probability, but only
	// when the hero acts first in the turn order.
	ArmorPierceChance float64
	Status            *StatusApplication
}

// Catalog is the immutable, validated rule set shared by every session.
type Catalog struct {
	Scenes     map[string]*Scene
	SceneOrder []string

	EndConditions  []EndCondition
	Actions        map[string]*ActionDefinition
	ActionOrder    []string
	EnemyTemplates map[string]*EnemyTemplate
	Skills         map[string]*SkillDefinition

	DefaultScene    string
	ServerAddr      string
	NarrationPrompt string
}

// Scene returns the scene by id, or nil.
func (c *Catalog) Scene(id string) *Scene {
	return c.Scenes[id]
}

// ActionsFor returns the ids of actions legal in the given scene kind, in
// catalog declaration order.
func (c *Catalog) ActionsFor(kind SceneKind) []string {
	out := make([]string, 0, 4)
	for _, id := range c.ActionOrder {
		if c.Actions[id].AppliesTo(kind) {
			out = append(out, id)
		}
	}
	return out
}

// SkillsForClass returns the skill ids available to a character class.
func (c *Catalog) SkillsForClass(class string) []string {
	out := make([]string, 0, 2)
	for id, s := range c.Skills {
		if s.Class == class {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
