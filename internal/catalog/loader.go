package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

// ErrValidation marks catalog authoring errors. Loading an invalid catalog
// is fatal: the process must not start with one.
var ErrValidation = errors.New("catalog validation failed")

type rawTransition struct {
	Target   string   `json:"target"`
	Weight   float64  `json:"weight"`
	Requires []string `json:"requires"`
}

type rawReward struct {
	Gold  string   `json:"gold"`
	XP    string   `json:"xp"`
	Items []string `json:"items"`
}

type rawScene struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	Weight          float64         `json:"weight"`
	Once            bool            `json:"once"`
	Requires        []string        `json:"requires"`
	Blocks          []string        `json:"blocks"`
	Cooldown        int             `json:"cooldown"`
	RiskDelta       int             `json:"risk_delta"`
	Reward          rawReward       `json:"reward"`
	GrantsGoal      string          `json:"grants_goal"`
	CompletesQuest  string          `json:"completes_quest"`
	Transitions     []rawTransition `json:"transitions"`
	EnemyTemplate   string          `json:"enemy_template"`
	EnemyMultiplier float64         `json:"enemy_multiplier"`
}

type rawEndCondition struct {
	Kind         string             `json:"kind"`
	Threshold    int                `json:"threshold"`
	Base         int                `json:"base"`
	BonusPerStat map[string]float64 `json:"bonus_per_stat"`
	Goal         string             `json:"goal"`
	Quest        string             `json:"quest"`
}

type rawFailure struct {
	EnergyCost  int            `json:"energy_cost"`
	RiskDelta   int            `json:"risk_delta"`
	StatChanges map[string]int `json:"stat_changes"`
}

type rawAction struct {
	ID            string         `json:"id"`
	Kinds         []string       `json:"kinds"`
	EnergyCost    int            `json:"energy_cost"`
	RiskDelta     int            `json:"risk_delta"`
	StatChanges   map[string]int `json:"stat_changes"`
	SuccessProb   float64        `json:"success_prob"`
	FreeOnFailure bool           `json:"free_on_failure"`
	Failure       *rawFailure    `json:"failure"`
}

type rawEnemyTemplate struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	HPMult         float64         `json:"hp_mult"`
	AttackMult     float64         `json:"attack_mult"`
	MagicMult      float64         `json:"magic_mult"`
	AgilityMult    float64         `json:"agility_mult"`
	Armor          int             `json:"armor"`
	GoldBase       int             `json:"gold_base"`
	XPBase         int             `json:"xp_base"`
	Loot           []game.LootDrop `json:"loot"`
	ScriptedAction string          `json:"scripted_action"`
}

type rawStatus struct {
	Kind     string  `json:"kind"`
	Chance   float64 `json:"chance"`
	Duration int     `json:"duration"`
}

type rawSkill struct {
	ID                string     `json:"id"`
	Class             string     `json:"class"`
	Formula           string     `json:"formula"`
	DiceCount         int        `json:"dice_count"`
	DiceSides         int        `json:"dice_sides"`
	Cooldown          int        `json:"cooldown"`
	CritBonus         float64    `json:"crit_bonus"`
	HealStat          string     `json:"heal_stat"`
	ArmorPierceChance float64    `json:"armor_pierce_chance"`
	Status            *rawStatus `json:"status"`
}

type rawCatalog struct {
	Scenes         []rawScene         `json:"scenes"`
	EndConditions  []rawEndCondition  `json:"end_conditions"`
	Actions        []rawAction        `json:"actions"`
	EnemyTemplates []rawEnemyTemplate `json:"enemy_templates"`
	Skills         []rawSkill         `json:"skills"`
	DefaultScene   string             `json:"default_scene"`
	Server         *struct {
		Address string `json:"address"`
		// Optional narration prompt template passed to the narrative
		// provider. Use the tokens {{scene}}, {{action}} and {{tags}}
		// where the request fields will be substituted.
		NarrationPrompt string `json:"narration_prompt"`
	} `json:"server"`
}

// Load reads, compiles and validates the catalog file at path. The returned
// catalog is immutable and safe to share across sessions.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return Parse(b)
}

// Parse compiles and validates catalog JSON.
func Parse(b []byte) (*Catalog, error) {
	var rc rawCatalog
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrValidation, err)
	}

	c := &Catalog{
		Scenes:         make(map[string]*Scene, len(rc.Scenes)),
		Actions:        make(map[string]*ActionDefinition, len(rc.Actions)),
		EnemyTemplates: make(map[string]*EnemyTemplate, len(rc.EnemyTemplates)),
		Skills:         make(map[string]*SkillDefinition, len(rc.Skills)),
		DefaultScene:   rc.DefaultScene,
		ServerAddr:     "",
	}
	if rc.Server != nil {
		c.ServerAddr = rc.Server.Address
		c.NarrationPrompt = strings.TrimSpace(rc.Server.NarrationPrompt)
	}

	for _, rs := range rc.Scenes {
		s, err := compileScene(rs)
		if err != nil {
			return nil, err
		}
		if _, dup := c.Scenes[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate scene id %q", ErrValidation, s.ID)
		}
		c.Scenes[s.ID] = s
		c.SceneOrder = append(c.SceneOrder, s.ID)
	}

	for _, re := range rc.EndConditions {
		ec, err := compileEndCondition(re)
		if err != nil {
			return nil, err
		}
		c.EndConditions = append(c.EndConditions, ec)
	}

	for _, ra := range rc.Actions {
		a, err := compileAction(ra)
		if err != nil {
			return nil, err
		}
		if _, dup := c.Actions[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate action id %q", ErrValidation, a.ID)
		}
		c.Actions[a.ID] = a
		c.ActionOrder = append(c.ActionOrder, a.ID)
	}

	for _, rt := range rc.EnemyTemplates {
		t, err := compileEnemyTemplate(rt)
		if err != nil {
			return nil, err
		}
		if _, dup := c.EnemyTemplates[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate enemy template id %q", ErrValidation, t.ID)
		}
		c.EnemyTemplates[t.ID] = t
	}

	for _, rk := range rc.Skills {
		sk, err := compileSkill(rk)
		if err != nil {
			return nil, err
		}
		if _, dup := c.Skills[sk.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate skill id %q", ErrValidation, sk.ID)
		}
		c.Skills[sk.ID] = sk
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func compilePredicates(raw []string, where string) ([]Predicate, error) {
	out := make([]Predicate, 0, len(raw))
	for _, s := range raw {
		p, err := ParsePredicate(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidation, where, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func compileScene(rs rawScene) (*Scene, error) {
	if rs.ID == "" {
		return nil, fmt.Errorf("%w: scene missing 'id'", ErrValidation)
	}
	kind := SceneKind(rs.Kind)
	if _, ok := sceneKinds[kind]; !ok {
		return nil, fmt.Errorf("%w: scene %q: unknown kind %q", ErrValidation, rs.ID, rs.Kind)
	}
	if rs.Weight < 0 {
		return nil, fmt.Errorf("%w: scene %q: negative weight", ErrValidation, rs.ID)
	}
	req, err := compilePredicates(rs.Requires, "scene "+rs.ID+" requires")
	if err != nil {
		return nil, err
	}
	blocks, err := compilePredicates(rs.Blocks, "scene "+rs.ID+" blocks")
	if err != nil {
		return nil, err
	}
	gold, err := ParseDice(rs.Reward.Gold)
	if err != nil {
		return nil, fmt.Errorf("%w: scene %q reward gold: %v", ErrValidation, rs.ID, err)
	}
	xp, err := ParseDice(rs.Reward.XP)
	if err != nil {
		return nil, fmt.Errorf("%w: scene %q reward xp: %v", ErrValidation, rs.ID, err)
	}
	s := &Scene{
		ID:              rs.ID,
		Kind:            kind,
		Weight:          rs.Weight,
		Once:            rs.Once,
		Requires:        req,
		Blocks:          blocks,
		Cooldown:        rs.Cooldown,
		RiskDelta:       rs.RiskDelta,
		Reward:          Reward{Gold: gold, XP: xp, Items: rs.Reward.Items},
		GrantsGoal:      rs.GrantsGoal,
		CompletesQuest:  rs.CompletesQuest,
		EnemyTemplate:   rs.EnemyTemplate,
		EnemyMultiplier: rs.EnemyMultiplier,
	}
	if s.EnemyMultiplier == 0 {
		s.EnemyMultiplier = 1.0
	}
	for _, rt := range rs.Transitions {
		if rt.Weight < 0 {
			return nil, fmt.Errorf("%w: scene %q: transition to %q has negative weight", ErrValidation, rs.ID, rt.Target)
		}
		treq, err := compilePredicates(rt.Requires, "scene "+rs.ID+" transition "+rt.Target)
		if err != nil {
			return nil, err
		}
		s.Transitions = append(s.Transitions, Transition{Target: rt.Target, Weight: rt.Weight, Requires: treq})
	}
	return s, nil
}

func compileEndCondition(re rawEndCondition) (EndCondition, error) {
	kind := EndKind(re.Kind)
	switch kind {
	case EndRiskThreshold:
		if re.Threshold <= 0 {
			return EndCondition{}, fmt.Errorf("%w: risk_threshold requires positive 'threshold'", ErrValidation)
		}
	case EndEnergyDepleted:
		// no parameters
	case EndStepBudget:
		if re.Base <= 0 {
			return EndCondition{}, fmt.Errorf("%w: step_budget requires positive 'base'", ErrValidation)
		}
	case EndGoalReached:
		if re.Goal == "" {
			return EndCondition{}, fmt.Errorf("%w: goal_reached requires 'goal'", ErrValidation)
		}
	case EndQuestCompleted:
		if re.Quest == "" {
			return EndCondition{}, fmt.Errorf("%w: quest_completed requires 'quest'", ErrValidation)
		}
	default:
		return EndCondition{}, fmt.Errorf("%w: unknown end condition kind %q", ErrValidation, re.Kind)
	}
	return EndCondition{
		Kind:         kind,
		Threshold:    re.Threshold,
		Base:         re.Base,
		BonusPerStat: re.BonusPerStat,
		Goal:         re.Goal,
		Quest:        re.Quest,
	}, nil
}

func compileAction(ra rawAction) (*ActionDefinition, error) {
	if ra.ID == "" {
		return nil, fmt.Errorf("%w: action missing 'id'", ErrValidation)
	}
	if len(ra.Kinds) == 0 {
		return nil, fmt.Errorf("%w: action %q: empty 'kinds'", ErrValidation, ra.ID)
	}
	if ra.SuccessProb < 0 || ra.SuccessProb > 1 {
		return nil, fmt.Errorf("%w: action %q: success_prob outside [0,1]", ErrValidation, ra.ID)
	}
	kinds := make(map[SceneKind]struct{}, len(ra.Kinds))
	for _, k := range ra.Kinds {
		kind := SceneKind(k)
		if _, ok := sceneKinds[kind]; !ok {
			return nil, fmt.Errorf("%w: action %q: unknown scene kind %q", ErrValidation, ra.ID, k)
		}
		kinds[kind] = struct{}{}
	}
	a := &ActionDefinition{
		ID:            ra.ID,
		Kinds:         kinds,
		EnergyCost:    ra.EnergyCost,
		RiskDelta:     ra.RiskDelta,
		StatChanges:   ra.StatChanges,
		SuccessProb:   ra.SuccessProb,
		FreeOnFailure: ra.FreeOnFailure,
	}
	if ra.Failure != nil {
		a.Failure = &FailureEffect{
			EnergyCost:  ra.Failure.EnergyCost,
			RiskDelta:   ra.Failure.RiskDelta,
			StatChanges: ra.Failure.StatChanges,
		}
	}
	return a, nil
}

func compileEnemyTemplate(rt rawEnemyTemplate) (*EnemyTemplate, error) {
	if rt.ID == "" {
		return nil, fmt.Errorf("%w: enemy template missing 'id'", ErrValidation)
	}
	if rt.Name == "" {
		return nil, fmt.Errorf("%w: enemy template %q missing 'name'", ErrValidation, rt.ID)
	}
	if rt.HPMult <= 0 {
		return nil, fmt.Errorf("%w: enemy template %q: hp_mult must be positive", ErrValidation, rt.ID)
	}
	for _, l := range rt.Loot {
		if l.ItemID == "" || l.Chance < 0 || l.Chance > 1 {
			return nil, fmt.Errorf("%w: enemy template %q: malformed loot entry", ErrValidation, rt.ID)
		}
	}
	return &EnemyTemplate{
		ID:             rt.ID,
		Name:           rt.Name,
		HPMult:         rt.HPMult,
		AttackMult:     rt.AttackMult,
		MagicMult:      rt.MagicMult,
		AgilityMult:    rt.AgilityMult,
		Armor:          rt.Armor,
		GoldBase:       rt.GoldBase,
		XPBase:         rt.XPBase,
		Loot:           rt.Loot,
		ScriptedAction: rt.ScriptedAction,
	}, nil
}

func compileSkill(rk rawSkill) (*SkillDefinition, error) {
	if rk.ID == "" {
		return nil, fmt.Errorf("%w: skill missing 'id'", ErrValidation)
	}
	if rk.Class == "" {
		return nil, fmt.Errorf("%w: skill %q missing 'class'", ErrValidation, rk.ID)
	}
	formula := SkillFormula(rk.Formula)
	if formula != FormulaAttack && formula != FormulaMagic {
		return nil, fmt.Errorf("%w: skill %q: unknown formula %q", ErrValidation, rk.ID, rk.Formula)
	}
	if rk.DiceCount < 1 || rk.DiceSides < 1 {
		return nil, fmt.Errorf("%w: skill %q: dice_count and dice_sides must be positive", ErrValidation, rk.ID)
	}
	if rk.Cooldown < 0 {
		return nil, fmt.Errorf("%w: skill %q: negative cooldown", ErrValidation, rk.ID)
	}
	sk := &SkillDefinition{
		ID:                rk.ID,
		Class:             rk.Class,
		Formula:           formula,
		DiceCount:         rk.DiceCount,
		DiceSides:         rk.DiceSides,
		Cooldown:          rk.Cooldown,
		CritBonus:         rk.CritBonus,
		HealStat:          rk.HealStat,
		ArmorPierceChance: rk.ArmorPierceChance,
	}
	if rk.Status != nil {
		kind := game.StatusKind(rk.Status.Kind)
		if kind != game.StatusBleed && kind != game.StatusWeaken && kind != game.StatusStun {
			return nil, fmt.Errorf("%w: skill %q: unknown status kind %q", ErrValidation, rk.ID, rk.Status.Kind)
		}
		if rk.Status.Chance < 0 || rk.Status.Chance > 1 || rk.Status.Duration < 1 {
			return nil, fmt.Errorf("%w: skill %q: malformed status application", ErrValidation, rk.ID)
		}
		sk.Status = &StatusApplication{Kind: kind, Chance: rk.Status.Chance, Duration: rk.Status.Duration}
	}
	return sk, nil
}
