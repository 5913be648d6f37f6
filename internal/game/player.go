package game

// Stat names recognized by catalog predicates and step-budget bonus tables.
const (
	StatBravery   = "bravery"
	StatCharisma  = "charisma"
	StatIntellect = "intellect"
	StatStamina   = "stamina"
	StatLevel     = "level"
)

// KnownStats lists every stat name the catalog may reference.
var KnownStats = []string{StatBravery, StatCharisma, StatIntellect, StatStamina, StatLevel}

// SessionStatus describes the lifecycle of an adventure session.
type SessionStatus string

const (
	StatusActive SessionStatus = "active"
	StatusCombat SessionStatus = "combat"
	StatusEnded  SessionStatus = "ended"
)

// CharacterSnapshot is the caller-supplied character sheet used to seed a
// new PlayerState. It is read once at adventure start and never mutated.
type CharacterSnapshot struct {
	Name       string  `json:"name"`
	Class      string  `json:"class"`
	Level      int     `json:"level"`
	Bravery    int     `json:"bravery"`
	Charisma   int     `json:"charisma"`
	Intellect  int     `json:"intellect"`
	Stamina    int     `json:"stamina"`
	MaxHP      int     `json:"max_hp"`
	Attack     int     `json:"attack"`
	Magic      int     `json:"magic"`
	Agility    int     `json:"agility"`
	CritChance float64 `json:"crit_chance"`
	Gold       int     `json:"gold"`
	XP         int     `json:"xp"`
}

// PlayerState is the per-player mutable record driving an adventure. Every
// field is a primitive or a map/slice of primitives so the whole struct can
// be snapshotted to JSON and restored verbatim by the session store.
type PlayerState struct {
	Name  string `json:"name"`
	Class string `json:"class"`

	Energy    int `json:"energy"`
	MaxEnergy int `json:"max_energy"`
	Risk      int `json:"risk"`

	Stats map[string]int `json:"stats"`

	HP         int     `json:"hp"`
	MaxHP      int     `json:"max_hp"`
	Attack     int     `json:"attack"`
	Magic      int     `json:"magic"`
	Agility    int     `json:"agility"`
	CritChance float64 `json:"crit_chance"`

	Gold  int      `json:"gold"`
	XP    int      `json:"xp"`
	Items []string `json:"items"`

	// Visited maps scene id to visit count; membership checks use count > 0.
	Visited   map[string]int  `json:"visited"`
	Cooldowns map[string]int  `json:"cooldowns"`
	Goals     map[string]bool `json:"goals"`
	Quests    map[string]bool `json:"quests"`

	StepCount    int    `json:"step_count"`
	CurrentScene string `json:"current_scene"`

	// Seed and RNGPos make the random sequence reproducible: restoring a
	// session replays the generator to the recorded position.
	Seed   int64 `json:"seed"`
	RNGPos int64 `json:"rng_pos"`
}

// MaxEnergyDefault is the starting and maximum energy for new adventures.
const MaxEnergyDefault = 100

// NewPlayerState builds the initial adventure state from a character
// snapshot: full energy, zero risk, stats copied from the sheet.
func NewPlayerState(snap CharacterSnapshot, seed int64) *PlayerState {
	level := snap.Level
	if level < 1 {
		level = 1
	}
	maxHP := snap.MaxHP
	if maxHP <= 0 {
		maxHP = 20
	}
	return &PlayerState{
		Name:      snap.Name,
		Class:     snap.Class,
		Energy:    MaxEnergyDefault,
		MaxEnergy: MaxEnergyDefault,
		Risk:      0,
		Stats: map[string]int{
			StatBravery:   snap.Bravery,
			StatCharisma:  snap.Charisma,
			StatIntellect: snap.Intellect,
			StatStamina:   snap.Stamina,
			StatLevel:     level,
		},
		HP:         maxHP,
		MaxHP:      maxHP,
		Attack:     snap.Attack,
		Magic:      snap.Magic,
		Agility:    snap.Agility,
		CritChance: snap.CritChance,
		Gold:       snap.Gold,
		XP:         snap.XP,
		Items:      []string{},
		Visited:    map[string]int{},
		Cooldowns:  map[string]int{},
		Goals:      map[string]bool{},
		Quests:     map[string]bool{},
		Seed:       seed,
	}
}

// Stat returns the named stat, or 0 when unknown.
func (p *PlayerState) Stat(name string) int {
	if p.Stats == nil {
		return 0
	}
	return p.Stats[name]
}

// ClampEnergy keeps energy inside [0, MaxEnergy].
func (p *PlayerState) ClampEnergy() {
	if p.Energy < 0 {
		p.Energy = 0
	}
	if p.Energy > p.MaxEnergy {
		p.Energy = p.MaxEnergy
	}
}

// ClampRisk keeps risk non-negative.
func (p *PlayerState) ClampRisk() {
	if p.Risk < 0 {
		p.Risk = 0
	}
}

// HasVisited reports whether the player has entered the scene at least once.
func (p *PlayerState) HasVisited(sceneID string) bool {
	return p.Visited[sceneID] > 0
}

// MarkVisited records a scene entry.
func (p *PlayerState) MarkVisited(sceneID string) {
	if p.Visited == nil {
		p.Visited = map[string]int{}
	}
	p.Visited[sceneID]++
}

// TickCooldowns decrements every scene cooldown and removes expired entries.
func (p *PlayerState) TickCooldowns() {
	for id, left := range p.Cooldowns {
		left--
		if left <= 0 {
			delete(p.Cooldowns, id)
		} else {
			p.Cooldowns[id] = left
		}
	}
}

// AddExperience adds xp and applies level-ups on the 50+25*level curve.
// Returns the number of levels gained. HP refills on level-up.
func (p *PlayerState) AddExperience(xp int) int {
	p.XP += xp
	gained := 0
	for p.XP >= xpForNextLevel(p.Stat(StatLevel)) {
		p.XP -= xpForNextLevel(p.Stat(StatLevel))
		p.Stats[StatLevel]++
		p.HP = p.MaxHP
		gained++
	}
	return gained
}

func xpForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return 50 + 25*level
}

// AdventureSummary is returned when an end condition fires.
type AdventureSummary struct {
	Reason        string   `json:"reason"`
	Steps         int      `json:"steps"`
	ScenesVisited int      `json:"scenes_visited"`
	Gold          int      `json:"gold"`
	XP            int      `json:"xp"`
	Items         []string `json:"items"`
}

// Outcome is the structured result of one processed action. Text rendering
// happens outside the core; tags are hints for the narrative provider.
type Outcome struct {
	Success     bool           `json:"success"`
	Tags        []string       `json:"tags"`
	EnergySpent int            `json:"energy_spent"`
	RiskApplied int            `json:"risk_applied"`
	StatChanges map[string]int `json:"stat_changes,omitempty"`
}
