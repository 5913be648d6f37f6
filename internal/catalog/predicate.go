package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

// PredKind tags the predicate expression variants.
type PredKind string

const (
	PredStat    PredKind = "stat"
	PredVisited PredKind = "visited"
	PredGoal    PredKind = "goal"
	PredQuest   PredKind = "quest"
)

// Predicate is a compiled requirement expression such as
// "stat:bravery>=2", "visited:old_ruins", "goal:find_relic" or
// "quest:clear_mines".
type Predicate struct {
	Raw   string
	Kind  PredKind
	Stat  string
	Op    string
	Value int
	Ref   string
}

var statPredRe = regexp.MustCompile(`^([a-z_]+)(>=|<=|==|>|<)(-?\d+)$`)

// ParsePredicate compiles a predicate expression string.
func ParsePredicate(s string) (Predicate, error) {
	raw := strings.TrimSpace(s)
	prefix, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return Predicate{}, fmt.Errorf("predicate %q: missing kind prefix", raw)
	}
	switch PredKind(prefix) {
	case PredStat:
		m := statPredRe.FindStringSubmatch(rest)
		if m == nil {
			return Predicate{}, fmt.Errorf("predicate %q: malformed stat comparison", raw)
		}
		v, _ := strconv.Atoi(m[3])
		return Predicate{Raw: raw, Kind: PredStat, Stat: m[1], Op: m[2], Value: v}, nil
	case PredVisited, PredGoal, PredQuest:
		if rest == "" {
			return Predicate{}, fmt.Errorf("predicate %q: missing reference id", raw)
		}
		return Predicate{Raw: raw, Kind: PredKind(prefix), Ref: rest}, nil
	default:
		return Predicate{}, fmt.Errorf("predicate %q: unknown kind %q", raw, prefix)
	}
}

// Holds evaluates the predicate against a player state.
func (p Predicate) Holds(st *game.PlayerState) bool {
	switch p.Kind {
	case PredStat:
		v := st.Stat(p.Stat)
		switch p.Op {
		case ">=":
			return v >= p.Value
		case "<=":
			return v <= p.Value
		case ">":
			return v > p.Value
		case "<":
			return v < p.Value
		case "==":
			return v == p.Value
		}
		return false
	case PredVisited:
		return st.HasVisited(p.Ref)
	case PredGoal:
		return st.Goals[p.Ref]
	case PredQuest:
		return st.Quests[p.Ref]
	}
	return false
}

// All reports whether every predicate in the list holds.
func All(preds []Predicate, st *game.PlayerState) bool {
	for _, p := range preds {
		if !p.Holds(st) {
			return false
		}
	}
	return true
}

// Any reports whether at least one predicate in the list holds.
func Any(preds []Predicate, st *game.PlayerState) bool {
	for _, p := range preds {
		if p.Holds(st) {
			return true
		}
	}
	return false
}
