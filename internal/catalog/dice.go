package catalog

import (
	"fmt"
	"regexp"
	"strconv"
)

// Dice is a compiled dice expression: "2d4+3", "1d6" or a plain integer.
// The zero value rolls 0.
type Dice struct {
	Raw   string
	Count int
	Sides int
	Bonus int
}

var diceRe = regexp.MustCompile(`^(\d+)d(\d+)(?:\+(\d+))?$`)

// ParseDice compiles a dice expression. Empty input yields the zero Dice.
func ParseDice(s string) (Dice, error) {
	if s == "" {
		return Dice{}, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return Dice{}, fmt.Errorf("dice %q: negative constant", s)
		}
		return Dice{Raw: s, Bonus: n}, nil
	}
	m := diceRe.FindStringSubmatch(s)
	if m == nil {
		return Dice{}, fmt.Errorf("dice %q: malformed expression", s)
	}
	count, _ := strconv.Atoi(m[1])
	sides, _ := strconv.Atoi(m[2])
	bonus := 0
	if m[3] != "" {
		bonus, _ = strconv.Atoi(m[3])
	}
	if count < 1 || sides < 1 {
		return Dice{}, fmt.Errorf("dice %q: count and sides must be positive", s)
	}
	return Dice{Raw: s, Count: count, Sides: sides, Bonus: bonus}, nil
}

// Zero reports whether the expression always rolls 0.
func (d Dice) Zero() bool {
	return d.Count == 0 && d.Bonus == 0
}

// Roll evaluates the expression using the supplied die-roll function
// (roll(sides) must return a value in [1, sides]).
func (d Dice) Roll(roll func(sides int) int) int {
	total := d.Bonus
	for i := 0; i < d.Count; i++ {
		total += roll(d.Sides)
	}
	return total
}
