package engine

import "math/rand"

// RNG is a deterministic random source with position tracking. Every draw
// consumes exactly one value from the underlying source, so a session can
// be restored to the exact stream position recorded in its snapshot.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a seeded generator.
func NewRNG(seed int64) *RNG {
	return &RNG{seed: seed, src: rand.New(rand.NewSource(seed))}
}

// RestoreRNG recreates a generator and advances it to position.
func RestoreRNG(seed int64, position int64) *RNG {
	r := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		r.src.Int63()
	}
	r.pos = position
	return r
}

func (r *RNG) next() int64 {
	r.pos++
	return r.src.Int63()
}

// Roll returns a die roll in [1, sides].
func (r *RNG) Roll(sides int) int {
	if sides < 1 {
		return 0
	}
	return int(r.next()%int64(sides)) + 1
}

// RollDice sums count rolls of a sides-sided die.
func (r *RNG) RollDice(count, sides int) int {
	total := 0
	for i := 0; i < count; i++ {
		total += r.Roll(sides)
	}
	return total
}

// Float returns a value in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.next()) / (1 << 63)
}

// Chance reports success for a probability in [0, 1].
func (r *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float() < p
}

// PercentChance reports success for a probability given in percent points.
func (r *RNG) PercentChance(p float64) bool {
	return r.Chance(p / 100.0)
}

// WeightedIndex picks an index proportionally to the given non-negative
// weights. At least one weight must be positive.
func (r *RNG) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	roll := r.Float() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Position returns the number of values drawn since the seed.
func (r *RNG) Position() int64 {
	return r.pos
}

// Seed returns the seed the generator was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}
