package game

import (
	"math/rand"
	"time"
)

// Roller is the source of dice rolls for a session. The engine never calls
// math/rand directly so tests can script exact roll sequences.
type Roller interface {
	Roll(sides int) int
}

// DiceRoller handles dice rolling for the game
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller with a seeded random number generator
func NewDiceRoller() *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeededDiceRoller creates a dice roller with a fixed seed
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Roll rolls a dice with the specified number of sides
func (dr *DiceRoller) Roll(sides int) int {
	return dr.rng.Intn(sides) + 1
}

// RollWithBonus rolls a dice and adds a bonus value
func (dr *DiceRoller) RollWithBonus(sides, bonus int) int {
	return dr.Roll(sides) + bonus
}

// Intn returns a uniform value in [0, n), used for random picks
func (dr *DiceRoller) Intn(n int) int {
	return dr.rng.Intn(n)
}

// pick returns a uniform index in [0, n) using a Roller. A Roller that
// returns a value outside 1..n (a forced or scripted roll) is folded back
// into range so the index is always valid.
func pick(r Roller, n int) int {
	if n <= 1 {
		return 0
	}
	v := (r.Roll(n) - 1) % n
	if v < 0 {
		v += n
	}
	return v
}

// chance returns true with probability p (0..1) using a Roller
func chance(r Roller, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	// Roll a large die to approximate the probability
	return float64(r.Roll(10000)) <= p*10000
}
