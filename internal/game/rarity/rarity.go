// Package rarity defines the ordered rarity tiers and their per-tier tables.
// Every table is an exhaustive switch so adding a tier without filling in
// its rows fails loudly rather than silently defaulting.
package rarity

import "fmt"

// Rarity is an ordered quality tier. C is the lowest, SP the highest.
type Rarity string

const (
	C   Rarity = "C"
	B   Rarity = "B"
	A   Rarity = "A"
	S   Rarity = "S"
	SS  Rarity = "SS"
	SSS Rarity = "SSS"
	// SP is the extended-ruleset tier above SSS, reserved for curated
	// named heroes.
	SP Rarity = "SP"
)

// Tiers returns all rarities in ascending order.
func Tiers() []Rarity {
	return []Rarity{C, B, A, S, SS, SSS, SP}
}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool {
	switch r {
	case C, B, A, S, SS, SSS, SP:
		return true
	}
	return false
}

// Index returns the ordinal position of r, with C at 0.
//
// Precondition: r must be Valid.
func (r Rarity) Index() int {
	switch r {
	case C:
		return 0
	case B:
		return 1
	case A:
		return 2
	case S:
		return 3
	case SS:
		return 4
	case SSS:
		return 5
	case SP:
		return 6
	}
	panic(fmt.Sprintf("rarity: unknown tier %q", string(r)))
}

// StatRange returns the half-open [min, max) band base stats are drawn from.
//
// Precondition: r must be Valid.
func (r Rarity) StatRange() (min, max int) {
	switch r {
	case C:
		return 10, 30
	case B:
		return 30, 60
	case A:
		return 60, 100
	case S:
		return 100, 200
	case SS:
		return 200, 400
	case SSS:
		return 400, 800
	case SP:
		return 800, 1500
	}
	panic(fmt.Sprintf("rarity: unknown tier %q", string(r)))
}

// Multiplier returns the rating power multiplier for r.
//
// Precondition: r must be Valid.
func (r Rarity) Multiplier() float64 {
	switch r {
	case C:
		return 1.0
	case B:
		return 1.1
	case A:
		return 1.2
	case S:
		return 1.5
	case SS:
		return 2.0
	case SSS:
		return 3.0
	case SP:
		return 5.0
	}
	panic(fmt.Sprintf("rarity: unknown tier %q", string(r)))
}

// ExecutionGems returns the gem reward for executing a character of tier r.
//
// Precondition: r must be Valid.
func (r Rarity) ExecutionGems() int {
	switch r {
	case C:
		return 10
	case B:
		return 20
	case A:
		return 50
	case S:
		return 100
	case SS:
		return 200
	case SSS:
		return 500
	case SP:
		return 1000
	}
	panic(fmt.Sprintf("rarity: unknown tier %q", string(r)))
}

// BreedWeight returns the parent weight feeding the offspring rarity roll.
// Higher-tier parents give heavier weights and so better offspring odds.
//
// Precondition: r must be Valid.
func (r Rarity) BreedWeight() float64 {
	switch r {
	case C:
		return 1
	case B:
		return 2
	case A:
		return 5
	case S:
		return 15
	case SS:
		return 40
	case SSS:
		return 100
	case SP:
		return 200
	}
	panic(fmt.Sprintf("rarity: unknown tier %q", string(r)))
}
