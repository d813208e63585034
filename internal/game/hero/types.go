// Package hero defines the shared character model (heroes, offspring,
// prisoners all share one shape), base stat generation, the rating
// function, and bloodline resolution.
package hero

import (
	"github.com/kestrelgames/summoner/internal/game/rarity"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

// Race is an ancestral race a bloodline can carry.
type Race string

const (
	RaceHuman    Race = "Human"
	RaceElf      Race = "Elf"
	RaceAngel    Race = "Angel"
	RaceDemon    Race = "Demon"
	RaceMermaid  Race = "Mermaid"
	RaceVampire  Race = "Vampire"
	RaceFoxkin   Race = "Foxkin"
	RaceCatfolk  Race = "Catfolk"
)

// Races returns all races in canonical order. The order is load-bearing:
// MergeBloodlines emits entries in this order so merges are commutative.
func Races() []Race {
	return []Race{
		RaceHuman, RaceElf, RaceAngel, RaceDemon,
		RaceMermaid, RaceVampire, RaceFoxkin, RaceCatfolk,
	}
}

// SpecialRaces returns every race except Human.
func SpecialRaces() []Race {
	all := Races()
	out := make([]Race, 0, len(all)-1)
	for _, r := range all {
		if r != RaceHuman {
			out = append(out, r)
		}
	}
	return out
}

// Valid reports whether r is a known race.
func (r Race) Valid() bool {
	for _, known := range Races() {
		if r == known {
			return true
		}
	}
	return false
}

// Gender of a character or the player.
type Gender string

const (
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderNonbinary Gender = "Nonbinary"
)

// Genders returns all genders.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderNonbinary}
}

// Class is a character's combat class.
type Class string

const (
	ClassMage      Class = "Mage"
	ClassSwordsman Class = "Swordsman"
	ClassHealer    Class = "Healer"
)

// Classes returns all classes.
func Classes() []Class {
	return []Class{ClassMage, ClassSwordsman, ClassHealer}
}

// MentalState tracks a captive's condition. Breakdown is terminal: the
// background tick gives breakdown captives a small chance of removal.
type MentalState string

const (
	MentalStable    MentalState = "Stable"
	MentalBreakdown MentalState = "Breakdown"
)

// Stats is the attribute block shared by characters and monsters.
// MaxHP equals HP at creation and full-heal points; HP never exceeds MaxHP.
type Stats struct {
	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
	Atk   int `json:"atk"`
	Def   int `json:"def"`
	Spd   int `json:"spd"`
	Skill int `json:"skill"`
}

// GenerateStats draws a fresh attribute block for the given tier.
// Four independent uniform draws in the tier band cover hp-base, atk, a
// halved def, and skill; spd rolls its own small [5, 25) range. HP is the
// hp-base scaled by 5.
//
// Precondition: r must be Valid; src must be non-nil.
// Postcondition: MaxHP == HP and every stat is non-negative.
func GenerateStats(r rarity.Rarity, src rng.Source) Stats {
	min, max := r.StatRange()
	roll := func() int { return min + src.Intn(max-min) }

	hp := roll() * 5
	return Stats{
		HP:    hp,
		MaxHP: hp,
		Atk:   roll(),
		Def:   roll() / 2,
		Spd:   5 + src.Intn(20),
		Skill: roll(),
	}
}

// Rating derives the single comparable power score from an attribute
// block, its tier, and its bloodline set:
//
//	floor((hp/5 + atk + def + spd + skill) * tierMult * (1 + maxPurity/100 * 0.5))
//
// Rating is a derived, cached field on Character; callers must re-invoke
// it after every stat-mutating event.
//
// Precondition: r must be Valid.
// Postcondition: Result is non-decreasing in each stat and in max purity.
func Rating(s Stats, r rarity.Rarity, bloodlines []Bloodline) int {
	base := float64(s.HP)/5 + float64(s.Atk) + float64(s.Def) + float64(s.Spd) + float64(s.Skill)
	bloodMult := 1 + MaxPurity(bloodlines)/100*0.5
	return int(base * r.Multiplier() * bloodMult)
}
