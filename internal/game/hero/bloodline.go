package hero

import (
	"github.com/kestrelgames/summoner/internal/game/rng"
)

// Bloodline is one (race, purity) pair in a character's heritage.
// Purity is a percentage in [0, 100]; 100 is a pure bloodline.
type Bloodline struct {
	Race   Race    `json:"race"`
	Purity float64 `json:"purity"`
}

// PureBloodline returns a single-entry set at purity 100.
func PureBloodline(r Race) []Bloodline {
	return []Bloodline{{Race: r, Purity: 100}}
}

// HumanBloodline returns the default pure-human set.
func HumanBloodline() []Bloodline {
	return PureBloodline(RaceHuman)
}

// CloneBloodlines returns a deep copy of the set.
func CloneBloodlines(bl []Bloodline) []Bloodline {
	if bl == nil {
		return nil
	}
	out := make([]Bloodline, len(bl))
	copy(out, bl)
	return out
}

// MaxPurity returns the highest purity in the set, or 0 for an empty set.
func MaxPurity(bl []Bloodline) float64 {
	max := 0.0
	for _, b := range bl {
		if b.Purity > max {
			max = b.Purity
		}
	}
	return max
}

// ResolveRace resolves a single effective race from a bloodline set.
// A pure entry (purity >= 100) wins deterministically. Otherwise a uniform
// draw in [0, 100) walks the set's cumulative purities; a draw landing in
// the unassigned remainder (total purity < 100) resolves to Human, the
// implicit complement of every impure heritage.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a Valid race; an empty set resolves to Human.
func ResolveRace(bl []Bloodline, src rng.Source) Race {
	for _, b := range bl {
		if b.Purity >= 100 {
			return b.Race
		}
	}
	if len(bl) == 0 {
		return RaceHuman
	}
	draw := src.Float64() * 100
	acc := 0.0
	for _, b := range bl {
		acc += b.Purity
		if draw < acc {
			return b.Race
		}
	}
	return RaceHuman
}

// MergeBloodlines combines two parents' sets for inheritance. Every race
// present in either set appears in the result with purity
// (purityInA + purityInB) / 2, absence counting as 0. Output is in
// canonical race order, which makes the merge commutative. No
// renormalization is applied: merged purities need not sum to 100.
//
// Postcondition: MergeBloodlines(a, b) == MergeBloodlines(b, a).
func MergeBloodlines(a, b []Bloodline) []Bloodline {
	pa := purityByRace(a)
	pb := purityByRace(b)
	var out []Bloodline
	for _, r := range Races() {
		_, inA := pa[r]
		_, inB := pb[r]
		if !inA && !inB {
			continue
		}
		out = append(out, Bloodline{Race: r, Purity: (pa[r] + pb[r]) / 2})
	}
	return out
}

func purityByRace(bl []Bloodline) map[Race]float64 {
	m := make(map[Race]float64, len(bl))
	for _, b := range bl {
		m[b.Race] += b.Purity
	}
	return m
}

// assimilationEpsilon is the purity below which a trace bloodline is folded
// into the dominant race during Assimilate.
const assimilationEpsilon = 0.01

// Assimilate removes non-dominant entries with purity below a tiny epsilon
// and folds their purity into the dominant (highest-purity) race. Keeps
// merged sets from accumulating unbounded trace entries over generations.
//
// Postcondition: Total purity is preserved; the dominant entry survives.
func Assimilate(bl []Bloodline) []Bloodline {
	if len(bl) < 2 {
		return CloneBloodlines(bl)
	}
	dominant := 0
	for i, b := range bl {
		if b.Purity > bl[dominant].Purity {
			dominant = i
		}
	}
	folded := 0.0
	out := make([]Bloodline, 0, len(bl))
	for i, b := range bl {
		if i != dominant && b.Purity < assimilationEpsilon {
			folded += b.Purity
			continue
		}
		out = append(out, b)
	}
	for i := range out {
		if out[i].Race == bl[dominant].Race {
			out[i].Purity += folded
			break
		}
	}
	return out
}
