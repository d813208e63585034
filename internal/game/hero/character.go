package hero

import (
	"github.com/kestrelgames/summoner/internal/game/rarity"
)

// Character is the record shared by heroes, offspring, and prisoners. A
// character moves between rosters without changing shape: imprisonment,
// persuasion, and maturation all operate on the same struct. Optional
// subsystem fields (breeding timers, captivity counters, lineage) are
// zero-valued when the subsystem has never touched the character.
//
// Timer fields hold absolute unix-millisecond timestamps compared against
// a sampled "now"; due transitions are realized by the next tick or
// explicit claim, never by scheduled callbacks.
type Character struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Rarity      rarity.Rarity `json:"rarity"`
	Class       Class         `json:"class"`
	Gender      Gender        `json:"gender"`
	Race        Race          `json:"race"`
	Bloodlines  []Bloodline   `json:"bloodlines"`
	Level       int           `json:"level"`
	Exp         int           `json:"exp"`
	MaxExp      int           `json:"max_exp"`
	Stats       Stats         `json:"stats"`
	Description string        `json:"description"`
	Rating      int           `json:"rating"`
	Affection   int           `json:"affection"`

	Locked        bool   `json:"locked,omitempty"`
	Pinned        bool   `json:"pinned,omitempty"`
	EquippedPetID string `json:"equipped_pet_id,omitempty"`

	BreakthroughRequired bool `json:"breakthrough_required,omitempty"`

	// Consenting-breeding state machine: Idle -> Breeding(ends_at) ->
	// claim -> Cooldown(until) -> Idle.
	Breeding         bool   `json:"breeding,omitempty"`
	BreedingEndsAt   int64  `json:"breeding_ends_at,omitempty"`
	CooldownEndsAt   int64  `json:"cooldown_ends_at,omitempty"`
	BreedingAttempts int    `json:"breeding_attempts,omitempty"`
	BreedingPartner  string `json:"breeding_partner,omitempty"`

	// Captivity fields. Will at 0 permits persuasion.
	Will                   int         `json:"will,omitempty"`
	Pregnant               bool        `json:"pregnant,omitempty"`
	PregnancyEndsAt        int64       `json:"pregnancy_ends_at,omitempty"`
	PregnancyAttempts      int         `json:"pregnancy_attempts,omitempty"`
	ConsecutivePregnancies int         `json:"consecutive_pregnancies,omitempty"`
	MentalState            MentalState `json:"mental_state,omitempty"`

	// Offspring fields. Adult flips once and never reverts.
	Adult         bool     `json:"adult,omitempty"`
	TrainingCount int      `json:"training_count,omitempty"`
	MotherID      string   `json:"mother_id,omitempty"`
	FatherID      string   `json:"father_id,omitempty"`
	Parents       []string `json:"parents,omitempty"`
	Grandparents  []string `json:"grandparents,omitempty"`
}

// Clone returns a deep copy of the character.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Bloodlines = CloneBloodlines(c.Bloodlines)
	out.Parents = cloneStrings(c.Parents)
	out.Grandparents = cloneStrings(c.Grandparents)
	return &out
}

// RecomputeRating refreshes the cached rating from current stats.
func (c *Character) RecomputeRating() {
	c.Rating = Rating(c.Stats, c.Rarity, c.Bloodlines)
}

// OnCooldown reports whether the breeding cooldown is still running at now.
func (c *Character) OnCooldown(now int64) bool {
	return c.CooldownEndsAt != 0 && now < c.CooldownEndsAt
}

// BreedingDue reports whether a running breeding timer has elapsed at now.
func (c *Character) BreedingDue(now int64) bool {
	return c.Breeding && now >= c.BreedingEndsAt
}

// PregnancyDue reports whether a running pregnancy has elapsed at now.
func (c *Character) PregnancyDue(now int64) bool {
	return c.Pregnant && now >= c.PregnancyEndsAt
}

// grandparentLimit bounds retained lineage: only 2-4 ancestor IDs are kept,
// a deliberate bounded-history simplification of the pedigree DAG.
const grandparentLimit = 4

// Lineage builds the parent and grandparent ID slices for a child of the
// two given parents. Grandparents concatenate both parents' own Parents
// records, truncated to the retention limit. father may be nil (the player
// stands in as the second parent with no recorded lineage).
func Lineage(mother, father *Character, fatherID string) (parents, grandparents []string) {
	parents = []string{mother.ID, fatherID}
	grandparents = append(grandparents, mother.Parents...)
	if father != nil {
		grandparents = append(grandparents, father.Parents...)
	}
	if len(grandparents) > grandparentLimit {
		grandparents = grandparents[:grandparentLimit]
	}
	return parents, grandparents
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
