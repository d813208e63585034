// Package player defines the root aggregate every engine operation
// transforms. The aggregate is mutated only on deep clones swapped in
// wholesale by the engine, so no consumer ever observes a half-updated
// record.
package player

import (
	"errors"

	"github.com/kestrelgames/summoner/internal/game/hero"
)

// Sentinel precondition failures shared across operations. A rejected
// operation leaves the aggregate untouched.
var (
	ErrInsufficientGold = errors.New("insufficient gold")
	ErrInsufficientGems = errors.New("insufficient gems")
	ErrNotFound         = errors.New("character not found")
	ErrMissingItem      = errors.New("required item not in inventory")
)

// Roster names a character list on the aggregate.
type Roster string

const (
	RosterHeroes    Roster = "heroes"
	RosterPrisoners Roster = "prisoners"
	RosterOffspring Roster = "offspring"
)

// Player is the root record: currency, rosters, inventory, progression
// counters, and the gacha pity state.
type Player struct {
	Name   string      `json:"name"`
	Gender hero.Gender `json:"gender"`

	Gold int `json:"gold"`
	Gems int `json:"gems"`

	// Exp is the shared experience pool manual level-ups spend from.
	// LifetimeExp only ever grows and drives the account level.
	Exp         int `json:"exp"`
	LifetimeExp int `json:"lifetime_exp"`
	Level       int `json:"level"`

	// Stage progress: Chapter is the difficulty pointer, StageLevel the
	// 1..10 position within it. Elite and boss clears are recorded as
	// "chapter-level" keys.
	Chapter            int      `json:"chapter"`
	StageLevel         int      `json:"stage_level"`
	ClearedEliteStages []string `json:"cleared_elite_stages"`

	Heroes    []*hero.Character `json:"heroes"`
	Pets      []*Pet            `json:"pets"`
	Prisoners []*hero.Character `json:"prisoners"`
	Offspring []*hero.Character `json:"offspring"`

	ActiveHeroID string `json:"active_hero_id,omitempty"`
	ActivePetID  string `json:"active_pet_id,omitempty"`

	// Independent pity counters for the two forced-tier gacha gates.
	PitySSS int `json:"pity_sss"`
	PitySS  int `json:"pity_ss"`
	// TargetRace directs forced-tier pulls.
	TargetRace hero.Race `json:"target_race"`

	// Bloodlines is the player's own heritage, merged into offspring when
	// no second parent is recorded. An adult offspring's set can overwrite
	// it.
	Bloodlines []hero.Bloodline `json:"bloodlines"`

	Inventory []*Item `json:"inventory"`
}

// New returns a fresh aggregate with the starting balances.
func New() *Player {
	return &Player{
		Name:       "Novice Summoner",
		Gender:     hero.GenderNonbinary,
		Gold:       1000,
		Gems:       200,
		Level:      1,
		Chapter:    1,
		StageLevel: 1,
		TargetRace: hero.RaceElf,
		Bloodlines: hero.HumanBloodline(),
	}
}

// Clone returns a deep copy of the aggregate.
//
// Postcondition: No pointer reachable from the clone aliases the original.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	out := *p
	out.ClearedEliteStages = append([]string(nil), p.ClearedEliteStages...)
	out.Heroes = cloneCharacters(p.Heroes)
	out.Prisoners = cloneCharacters(p.Prisoners)
	out.Offspring = cloneCharacters(p.Offspring)
	out.Pets = clonePets(p.Pets)
	out.Bloodlines = hero.CloneBloodlines(p.Bloodlines)
	out.Inventory = cloneItems(p.Inventory)
	return &out
}

func cloneCharacters(in []*hero.Character) []*hero.Character {
	if in == nil {
		return nil
	}
	out := make([]*hero.Character, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// FindHero looks up a character in the hero roster.
func (p *Player) FindHero(id string) *hero.Character {
	return findByID(p.Heroes, id)
}

// FindPrisoner looks up a character in the prisoner roster.
func (p *Player) FindPrisoner(id string) *hero.Character {
	return findByID(p.Prisoners, id)
}

// FindOffspring looks up a character in the offspring roster.
func (p *Player) FindOffspring(id string) *hero.Character {
	return findByID(p.Offspring, id)
}

// FindBreedable looks the character up in the hero and offspring rosters,
// the two rosters the consenting-breeding engine operates on.
func (p *Player) FindBreedable(id string) *hero.Character {
	if c := p.FindHero(id); c != nil {
		return c
	}
	return p.FindOffspring(id)
}

// RemoveHero drops a character from the hero roster.
//
// Postcondition: Returns the removed character, or nil if absent.
func (p *Player) RemoveHero(id string) *hero.Character {
	c, rest := removeByID(p.Heroes, id)
	p.Heroes = rest
	if c != nil && p.ActiveHeroID == id {
		p.ActiveHeroID = ""
	}
	return c
}

// RemovePrisoner drops a character from the prisoner roster.
func (p *Player) RemovePrisoner(id string) *hero.Character {
	c, rest := removeByID(p.Prisoners, id)
	p.Prisoners = rest
	return c
}

// RemoveOffspring drops a character from the offspring roster.
func (p *Player) RemoveOffspring(id string) *hero.Character {
	c, rest := removeByID(p.Offspring, id)
	p.Offspring = rest
	return c
}

// AddHeroes appends a gacha batch to the hero roster. If no hero was
// previously active, the first of the batch becomes active.
func (p *Player) AddHeroes(batch []*hero.Character) {
	if len(batch) == 0 {
		return
	}
	p.Heroes = append(p.Heroes, batch...)
	if p.ActiveHeroID == "" {
		p.ActiveHeroID = batch[0].ID
	}
}

// SpendGold debits gold, rejecting overdrafts.
func (p *Player) SpendGold(amount int) error {
	if p.Gold < amount {
		return ErrInsufficientGold
	}
	p.Gold -= amount
	return nil
}

// SpendGems debits gems, rejecting overdrafts.
func (p *Player) SpendGems(amount int) error {
	if p.Gems < amount {
		return ErrInsufficientGems
	}
	p.Gems -= amount
	return nil
}

// accountLevelStep is the lifetime exp required per account level.
const accountLevelStep = 1000

// AwardExp credits battle exp to the shared pool and lifetime counter,
// advancing the account level every accountLevelStep lifetime exp.
func (p *Player) AwardExp(amount int) {
	if amount <= 0 {
		return
	}
	p.Exp += amount
	p.LifetimeExp += amount
	p.Level = 1 + p.LifetimeExp/accountLevelStep
}

func findByID(list []*hero.Character, id string) *hero.Character {
	for _, c := range list {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func removeByID(list []*hero.Character, id string) (*hero.Character, []*hero.Character) {
	for i, c := range list {
		if c.ID == id {
			return c, append(list[:i:i], list[i+1:]...)
		}
	}
	return nil, list
}
