package player

import (
	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/rarity"
)

// StatBonus is the passive stat contribution of an equipped pet.
type StatBonus struct {
	HP    int `json:"hp,omitempty" yaml:"hp"`
	Atk   int `json:"atk,omitempty" yaml:"atk"`
	Def   int `json:"def,omitempty" yaml:"def"`
	Spd   int `json:"spd,omitempty" yaml:"spd"`
	Skill int `json:"skill,omitempty" yaml:"skill"`
}

// Pet is a companion summoned from the pet pool. Pets have no level or
// bloodline; a fixed template fully determines one.
type Pet struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Icon     string        `json:"icon"`
	Rarity   rarity.Rarity `json:"rarity"`
	Bonus    StatBonus     `json:"bonus"`
	Reaction string        `json:"reaction"`
}

// Clone returns a copy of the pet.
func (p *Pet) Clone() *Pet {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func clonePets(in []*Pet) []*Pet {
	if in == nil {
		return nil
	}
	out := make([]*Pet, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// FindPet looks up a pet by ID.
func (p *Player) FindPet(id string) *Pet {
	for _, pet := range p.Pets {
		if pet.ID == id {
			return pet
		}
	}
	return nil
}

// AddPets appends a summon batch. The first-ever pet becomes active.
func (p *Player) AddPets(batch []*Pet) {
	if len(batch) == 0 {
		return
	}
	p.Pets = append(p.Pets, batch...)
	if p.ActivePetID == "" {
		p.ActivePetID = batch[0].ID
	}
}

// EquipPet attaches petID to a hero, or detaches with an empty petID.
func (p *Player) EquipPet(heroID, petID string) error {
	h := p.FindHero(heroID)
	if h == nil {
		return ErrNotFound
	}
	if petID != "" && p.FindPet(petID) == nil {
		return ErrNotFound
	}
	h.EquippedPetID = petID
	return nil
}

// EffectiveStats returns a hero's stats with the equipped pet bonus
// applied. The bonus is presentation-layer flavoring and never written
// back to the character.
func (p *Player) EffectiveStats(h *hero.Character) hero.Stats {
	s := h.Stats
	pet := p.FindPet(h.EquippedPetID)
	if pet == nil {
		return s
	}
	s.MaxHP += pet.Bonus.HP
	s.HP += pet.Bonus.HP
	s.Atk += pet.Bonus.Atk
	s.Def += pet.Bonus.Def
	s.Spd += pet.Bonus.Spd
	s.Skill += pet.Bonus.Skill
	return s
}
