package player

import (
	"fmt"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/monster"
)

// affectionCap bounds the affection counter.
const affectionCap = 1000

// Chat raises a hero's affection by the small conversation amount.
func (p *Player) Chat(heroID string) error {
	return p.AddAffection(heroID, 5)
}

// AddAffection raises a hero's affection, clamped to the cap.
func (p *Player) AddAffection(heroID string, amount int) error {
	h := p.FindHero(heroID)
	if h == nil {
		return ErrNotFound
	}
	h.Affection += amount
	if h.Affection > affectionCap {
		h.Affection = affectionCap
	}
	return nil
}

// Rename sets a new display name on a hero or offspring.
func (p *Player) Rename(id, name string) error {
	c := p.FindBreedable(id)
	if c == nil {
		return ErrNotFound
	}
	c.Name = name
	return nil
}

// SelectHero makes the given hero the active one.
func (p *Player) SelectHero(id string) error {
	if p.FindHero(id) == nil {
		return ErrNotFound
	}
	p.ActiveHeroID = id
	return nil
}

// SelectPet makes the given pet the active one.
func (p *Player) SelectPet(id string) error {
	if p.FindPet(id) == nil {
		return ErrNotFound
	}
	p.ActivePetID = id
	return nil
}

// ToggleLock flips the execution-protection lock on any roster character.
func (p *Player) ToggleLock(id string) error {
	for _, list := range [][]*hero.Character{p.Heroes, p.Offspring, p.Prisoners} {
		if c := findByID(list, id); c != nil {
			c.Locked = !c.Locked
			return nil
		}
	}
	return ErrNotFound
}

// TogglePin flips the collection pin on a hero or offspring.
func (p *Player) TogglePin(id string) error {
	c := p.FindBreedable(id)
	if c == nil {
		return ErrNotFound
	}
	c.Pinned = !c.Pinned
	return nil
}

// StageKey renders a stage coordinate as the cleared-stage set key.
func StageKey(chapter, level int) string {
	return fmt.Sprintf("%d-%d", chapter, level)
}

// ApplyBattleOutcome advances stage pointers and credits rewards after a
// battle. Victory over the chapter's elite or boss unlocks the next
// chapter; defeat against one resets the stage position to 1.
//
// Postcondition: On victory, gold/gems are credited and exp is awarded to
// the shared pool; the caller is responsible for granting character exp
// and rolling capture.
func (p *Player) ApplyBattleOutcome(won bool, m monster.Monster) {
	gate := m.Type == monster.TypeElite || m.Type == monster.TypeBoss
	if !won {
		if gate {
			p.StageLevel = 1
		}
		return
	}

	p.Gold += m.Rewards.Gold
	p.Gems += m.Rewards.Gems
	p.AwardExp(m.Rewards.Exp)

	if gate {
		p.ClearedEliteStages = append(p.ClearedEliteStages, StageKey(p.Chapter, p.StageLevel))
		p.Chapter++
		p.StageLevel = 1
		return
	}
	p.StageLevel++
}

// AdoptBloodline overwrites the player's own bloodline set with an adult
// offspring's. The offspring is not consumed.
func (p *Player) AdoptBloodline(offspringID string) error {
	o := p.FindOffspring(offspringID)
	if o == nil {
		return ErrNotFound
	}
	if !o.Adult {
		return fmt.Errorf("offspring %s has not matured", offspringID)
	}
	p.Bloodlines = hero.CloneBloodlines(o.Bloodlines)
	return nil
}
