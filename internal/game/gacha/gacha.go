// Package gacha implements the summon engine: currency costs, the
// two-gate pity model, rarity and bloodline rolls, and hero construction.
// Pet summons are the simplified no-pity variant.
package gacha

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/rarity"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

// Sentinel failures.
var (
	ErrBadCount = errors.New("summon count must be 1 or 10")
	ErrBadRace  = errors.New("target race is not a known race")
)

// Config holds the gacha tuning knobs.
type Config struct {
	// SingleCost and TenCost are gem prices. The ten-pull is a discount,
	// not a 10x multiple.
	SingleCost int
	TenCost    int

	// TopRate/TopPity gate the SSS tier: a TopRate draw or a counter at
	// TopPity forces an SSS with a pure target-race bloodline.
	TopRate float64
	TopPity int

	// SecondRate/SecondPity gate the SS tier: lower cap, higher base rate.
	SecondRate float64
	SecondPity int

	// SpecialBloodRate is the chance an ordinary pull carries a partial
	// special bloodline.
	SpecialBloodRate float64

	// PetSingleCost and PetTenCost are gold prices for pet summons.
	PetSingleCost int
	PetTenCost    int
}

// DefaultConfig returns the standard banner tuning.
func DefaultConfig() Config {
	return Config{
		SingleCost:       100,
		TenCost:          900,
		TopRate:          0.001,
		TopPity:          100,
		SecondRate:       0.01,
		SecondPity:       50,
		SpecialBloodRate: 0.3,
		PetSingleCost:    100,
		PetTenCost:       900,
	}
}

// Ordinary rarity cumulative thresholds for the tiers below the pity
// gates. A draw >= the B bound lands on C.
const (
	ordinaryS = 0.05
	ordinaryA = 0.20
	ordinaryB = 0.50
)

// Partial special bloodlines roll purity in [10, 90).
const (
	specialPurityMin  = 10
	specialPuritySpan = 80
)

// Engine rolls summons against a player aggregate. The aggregate handed in
// is mutated; the game engine passes a clone and swaps it in on success.
type Engine struct {
	cfg   Config
	names []string
	named []NamedHero
	pets  []PetTemplate
	src   rng.Source
}

// NewEngine builds a gacha engine. Empty pools fall back to the compiled-in
// defaults.
//
// Precondition: src must be non-nil.
func NewEngine(cfg Config, names []string, named []NamedHero, pets []PetTemplate, src rng.Source) *Engine {
	if len(names) == 0 {
		names = DefaultHeroNames()
	}
	if len(pets) == 0 {
		pets = DefaultPetTemplates()
	}
	if named == nil {
		named = DefaultNamedHeroes()
	}
	return &Engine{cfg: cfg, names: names, named: named, pets: pets, src: src}
}

// Cost returns the gem price for a summon batch.
func (e *Engine) Cost(count int) (int, error) {
	switch count {
	case 1:
		return e.cfg.SingleCost, nil
	case 10:
		return e.cfg.TenCost, nil
	}
	return 0, ErrBadCount
}

// Summon performs a batch of count pulls for the target race. The batch is
// all-or-nothing: if the gem balance cannot cover the batch price, nothing
// happens. Each pull consumes one unit of both pity counters.
//
// Postcondition: On success, count heroes are appended to the roster, the
// pity counters reflect all count iterations, and the first-ever hero
// becomes active.
func (e *Engine) Summon(p *player.Player, count int, target hero.Race) ([]*hero.Character, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrBadRace, string(target))
	}
	cost, err := e.Cost(count)
	if err != nil {
		return nil, err
	}
	if err := p.SpendGems(cost); err != nil {
		return nil, err
	}
	p.TargetRace = target

	batch := make([]*hero.Character, 0, count)
	for i := 0; i < count; i++ {
		batch = append(batch, e.rollOne(p, target, batch))
	}
	p.AddHeroes(batch)
	return batch, nil
}

// rollOne performs a single pull, advancing and possibly resetting the
// pity counters on p. batch holds the earlier pulls of the same summon so
// named substitution sees them before they reach the roster.
func (e *Engine) rollOne(p *player.Player, target hero.Race, batch []*hero.Character) *hero.Character {
	p.PitySSS++
	p.PitySS++

	var (
		tier       rarity.Rarity
		race       hero.Race
		bloodlines []hero.Bloodline
	)

	switch {
	case e.src.Float64() < e.cfg.TopRate || p.PitySSS >= e.cfg.TopPity:
		tier = rarity.SSS
		race = target
		bloodlines = hero.PureBloodline(target)
		p.PitySSS = 0
	case e.src.Float64() < e.cfg.SecondRate || p.PitySS >= e.cfg.SecondPity:
		tier = rarity.SS
		race = target
		bloodlines = hero.PureBloodline(target)
		p.PitySS = 0
	default:
		tier = e.rollOrdinaryRarity()
		race = hero.RaceHuman
		bloodlines = hero.HumanBloodline()
		if e.src.Float64() < e.cfg.SpecialBloodRate {
			special := e.randomSpecialRace()
			purity := float64(specialPurityMin + e.src.Intn(specialPuritySpan))
			bloodlines = []hero.Bloodline{
				{Race: special, Purity: purity},
				{Race: hero.RaceHuman, Purity: 100 - purity},
			}
			race = hero.ResolveRace(bloodlines, e.src)
		}
	}

	c := &hero.Character{
		ID:         uuid.New().String(),
		Name:       e.names[e.src.Intn(len(e.names))],
		Rarity:     tier,
		Class:      hero.Classes()[e.src.Intn(len(hero.Classes()))],
		Gender:     hero.Genders()[e.src.Intn(len(hero.Genders()))],
		Race:       race,
		Bloodlines: bloodlines,
		Level:      1,
		MaxExp:     100,
	}

	if tier == rarity.SSS {
		c.Description = fmt.Sprintf("A pure-blooded %s champion out of myth.", race)
		e.substituteNamed(p, batch, c)
	} else {
		c.Description = fmt.Sprintf("A %s hero answering the summons.", race)
	}

	c.Stats = hero.GenerateStats(c.Rarity, e.src)
	c.RecomputeRating()
	return c
}

// rollOrdinaryRarity draws from the fixed cumulative distribution covering
// the tiers below the pity gates.
func (e *Engine) rollOrdinaryRarity() rarity.Rarity {
	r := e.src.Float64()
	switch {
	case r < ordinaryS:
		return rarity.S
	case r < ordinaryA:
		return rarity.A
	case r < ordinaryB:
		return rarity.B
	default:
		return rarity.C
	}
}

func (e *Engine) randomSpecialRace() hero.Race {
	specials := hero.SpecialRaces()
	return specials[e.src.Intn(len(specials))]
}

// substituteNamed replaces a top-tier result with a curated named character
// matching its (race, rarity), if one exists that neither the roster nor the
// in-flight batch already holds. Named SP entries upgrade the result to the
// SP tier.
func (e *Engine) substituteNamed(p *player.Player, batch []*hero.Character, c *hero.Character) {
	var candidates []NamedHero
	for _, n := range e.named {
		if n.Race != c.Race {
			continue
		}
		if n.Rarity != rarity.SSS && n.Rarity != rarity.SP {
			continue
		}
		if holdsName(p.Heroes, n.Name) || holdsName(batch, n.Name) {
			continue
		}
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return
	}
	pick := candidates[e.src.Intn(len(candidates))]
	c.Name = pick.Name
	c.Gender = pick.Gender
	c.Description = pick.Description
	if pick.Rarity == rarity.SP {
		c.Rarity = rarity.SP
	}
}

func holdsName(list []*hero.Character, name string) bool {
	for _, h := range list {
		if h.Name == name {
			return true
		}
	}
	return false
}

// SummonPets performs a pet summon batch: a uniform template pick per
// unit, paid in gold, no rarity roll and no pity.
//
// Postcondition: All-or-nothing, like Summon.
func (e *Engine) SummonPets(p *player.Player, count int) ([]*player.Pet, error) {
	var cost int
	switch count {
	case 1:
		cost = e.cfg.PetSingleCost
	case 10:
		cost = e.cfg.PetTenCost
	default:
		return nil, ErrBadCount
	}
	if err := p.SpendGold(cost); err != nil {
		return nil, err
	}

	batch := make([]*player.Pet, 0, count)
	for i := 0; i < count; i++ {
		tmpl := e.pets[e.src.Intn(len(e.pets))]
		batch = append(batch, tmpl.Instantiate())
	}
	p.AddPets(batch)
	return batch, nil
}
