// Package prison implements monster capture and the captive lifecycle:
// will erosion, coerced pregnancy with a breakdown risk, tick-driven
// timer resolution, persuasion into the hero roster, and execution.
package prison

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/monster"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/rarity"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

// Sentinel failures.
var (
	ErrWillRemaining   = errors.New("prisoner still has will remaining")
	ErrAlreadyPregnant = errors.New("prisoner is already pregnant")
	ErrNotPregnant     = errors.New("prisoner is not pregnant")
	ErrLocked          = errors.New("character is locked")
	ErrUnknownMethod   = errors.New("unknown interrogation method")
	ErrAlreadyCaptive  = errors.New("character is already imprisoned")
)

// InterrogationMethod selects how much will one interrogation session
// erodes.
type InterrogationMethod string

const (
	InterrogationLight    InterrogationMethod = "LIGHT"
	InterrogationSevere   InterrogationMethod = "SEVERE"
	InterrogationModerate InterrogationMethod = "MODERATE"
)

// WillLoss returns the per-session will erosion for the method.
func (m InterrogationMethod) WillLoss() (int, error) {
	switch m {
	case InterrogationLight:
		return 10, nil
	case InterrogationSevere:
		return 20, nil
	case InterrogationModerate:
		return 15, nil
	default:
		return 0, ErrUnknownMethod
	}
}

// Config holds the captivity knobs. Durations are milliseconds.
type Config struct {
	// CaptureBase and CapturePerLevel build the non-boss capture rate:
	// base + perLevel*level, clamped to 1. Bosses are always captured.
	CaptureBase     float64
	CapturePerLevel float64
	// PregnancyRate is the per-attempt conception probability, with a
	// pity guarantee on the AttemptPity-th consecutive attempt.
	PregnancyRate float64
	AttemptPity   int
	// WillLossPerAttempt erodes will on every pregnancy attempt.
	WillLossPerAttempt int
	// PregnancyDuration is the gestation timer length.
	PregnancyDuration int64
	// BreakdownBase scales the breakdown roll: at N consecutive
	// pregnancies (N >= BreakdownThreshold) the chance is
	// base*(N-BreakdownThreshold+1).
	BreakdownBase      float64
	BreakdownThreshold int
	// SuicideRate is the per-tick self-termination probability of a
	// broken-down captive.
	SuicideRate float64
	// InstantResolveGems prices collapsing a running pregnancy timer.
	InstantResolveGems int
	// PersuadeAffection seeds the affection of a persuaded captive.
	PersuadeAffection int
	// ImprisonAffectionLoss is deducted when a roster member is sent to
	// the cells.
	ImprisonAffectionLoss int
	// InitialWill is assigned on capture and imprisonment.
	InitialWill int
	// SpecialPuritySpan bounds the captive special bloodline share:
	// uniform [0, span], remainder human. Captives are never pure.
	SpecialPuritySpan int
}

// DefaultConfig returns the standard captivity knobs.
func DefaultConfig() Config {
	return Config{
		CaptureBase:           0.1,
		CapturePerLevel:       0.01,
		PregnancyRate:         0.2,
		AttemptPity:           10,
		WillLossPerAttempt:    15,
		PregnancyDuration:     5 * 60 * 1000,
		BreakdownBase:         0.05,
		BreakdownThreshold:    3,
		SuicideRate:           0.01,
		InstantResolveGems:    50,
		PersuadeAffection:     50,
		ImprisonAffectionLoss: 50,
		InitialWill:           100,
		SpecialPuritySpan:     40,
	}
}

// Engine rolls captivity outcomes against an injectable randomness source.
type Engine struct {
	cfg Config
	src rng.Source
}

// NewEngine constructs a prison engine.
//
// Precondition: src is non-nil.
func NewEngine(cfg Config, src rng.Source) *Engine {
	return &Engine{cfg: cfg, src: src}
}

// CaptureRate returns the probability of capturing the monster.
func (e *Engine) CaptureRate(m monster.Monster) float64 {
	if m.Type == monster.TypeBoss {
		return 1.0
	}
	rate := e.cfg.CaptureBase + e.cfg.CapturePerLevel*float64(m.Level)
	if rate > 1 {
		rate = 1
	}
	return rate
}

// TryCapture rolls a capture after a won battle and, on success, appends
// a new prisoner humanized from the monster. Bosses are always captured;
// otherwise the rate grows with the monster's level. The captive's rarity
// is biased by the monster type, and its bloodline is a partial special
// share with a human remainder, never pure.
//
// Postcondition: The returned prisoner, if any, has full will and the
// monster's combat stats.
func (e *Engine) TryCapture(p *player.Player, m monster.Monster) *hero.Character {
	if e.src.Float64() > e.CaptureRate(m) {
		return nil
	}

	tier := e.rollCaptiveRarity(m.Type == monster.TypeBoss)
	bloodlines := e.rollCaptiveBloodlines()

	genders := hero.Genders()
	classes := hero.Classes()
	captive := &hero.Character{
		ID:          uuid.NewString(),
		Name:        captiveName(m.Name),
		Rarity:      tier,
		Class:       classes[e.src.Intn(len(classes))],
		Gender:      genders[e.src.Intn(len(genders))],
		Race:        hero.RaceHuman,
		Bloodlines:  bloodlines,
		Level:       m.Level,
		MaxExp:      100,
		Stats:       m.Stats,
		Description: "Captured on the battlefield.",
		Will:        e.cfg.InitialWill,
	}
	captive.RecomputeRating()
	p.Prisoners = append(p.Prisoners, captive)
	return captive
}

// rollCaptiveRarity draws the captive tier. Boss captives skew higher.
func (e *Engine) rollCaptiveRarity(boss bool) rarity.Rarity {
	roll := e.src.Float64()
	if boss {
		switch {
		case roll < 0.1:
			return rarity.S
		case roll < 0.3:
			return rarity.A
		default:
			return rarity.B
		}
	}
	switch {
	case roll < 0.01:
		return rarity.S
	case roll < 0.05:
		return rarity.A
	case roll < 0.2:
		return rarity.B
	default:
		return rarity.C
	}
}

// rollCaptiveBloodlines builds a partial special bloodline with a human
// remainder. The special share is uniform in [0, span], so a captive can
// be fully human but never purely special.
func (e *Engine) rollCaptiveBloodlines() []hero.Bloodline {
	specials := hero.SpecialRaces()
	race := specials[e.src.Intn(len(specials))]
	purity := float64(e.src.Intn(e.cfg.SpecialPuritySpan + 1))
	return []hero.Bloodline{
		{Race: race, Purity: purity},
		{Race: hero.RaceHuman, Purity: 100 - purity},
	}
}

// captiveName strips the monster type prefix and marks the record as a
// captive.
func captiveName(monsterName string) string {
	name := strings.TrimPrefix(monsterName, "[Boss] ")
	name = strings.TrimPrefix(name, "[Elite] ")
	return name + " Captive"
}

// AttemptPregnancy runs one coerced conception attempt. Will erodes on
// every attempt; success is probabilistic with a pity guarantee. Success
// starts the gestation timer, bumps the consecutive counter, and past the
// breakdown threshold rolls for a permanent mental breakdown.
//
// Postcondition: Will never drops below zero. On success the attempt
// counter resets; on failure it carries forward.
func (e *Engine) AttemptPregnancy(p *player.Player, id string, now int64) (conceived bool, err error) {
	c := p.FindPrisoner(id)
	if c == nil {
		return false, player.ErrNotFound
	}
	if c.Pregnant {
		return false, ErrAlreadyPregnant
	}

	c.Will -= e.cfg.WillLossPerAttempt
	if c.Will < 0 {
		c.Will = 0
	}

	c.PregnancyAttempts++
	if e.src.Float64() >= e.cfg.PregnancyRate && c.PregnancyAttempts < e.cfg.AttemptPity {
		return false, nil
	}

	c.PregnancyAttempts = 0
	c.Pregnant = true
	c.PregnancyEndsAt = now + e.cfg.PregnancyDuration
	c.ConsecutivePregnancies++

	if c.ConsecutivePregnancies >= e.cfg.BreakdownThreshold {
		chance := e.cfg.BreakdownBase * float64(c.ConsecutivePregnancies-e.cfg.BreakdownThreshold+1)
		if e.src.Float64() < chance {
			c.MentalState = hero.MentalBreakdown
		}
	}
	return true, nil
}

// Interrogate erodes a captive's will by the method's fixed amount.
func (e *Engine) Interrogate(p *player.Player, id string, method InterrogationMethod) error {
	c := p.FindPrisoner(id)
	if c == nil {
		return player.ErrNotFound
	}
	loss, err := method.WillLoss()
	if err != nil {
		return err
	}
	c.Will -= loss
	if c.Will < 0 {
		c.Will = 0
	}
	return nil
}

// ResolveDue applies every due captive transition at now: elapsed
// pregnancies materialize offspring whose bloodlines merge the captive's
// with the player's, and broken-down captives self-terminate at the
// per-tick rate. It returns the offspring born this tick.
//
// Postcondition: Delivered captives keep their consecutive counter (only
// a fresh conception resets the spiral); departed captives are removed
// from the roster.
func (e *Engine) ResolveDue(p *player.Player, now int64) []*hero.Character {
	var born []*hero.Character
	survivors := p.Prisoners[:0]
	for _, c := range p.Prisoners {
		if c.PregnancyDue(now) {
			child := e.deliver(p, c)
			born = append(born, child)
			p.Offspring = append(p.Offspring, child)
		}
		if c.MentalState == hero.MentalBreakdown && e.src.Float64() < e.cfg.SuicideRate {
			continue
		}
		survivors = append(survivors, c)
	}
	p.Prisoners = survivors
	return born
}

// deliver materializes one captive birth and clears the pregnancy state.
func (e *Engine) deliver(p *player.Player, mother *hero.Character) *hero.Character {
	tier := rollBirthRarity(mother.Rarity, e.src)
	bloodlines := hero.Assimilate(hero.MergeBloodlines(mother.Bloodlines, p.Bloodlines))
	race := hero.ResolveRace(bloodlines, e.src)
	parents, grandparents := hero.Lineage(mother, nil, "player")

	gender := hero.GenderFemale
	if e.src.Float64() > 0.5 {
		gender = hero.GenderMale
	}

	child := &hero.Character{
		ID:           uuid.NewString(),
		Name:         mother.Name + "'s Child",
		Rarity:       tier,
		Class:        mother.Class,
		Gender:       gender,
		Race:         race,
		Bloodlines:   bloodlines,
		Level:        1,
		MaxExp:       100,
		Stats:        hero.GenerateStats(tier, e.src),
		Description:  "Born within the prison walls.",
		Affection:    30,
		MotherID:     mother.ID,
		FatherID:     "player",
		Parents:      parents,
		Grandparents: grandparents,
	}
	child.RecomputeRating()

	mother.Pregnant = false
	mother.PregnancyEndsAt = 0
	return child
}

// rollBirthRarity mirrors the consenting-breeding divisor table keyed on
// the captive mother's tier.
func rollBirthRarity(parent rarity.Rarity, src rng.Source) rarity.Rarity {
	w := parent.BreedWeight()
	roll := src.Float64()
	switch {
	case roll < w/1000:
		return rarity.SSS
	case roll < w/200:
		return rarity.SS
	case roll < w/50:
		return rarity.S
	case roll < w/20:
		return rarity.A
	case roll < w/5:
		return rarity.B
	default:
		return rarity.C
	}
}

// InstantResolve charges gems to collapse a running pregnancy timer so
// the next resolution pass delivers immediately.
func (e *Engine) InstantResolve(p *player.Player, id string, now int64) error {
	c := p.FindPrisoner(id)
	if c == nil {
		return player.ErrNotFound
	}
	if !c.Pregnant {
		return ErrNotPregnant
	}
	if err := p.SpendGems(e.cfg.InstantResolveGems); err != nil {
		return err
	}
	c.PregnancyEndsAt = now
	return nil
}

// Persuade converts a broken captive into a loyal hero. The captive's
// will must be fully eroded. The recruit restarts at level 1 with seeded
// affection; captivity state does not carry over.
func (e *Engine) Persuade(p *player.Player, id string) error {
	c := p.FindPrisoner(id)
	if c == nil {
		return player.ErrNotFound
	}
	if c.Will > 0 {
		return ErrWillRemaining
	}

	p.RemovePrisoner(id)
	recruit := c.Clone()
	recruit.Level = 1
	recruit.Exp = 0
	recruit.MaxExp = 100
	recruit.Description = "A former captive, now a loyal companion."
	recruit.Affection = e.cfg.PersuadeAffection
	recruit.Will = 0
	recruit.Pregnant = false
	recruit.PregnancyEndsAt = 0
	recruit.PregnancyAttempts = 0
	recruit.ConsecutivePregnancies = 0
	recruit.MentalState = hero.MentalStable
	recruit.RecomputeRating()
	p.Heroes = append(p.Heroes, recruit)
	return nil
}

// Execute removes one captive and pays the rarity-priced gem bounty.
// Locked captives are protected.
func (e *Engine) Execute(p *player.Player, id string) (gems int, err error) {
	c := p.FindPrisoner(id)
	if c == nil {
		return 0, player.ErrNotFound
	}
	if c.Locked {
		return 0, ErrLocked
	}
	p.RemovePrisoner(id)
	reward := c.Rarity.ExecutionGems()
	p.Gems += reward
	return reward, nil
}

// BulkExecute sweeps every unlocked character of the given tiers across
// all three rosters, paying the per-rarity bounty for each. It returns
// the total gem gain.
func (e *Engine) BulkExecute(p *player.Player, tiers []rarity.Rarity) int {
	match := make(map[rarity.Rarity]bool, len(tiers))
	for _, t := range tiers {
		match[t] = true
	}

	total := 0
	sweep := func(list []*hero.Character) []*hero.Character {
		kept := list[:0]
		for _, c := range list {
			if match[c.Rarity] && !c.Locked {
				total += c.Rarity.ExecutionGems()
				continue
			}
			kept = append(kept, c)
		}
		return kept
	}
	p.Prisoners = sweep(p.Prisoners)
	p.Heroes = sweep(p.Heroes)
	p.Offspring = sweep(p.Offspring)
	p.Gems += total
	return total
}

// Imprison moves a hero or offspring into the cells: will resets to full
// and affection takes a floored hit. Locked characters are protected.
func (e *Engine) Imprison(p *player.Player, id string) error {
	c := p.FindHero(id)
	removed := p.RemoveHero
	if c == nil {
		c = p.FindOffspring(id)
		removed = p.RemoveOffspring
	}
	if c == nil {
		if p.FindPrisoner(id) != nil {
			return ErrAlreadyCaptive
		}
		return player.ErrNotFound
	}
	if c.Locked {
		return ErrLocked
	}

	removed(id)
	c.Will = e.cfg.InitialWill
	c.Affection -= e.cfg.ImprisonAffectionLoss
	if c.Affection < 0 {
		c.Affection = 0
	}
	c.Breeding = false
	c.BreedingEndsAt = 0
	c.BreedingPartner = ""
	if p.ActiveHeroID == id {
		p.ActiveHeroID = ""
	}
	p.Prisoners = append(p.Prisoners, c)
	return nil
}
