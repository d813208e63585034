// Package breeding implements the consenting-partner reproduction state
// machine: Idle -> Breeding(endTime) -> claim -> Cooldown(until) -> Idle,
// plus offspring training and maturation.
package breeding

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/rarity"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

// Sentinel failures.
var (
	ErrAlreadyBreeding = errors.New("character is already breeding")
	ErrOnCooldown      = errors.New("character is on breeding cooldown")
	ErrNotBreeding     = errors.New("character has no breeding in progress")
	ErrNoCooldown      = errors.New("character has no cooldown to reduce")
	ErrTimerRunning    = errors.New("breeding timer has not elapsed")
	ErrNotTrainable    = errors.New("offspring cannot be trained")
	ErrAlreadyAdult    = errors.New("offspring is already an adult")
	ErrNotAdult        = errors.New("offspring must reach adulthood first")
	ErrBadStat         = errors.New("unknown trainable stat")
	ErrSelfPartner     = errors.New("character cannot partner with itself")
)

// Config holds the breeding knobs. Durations are milliseconds, matching
// the absolute unix-millisecond timer fields on Character.
type Config struct {
	// SuccessRate is the per-attempt conception probability.
	SuccessRate float64
	// AttemptPity guarantees success on the Nth consecutive attempt.
	AttemptPity int
	// AffectionPerAttempt accrues on every attempt, success or not.
	AffectionPerAttempt int
	// Duration is the breeding timer length.
	Duration int64
	// Cooldown starts on claim.
	Cooldown int64
	// SpeedPotionReduction shifts a running breeding timer backward.
	SpeedPotionReduction int64
	// CooldownPotionReduction shifts a running cooldown backward.
	CooldownPotionReduction int64
	// TrainingCap bounds training sessions per offspring.
	TrainingCap int
	// TrainingGainMin/Span bound the per-session stat gain: the gain is
	// uniform in [min, min+span).
	TrainingGainMin  int
	TrainingGainSpan int
}

// DefaultConfig returns the standard knobs: 10% per attempt with pity at
// 10, a 5-minute timer, a 1-hour cooldown, and up to 10 training sessions
// of +[5,15) each.
func DefaultConfig() Config {
	return Config{
		SuccessRate:             0.1,
		AttemptPity:             10,
		AffectionPerAttempt:     10,
		Duration:                5 * 60 * 1000,
		Cooldown:                60 * 60 * 1000,
		SpeedPotionReduction:    5 * 60 * 1000,
		CooldownPotionReduction: 60 * 60 * 1000,
		TrainingCap:             10,
		TrainingGainMin:         5,
		TrainingGainSpan:        10,
	}
}

// Engine rolls breeding outcomes against an injectable randomness source.
type Engine struct {
	cfg Config
	src rng.Source
}

// NewEngine constructs a breeding engine.
//
// Precondition: src is non-nil.
func NewEngine(cfg Config, src rng.Source) *Engine {
	return &Engine{cfg: cfg, src: src}
}

// Attempt tries to start breeding for a hero or adult offspring,
// optionally naming a partner from the same rosters. Affection accrues on
// every attempt. Success is probabilistic with a pity guarantee on the
// configured attempt; on success the timer starts and the partner is
// recorded for the eventual claim.
//
// Postcondition: On success Breeding is set, BreedingEndsAt = now +
// Duration, and the attempt counter resets. On failure the counter
// carries forward.
func (e *Engine) Attempt(p *player.Player, id, partnerID string, now int64) (started bool, err error) {
	c := p.FindBreedable(id)
	if c == nil {
		return false, player.ErrNotFound
	}
	if p.FindOffspring(id) != nil && !c.Adult {
		return false, ErrNotAdult
	}
	if c.Breeding {
		return false, ErrAlreadyBreeding
	}
	if c.OnCooldown(now) {
		return false, ErrOnCooldown
	}
	if partnerID == id {
		return false, ErrSelfPartner
	}
	if partnerID != "" && p.FindBreedable(partnerID) == nil {
		return false, player.ErrNotFound
	}

	c.Affection += e.cfg.AffectionPerAttempt
	c.BreedingAttempts++
	if e.src.Float64() >= e.cfg.SuccessRate && c.BreedingAttempts < e.cfg.AttemptPity {
		return false, nil
	}

	c.BreedingAttempts = 0
	c.Breeding = true
	c.BreedingEndsAt = now + e.cfg.Duration
	c.BreedingPartner = partnerID
	return true, nil
}

// Claim materializes the offspring of an elapsed breeding timer. The
// partner recorded at attempt time contributes the second bloodline set;
// when none was recorded the player stands in. The mother enters cooldown.
//
// Postcondition: A new non-adult offspring is appended, the mother's
// breeding state is cleared, and CooldownEndsAt = now + Cooldown.
func (e *Engine) Claim(p *player.Player, id string, now int64) (*hero.Character, error) {
	mother := p.FindBreedable(id)
	if mother == nil {
		return nil, player.ErrNotFound
	}
	if !mother.Breeding {
		return nil, ErrNotBreeding
	}
	if now < mother.BreedingEndsAt {
		return nil, ErrTimerRunning
	}

	father := p.FindBreedable(mother.BreedingPartner)
	fatherID := mother.BreedingPartner
	fatherBlood := p.Bloodlines
	if father != nil {
		fatherBlood = father.Bloodlines
	} else {
		fatherID = "player"
	}

	child := e.conceive(mother, father, fatherID, fatherBlood)
	p.Offspring = append(p.Offspring, child)

	mother.Breeding = false
	mother.BreedingEndsAt = 0
	mother.BreedingPartner = ""
	mother.CooldownEndsAt = now + e.cfg.Cooldown
	return child, nil
}

// conceive builds a level-1 offspring from the mother and the second
// bloodline set. Rarity follows the parent-weight divisor table; stats
// are freshly generated at the rolled tier.
func (e *Engine) conceive(mother, father *hero.Character, fatherID string, fatherBlood []hero.Bloodline) *hero.Character {
	tier := RollOffspringRarity(mother.Rarity, e.src)
	bloodlines := hero.Assimilate(hero.MergeBloodlines(mother.Bloodlines, fatherBlood))
	race := hero.ResolveRace(bloodlines, e.src)
	parents, grandparents := hero.Lineage(mother, father, fatherID)

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
		Description:  "An heir to a powerful lineage.",
		Affection:    30,
		MotherID:     mother.ID,
		FatherID:     fatherID,
		Parents:      parents,
		Grandparents: grandparents,
	}
	child.RecomputeRating()
	return child
}

// RollOffspringRarity draws the offspring tier from the mother's breed
// weight: one roll checked against weight/1000, /200, /50, /20, /5 for
// SSS, SS, S, A, B, defaulting to C.
func RollOffspringRarity(parent rarity.Rarity, src rng.Source) rarity.Rarity {
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

// SpeedUp consumes an accelerator item against a character's timers. A
// speed potion shifts a running breeding timer backward; a cooldown
// potion shifts a live cooldown backward. The item is consumed only when
// it does something.
func (e *Engine) SpeedUp(p *player.Player, id string, item player.ItemType, now int64) error {
	c := p.FindBreedable(id)
	if c == nil {
		return player.ErrNotFound
	}
	switch item {
	case player.ItemSpeedPotion:
		if !c.Breeding {
			return ErrNotBreeding
		}
		if err := p.ConsumeItem(item); err != nil {
			return err
		}
		c.BreedingEndsAt -= e.cfg.SpeedPotionReduction
	case player.ItemCooldownPotion:
		if !c.OnCooldown(now) {
			return ErrNoCooldown
		}
		if err := p.ConsumeItem(item); err != nil {
			return err
		}
		c.CooldownEndsAt -= e.cfg.CooldownPotionReduction
	default:
		return player.ErrUnknownItem
	}
	return nil
}

// TrainableStats lists the stat keys Train accepts.
func TrainableStats() []string {
	return []string{"hp", "atk", "def", "spd", "skill"}
}

// Train consumes a training book and grows one stat of a non-adult
// offspring. HP gains are multiplied into both HP and MaxHP. At most
// TrainingCap sessions apply per offspring.
func (e *Engine) Train(p *player.Player, offspringID, stat string) error {
	o := p.FindOffspring(offspringID)
	if o == nil {
		return player.ErrNotFound
	}
	if o.Adult || o.TrainingCount >= e.cfg.TrainingCap {
		return ErrNotTrainable
	}

	switch stat {
	case "hp", "atk", "def", "spd", "skill":
	default:
		return ErrBadStat
	}
	if err := p.ConsumeItem(player.ItemTrainingBook); err != nil {
		return err
	}

	gain := e.cfg.TrainingGainMin + e.src.Intn(e.cfg.TrainingGainSpan)
	s := &o.Stats
	switch stat {
	case "hp":
		s.MaxHP += gain * 5
		s.HP = s.MaxHP
	case "atk":
		s.Atk += gain
	case "def":
		s.Def += gain
	case "spd":
		s.Spd += gain
	case "skill":
		s.Skill += gain
	}
	o.TrainingCount++
	o.RecomputeRating()
	return nil
}

// FinishTraining flips an offspring to adulthood. Adults can breed, adopt
// their bloodline onto the player, and no longer train. The flip is
// permanent.
func FinishTraining(p *player.Player, offspringID string) error {
	o := p.FindOffspring(offspringID)
	if o == nil {
		return player.ErrNotFound
	}
	if o.Adult {
		return ErrAlreadyAdult
	}
	o.Adult = true
	return nil
}
