// Package engine is the single-writer facade over the player aggregate.
// Every operation locks, deep-clones the aggregate, transforms the clone
// through the domain packages, and swaps it in on success; errors discard
// the clone, so no caller ever observes a half-applied operation. The
// periodic tick is just another serialized command.
package engine

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelgames/summoner/internal/game/breeding"
	"github.com/kestrelgames/summoner/internal/game/gacha"
	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/monster"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/prison"
	"github.com/kestrelgames/summoner/internal/game/progression"
	"github.com/kestrelgames/summoner/internal/game/rarity"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

// ErrChapterNotCleared rejects sweeping a chapter whose gate has not been
// beaten yet.
var ErrChapterNotCleared = errors.New("chapter gate not cleared")

// Config aggregates the domain knobs.
type Config struct {
	Gacha       gacha.Config
	Monster     monster.Config
	Progression progression.Config
	Breeding    breeding.Config
	Prison      prison.Config
}

// DefaultConfig returns every subsystem's standard knobs.
func DefaultConfig() Config {
	return Config{
		Gacha:       gacha.DefaultConfig(),
		Monster:     monster.DefaultConfig(),
		Progression: progression.DefaultConfig(),
		Breeding:    breeding.DefaultConfig(),
		Prison:      prison.DefaultConfig(),
	}
}

// Options carries the injectable collaborators.
type Options struct {
	Logger *zap.Logger
	Source rng.Source
	// Now returns the current unix-millisecond timestamp. Defaults to
	// the wall clock.
	Now func() int64
	// OnChange, if set, receives a private clone of the aggregate after
	// every successful mutation. Used as the save hook.
	OnChange func(*player.Player)
	// Pools and MonsterNames override the built-in template pools.
	Pools        *gacha.Pools
	MonsterNames []string
}

// Engine serializes all mutations of one player aggregate.
type Engine struct {
	mu     sync.Mutex
	state  *player.Player
	logger *zap.Logger
	now    func() int64

	cfg      Config
	gacha    *gacha.Engine
	monsters *monster.Generator
	breeding *breeding.Engine
	prison   *prison.Engine
	onChange func(*player.Player)
}

// New constructs an engine around an existing aggregate (typically the
// loaded savefile, or player.New() for a fresh start).
//
// Precondition: state must be non-nil.
func New(state *player.Player, cfg Config, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := opts.Source
	if src == nil {
		src = rng.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}

	var names []string
	var named []gacha.NamedHero
	var pets []gacha.PetTemplate
	if opts.Pools != nil {
		names = opts.Pools.HeroNames
		named = opts.Pools.Named
		pets = opts.Pools.Pets
	}

	return &Engine{
		state:    state,
		logger:   logger,
		now:      now,
		cfg:      cfg,
		gacha:    gacha.NewEngine(cfg.Gacha, names, named, pets, src),
		monsters: monster.NewGenerator(cfg.Monster, opts.MonsterNames, src),
		breeding: breeding.NewEngine(cfg.Breeding, src),
		prison:   prison.NewEngine(cfg.Prison, src),
		onChange: opts.OnChange,
	}
}

// Snapshot returns a deep copy of the current aggregate, safe to read
// without holding the engine lock.
func (e *Engine) Snapshot() *player.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// mutate runs one serialized transformation: clone, transform, swap.
// A returned error discards the clone and leaves the aggregate untouched.
func (e *Engine) mutate(op string, fn func(p *player.Player) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.Clone()
	if err := fn(next); err != nil {
		e.logger.Debug("operation rejected",
			zap.String("op", op),
			zap.Error(err),
		)
		return err
	}
	e.state = next

	if e.onChange != nil {
		e.onChange(next.Clone())
	}
	return nil
}

// Summon draws count heroes toward the target race and charges gems.
func (e *Engine) Summon(count int, target hero.Race) (batch []*hero.Character, err error) {
	err = e.mutate("summon", func(p *player.Player) error {
		batch, err = e.gacha.Summon(p, count, target)
		return err
	})
	if err == nil {
		e.logger.Info("summoned heroes",
			zap.Int("count", len(batch)),
			zap.String("target_race", string(target)),
		)
	}
	return batch, err
}

// SummonPets draws count pets and charges gold.
func (e *Engine) SummonPets(count int) (batch []*player.Pet, err error) {
	err = e.mutate("summon_pets", func(p *player.Player) error {
		batch, err = e.gacha.SummonPets(p, count)
		return err
	})
	return batch, err
}

// RequestLevelUp spends the shared exp pool on a character's levels.
func (e *Engine) RequestLevelUp(id string, levels int) error {
	return e.mutate("level_up", func(p *player.Player) error {
		return progression.RequestLevelUp(p, id, levels, e.cfg.Progression)
	})
}

// Breakthrough clears a character's pending breakthrough gate for gems.
func (e *Engine) Breakthrough(id string) error {
	return e.mutate("breakthrough", func(p *player.Player) error {
		return progression.Breakthrough(p, id, e.cfg.Progression)
	})
}

// StartBreeding runs one breeding attempt, optionally with a partner.
func (e *Engine) StartBreeding(id, partnerID string) (started bool, err error) {
	err = e.mutate("start_breeding", func(p *player.Player) error {
		started, err = e.breeding.Attempt(p, id, partnerID, e.now())
		return err
	})
	return started, err
}

// ClaimOffspring materializes a finished breeding timer's offspring.
func (e *Engine) ClaimOffspring(id string) (child *hero.Character, err error) {
	err = e.mutate("claim_offspring", func(p *player.Player) error {
		child, err = e.breeding.Claim(p, id, e.now())
		return err
	})
	if err == nil {
		e.logger.Info("offspring claimed",
			zap.String("mother_id", id),
			zap.String("offspring_id", child.ID),
			zap.String("rarity", string(child.Rarity)),
		)
	}
	return child, err
}

// SpeedUp consumes an accelerator item against a character's timers.
func (e *Engine) SpeedUp(id string, item player.ItemType) error {
	return e.mutate("speed_up", func(p *player.Player) error {
		return e.breeding.SpeedUp(p, id, item, e.now())
	})
}

// Train consumes a training book to grow one offspring stat.
func (e *Engine) Train(offspringID, stat string) error {
	return e.mutate("train", func(p *player.Player) error {
		return e.breeding.Train(p, offspringID, stat)
	})
}

// FinishTraining graduates an offspring to adulthood.
func (e *Engine) FinishTraining(offspringID string) error {
	return e.mutate("finish_training", func(p *player.Player) error {
		return breeding.FinishTraining(p, offspringID)
	})
}

// AdoptBloodline overwrites the player's bloodline set with an adult
// offspring's.
func (e *Engine) AdoptBloodline(offspringID string) error {
	return e.mutate("adopt_bloodline", func(p *player.Player) error {
		return p.AdoptBloodline(offspringID)
	})
}

// BattleEnd resolves a finished battle at the given stage coordinate:
// stage pointers and rewards, exp to the active hero, and the capture
// roll. The monster is regenerated deterministically from the coordinate.
func (e *Engine) BattleEnd(won bool, chapter, level int) (captured *hero.Character, err error) {
	err = e.mutate("battle_end", func(p *player.Player) error {
		m := e.monsters.Generate(chapter, level)
		p.ApplyBattleOutcome(won, m)
		if !won {
			return nil
		}
		if p.ActiveHeroID != "" {
			if active := p.FindHero(p.ActiveHeroID); active != nil {
				progression.GrantExp(active, m.Rewards.Exp, e.cfg.Progression)
			}
		}
		captured = e.prison.TryCapture(p, m)
		return nil
	})
	if err == nil && captured != nil {
		e.logger.Info("captured prisoner",
			zap.String("prisoner_id", captured.ID),
			zap.String("rarity", string(captured.Rarity)),
		)
	}
	return captured, err
}

// Sweep credits the full reward sum of a chapter's ten regular stages.
//
// Precondition (enforced): the chapter's gate must already be cleared.
func (e *Engine) Sweep(chapter int) error {
	return e.mutate("sweep", func(p *player.Player) error {
		if chapter >= p.Chapter {
			return ErrChapterNotCleared
		}
		r := e.monsters.SweepRewards(chapter)
		p.Gold += r.Gold
		p.Gems += r.Gems
		p.AwardExp(r.Exp)
		return nil
	})
}

// AttemptPregnancy runs one coerced conception attempt on a captive.
func (e *Engine) AttemptPregnancy(id string) (conceived bool, err error) {
	err = e.mutate("attempt_pregnancy", func(p *player.Player) error {
		conceived, err = e.prison.AttemptPregnancy(p, id, e.now())
		return err
	})
	return conceived, err
}

// Interrogate erodes a captive's will.
func (e *Engine) Interrogate(id string, method prison.InterrogationMethod) error {
	return e.mutate("interrogate", func(p *player.Player) error {
		return e.prison.Interrogate(p, id, method)
	})
}

// InstantResolve charges gems to collapse a captive pregnancy timer and
// immediately resolves it.
func (e *Engine) InstantResolve(id string) error {
	return e.mutate("instant_resolve", func(p *player.Player) error {
		now := e.now()
		if err := e.prison.InstantResolve(p, id, now); err != nil {
			return err
		}
		e.prison.ResolveDue(p, now)
		return nil
	})
}

// Persuade recruits a fully broken captive into the hero roster.
func (e *Engine) Persuade(id string) error {
	return e.mutate("persuade", func(p *player.Player) error {
		return e.prison.Persuade(p, id)
	})
}

// Execute removes one captive for a gem bounty.
func (e *Engine) Execute(id string) (gems int, err error) {
	err = e.mutate("execute", func(p *player.Player) error {
		gems, err = e.prison.Execute(p, id)
		return err
	})
	return gems, err
}

// BulkExecute sweeps every unlocked character of the given tiers.
func (e *Engine) BulkExecute(tiers []rarity.Rarity) (gems int, err error) {
	err = e.mutate("bulk_execute", func(p *player.Player) error {
		gems = e.prison.BulkExecute(p, tiers)
		return nil
	})
	return gems, err
}

// Imprison moves a hero or offspring into the cells.
func (e *Engine) Imprison(id string) error {
	return e.mutate("imprison", func(p *player.Player) error {
		return e.prison.Imprison(p, id)
	})
}

// Tick applies every due timer transition at the sampled now. It is
// serialized with user operations through the same mutation path; a tick
// that changes nothing still swaps in an identical aggregate.
func (e *Engine) Tick() {
	_ = e.mutate("tick", func(p *player.Player) error {
		born := e.prison.ResolveDue(p, e.now())
		for _, child := range born {
			e.logger.Info("captive delivery",
				zap.String("offspring_id", child.ID),
				zap.String("rarity", string(child.Rarity)),
			)
		}
		return nil
	})
}

// Chat raises a hero's affection through conversation.
func (e *Engine) Chat(heroID string) error {
	return e.mutate("chat", func(p *player.Player) error {
		return p.Chat(heroID)
	})
}

// Rename renames a character in any roster.
func (e *Engine) Rename(id, name string) error {
	return e.mutate("rename", func(p *player.Player) error {
		return p.Rename(id, name)
	})
}

// SelectHero marks the active battle hero.
func (e *Engine) SelectHero(id string) error {
	return e.mutate("select_hero", func(p *player.Player) error {
		return p.SelectHero(id)
	})
}

// SelectPet marks the active pet.
func (e *Engine) SelectPet(id string) error {
	return e.mutate("select_pet", func(p *player.Player) error {
		return p.SelectPet(id)
	})
}

// EquipPet attaches a pet's stat bonus to a hero.
func (e *Engine) EquipPet(heroID, petID string) error {
	return e.mutate("equip_pet", func(p *player.Player) error {
		return p.EquipPet(heroID, petID)
	})
}

// ToggleLock flips a character's execution protection.
func (e *Engine) ToggleLock(id string) error {
	return e.mutate("toggle_lock", func(p *player.Player) error {
		return p.ToggleLock(id)
	})
}

// TogglePin flips a character's pinned flag.
func (e *Engine) TogglePin(id string) error {
	return e.mutate("toggle_pin", func(p *player.Player) error {
		return p.TogglePin(id)
	})
}

// BuyItem purchases one shop item into the inventory.
func (e *Engine) BuyItem(t player.ItemType) error {
	return e.mutate("buy_item", func(p *player.Player) error {
		return p.BuyItem(t)
	})
}

// ExchangeGemToGold converts one gem into gold.
func (e *Engine) ExchangeGemToGold() error {
	return e.mutate("exchange_gem_to_gold", func(p *player.Player) error {
		return p.ExchangeGemToGold()
	})
}

// ExchangeGoldToGem converts gold into one gem.
func (e *Engine) ExchangeGoldToGem() error {
	return e.mutate("exchange_gold_to_gem", func(p *player.Player) error {
		return p.ExchangeGoldToGem()
	})
}

// SetGender records the player avatar's gender once at first launch.
func (e *Engine) SetGender(g hero.Gender) error {
	return e.mutate("set_gender", func(p *player.Player) error {
		p.Gender = g
		return nil
	})
}

// Reset discards the aggregate and starts over with a fresh player.
func (e *Engine) Reset() {
	_ = e.mutate("reset", func(p *player.Player) error {
		*p = *player.New()
		return nil
	})
}

// Replace swaps in an imported aggregate wholesale.
//
// Precondition: next must already be migrated and must not be mutated by
// the caller afterwards.
func (e *Engine) Replace(next *player.Player) {
	_ = e.mutate("replace", func(p *player.Player) error {
		*p = *next
		return nil
	})
}
