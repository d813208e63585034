// Package monster derives scaled enemies from (chapter, level) stage
// coordinates. Stats and rewards are deterministic for a given coordinate
// and classification; randomness only selects the flavor name.
package monster

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

// Type classifies a monster within its chapter.
type Type string

const (
	TypeNormal Type = "Normal"
	TypeElite  Type = "Elite"
	TypeBoss   Type = "Boss"
)

// Rewards is the (gold, gems, exp) triple dropped on victory.
type Rewards struct {
	Gold int `json:"gold"`
	Gems int `json:"gems"`
	Exp  int `json:"exp"`
}

// Monster is a generated enemy at a stage coordinate.
type Monster struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Chapter int        `json:"chapter"`
	Level   int        `json:"level"`
	Type    Type       `json:"type"`
	Stats   hero.Stats `json:"stats"`
	Rewards Rewards    `json:"rewards"`
}

// Config holds the scaling knobs. Classification thresholds are a tuning
// choice, not a law, so they are parameters rather than constants.
type Config struct {
	// GrowthBase is the per-chapter exponential growth base.
	GrowthBase float64
	// LevelFactor is the per-level linear growth within a chapter.
	LevelFactor float64
	// BossLevel is the level-within-chapter that spawns the boss.
	BossLevel int
	// EliteLevel is the level-within-chapter that spawns the elite.
	EliteLevel int
	// EliteMultiplier and BossMultiplier scale hp/atk/def/skill and
	// rewards multiplicatively; spd is excluded.
	EliteMultiplier float64
	BossMultiplier  float64
}

// DefaultConfig returns the standard scaling table.
func DefaultConfig() Config {
	return Config{
		GrowthBase:      1.25,
		LevelFactor:     0.1,
		BossLevel:       10,
		EliteLevel:      5,
		EliteMultiplier: 2,
		BossMultiplier:  5,
	}
}

// Base attribute and reward block a multiplier of 1.0 corresponds to.
const (
	baseHP    = 50
	baseAtk   = 10
	baseDef   = 5
	baseSkill = 5
	baseSpd   = 5
	baseGold  = 20
	baseGems  = 2
	baseExp   = 20
)

// Generator produces monsters for stage coordinates.
type Generator struct {
	cfg   Config
	names []string
	src   rng.Source
}

// NewGenerator builds a Generator over the given name template pool.
//
// Precondition: src must be non-nil; names may be empty (a fallback name
// is used).
func NewGenerator(cfg Config, names []string, src rng.Source) *Generator {
	if len(names) == 0 {
		names = DefaultNames()
	}
	return &Generator{cfg: cfg, names: names, src: src}
}

// Classify returns the monster type at a level-within-chapter.
//
// Postcondition: BossLevel wins over EliteLevel if they collide.
func (g *Generator) Classify(level int) Type {
	switch level {
	case g.cfg.BossLevel:
		return TypeBoss
	case g.cfg.EliteLevel:
		return TypeElite
	default:
		return TypeNormal
	}
}

// Generate derives the monster at (chapter, level). Stats and rewards are
// a pure function of the coordinate and the type-multiplier table; the RNG
// draw only picks the name template.
//
// Precondition: chapter >= 1, level >= 1.
// Postcondition: All stats and rewards are floored non-negative integers;
// MaxHP == HP.
func (g *Generator) Generate(chapter, level int) Monster {
	typ := g.Classify(level)
	mult := g.multiplier(chapter, level) * g.typeMultiplier(typ)

	hp := int(baseHP * mult)
	stats := hero.Stats{
		HP:    hp,
		MaxHP: hp,
		Atk:   int(baseAtk * mult),
		Def:   int(baseDef * mult),
		// spd grows additively and mildly; type multiplier never applies.
		Spd:   baseSpd + (chapter-1)*2 + (level-1)/2,
		Skill: int(baseSkill * mult),
	}

	name := g.names[g.src.Intn(len(g.names))]
	switch typ {
	case TypeBoss:
		name = fmt.Sprintf("[Boss] %s", name)
	case TypeElite:
		name = fmt.Sprintf("[Elite] %s", name)
	}

	return Monster{
		ID:      uuid.New().String(),
		Name:    name,
		Chapter: chapter,
		Level:   level,
		Type:    typ,
		Stats:   stats,
		Rewards: Rewards{
			Gold: int(baseGold * mult),
			Gems: int(baseGems * mult),
			Exp:  int(baseExp * mult),
		},
	}
}

// SweepRewards sums the rewards of levels 1..10 of a cleared chapter, the
// instant-replay payout for content the player has already beaten.
//
// Precondition: chapter >= 1.
func (g *Generator) SweepRewards(chapter int) Rewards {
	var total Rewards
	for level := 1; level <= 10; level++ {
		mult := g.multiplier(chapter, level) * g.typeMultiplier(g.Classify(level))
		total.Gold += int(baseGold * mult)
		total.Gems += int(baseGems * mult)
		total.Exp += int(baseExp * mult)
	}
	return total
}

func (g *Generator) multiplier(chapter, level int) float64 {
	return math.Pow(g.cfg.GrowthBase, float64(chapter-1)) * (1 + float64(level-1)*g.cfg.LevelFactor)
}

func (g *Generator) typeMultiplier(t Type) float64 {
	switch t {
	case TypeBoss:
		return g.cfg.BossMultiplier
	case TypeElite:
		return g.cfg.EliteMultiplier
	default:
		return 1
	}
}
