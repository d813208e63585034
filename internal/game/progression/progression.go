// Package progression implements the leveling and breakthrough state
// machine: exp-funded advancement, pool-funded manual level-ups, the
// every-20-levels breakthrough gate, and compounding stat growth.
package progression

import (
	"errors"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/player"
)

// Sentinel failures.
var (
	ErrLevelCapped          = errors.New("character is at the level cap")
	ErrBreakthroughRequired = errors.New("breakthrough required before further levels")
	ErrNoBreakthroughDue    = errors.New("no breakthrough is pending")
	ErrInsufficientExpPool  = errors.New("shared exp pool cannot fund the requested levels")
	ErrBadLevelCount        = errors.New("requested level count must be >= 1")
)

// Config holds the leveling knobs.
type Config struct {
	// LevelCap is the maximum level (80 in the standard ruleset, 100 in
	// the extended one).
	LevelCap int
	// BreakthroughInterval gates advancement every N levels.
	BreakthroughInterval int
	// TierCost is the gem unit the breakthrough price is assembled from.
	TierCost int
	// ExpGrowth is the per-level maxExp compounding factor.
	ExpGrowth float64
	// StatGrowth is the per-level stat compounding factor.
	StatGrowth float64
}

// DefaultConfig returns the standard ruleset.
func DefaultConfig() Config {
	return Config{
		LevelCap:             80,
		BreakthroughInterval: 20,
		TierCost:             100,
		ExpGrowth:            1.1,
		StatGrowth:           1.01,
	}
}

// GrantExp banks battle exp on the character and advances levels while the
// bank covers maxExp, stopping at the level cap or a breakthrough gate.
// Exp beyond a gate stays banked and resumes advancing after breakthrough.
//
// Postcondition: Rating reflects the final stats; if the character stopped
// on a gate, BreakthroughRequired is set and Level is a multiple of the
// interval.
func GrantExp(c *hero.Character, amount int, cfg Config) {
	if amount < 0 {
		amount = 0
	}
	c.Exp += amount
	for c.Exp >= c.MaxExp && c.Level < cfg.LevelCap && !c.BreakthroughRequired {
		c.Exp -= c.MaxExp
		advanceOneLevel(c, cfg)
	}
	c.RecomputeRating()
}

// LevelUpCost returns the shared-pool price of the next `levels` levels,
// truncated at the cap and the next breakthrough boundary (the boundary
// level itself is purchasable; levels beyond it are not until the gate is
// cleared). The returned grantable count reflects the truncation.
//
// Precondition: levels >= 1.
func LevelUpCost(c *hero.Character, levels int, cfg Config) (cost, grantable int) {
	need := c.MaxExp
	for i := 0; i < levels; i++ {
		lvl := c.Level + i
		if lvl >= cfg.LevelCap {
			break
		}
		if i > 0 && lvl%cfg.BreakthroughInterval == 0 {
			// The previous iteration bought the boundary level.
			break
		}
		cost += need
		grantable++
		need = int(float64(need) * cfg.ExpGrowth)
	}
	return cost, grantable
}

// RequestLevelUp spends the player's shared exp pool to advance a
// character. The operation is all-or-nothing: the total cost of the
// grantable levels is computed up front and the aggregate is untouched if
// the pool cannot cover it.
//
// Postcondition: Either grantable levels were applied and the pool was
// debited the exact cost, or an error is returned with no mutation.
func RequestLevelUp(p *player.Player, id string, levels int, cfg Config) error {
	if levels < 1 {
		return ErrBadLevelCount
	}
	c := p.FindBreedable(id)
	if c == nil {
		return player.ErrNotFound
	}
	if c.BreakthroughRequired {
		return ErrBreakthroughRequired
	}
	if c.Level >= cfg.LevelCap {
		return ErrLevelCapped
	}

	cost, grantable := LevelUpCost(c, levels, cfg)
	if grantable == 0 {
		return ErrLevelCapped
	}
	if p.Exp < cost {
		return ErrInsufficientExpPool
	}

	p.Exp -= cost
	for i := 0; i < grantable; i++ {
		advanceOneLevel(c, cfg)
	}
	c.RecomputeRating()
	return nil
}

// BreakthroughCost returns the gem price of clearing a pending gate.
func BreakthroughCost(c *hero.Character, cfg Config) int {
	return (c.Level/cfg.BreakthroughInterval)*cfg.TierCost + c.Rarity.Index()*cfg.TierCost
}

// Breakthrough pays the pending gate in gems and clears the flag. It does
// not itself grant a level; it only unblocks subsequent advancement.
func Breakthrough(p *player.Player, id string, cfg Config) error {
	c := p.FindBreedable(id)
	if c == nil {
		return player.ErrNotFound
	}
	if !c.BreakthroughRequired {
		return ErrNoBreakthroughDue
	}
	if err := p.SpendGems(BreakthroughCost(c, cfg)); err != nil {
		return err
	}
	c.BreakthroughRequired = false
	return nil
}

// advanceOneLevel applies one level's growth: maxExp and stats compound,
// spd gains at least 1, HP is refilled to the grown MaxHP, and a gate is
// raised when the new level lands on a breakthrough boundary below cap.
func advanceOneLevel(c *hero.Character, cfg Config) {
	c.Level++
	c.MaxExp = int(float64(c.MaxExp) * cfg.ExpGrowth)

	s := &c.Stats
	s.MaxHP = grow(s.MaxHP, cfg.StatGrowth)
	s.HP = s.MaxHP
	s.Atk = grow(s.Atk, cfg.StatGrowth)
	s.Def = grow(s.Def, cfg.StatGrowth)
	s.Skill = grow(s.Skill, cfg.StatGrowth)
	if next := grow(s.Spd, cfg.StatGrowth); next > s.Spd {
		s.Spd = next
	} else {
		s.Spd++
	}

	if c.Level%cfg.BreakthroughInterval == 0 && c.Level < cfg.LevelCap {
		c.BreakthroughRequired = true
	}
}

func grow(v int, factor float64) int {
	return int(float64(v) * factor)
}
