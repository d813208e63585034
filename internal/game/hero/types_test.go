package hero_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/rarity"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

func TestGenerateStats_WithinBand(t *testing.T) {
	src := rng.NewSeeded(1)
	for _, tier := range rarity.Tiers() {
		min, max := tier.StatRange()
		for i := 0; i < 50; i++ {
			s := hero.GenerateStats(tier, src)
			assert.Equal(t, s.HP, s.MaxHP, "tier %s: maxHp must equal hp at creation", tier)
			assert.GreaterOrEqual(t, s.HP, min*5, "tier %s hp", tier)
			assert.Less(t, s.HP, max*5, "tier %s hp", tier)
			assert.GreaterOrEqual(t, s.Atk, min, "tier %s atk", tier)
			assert.Less(t, s.Atk, max, "tier %s atk", tier)
			assert.GreaterOrEqual(t, s.Def, min/2, "tier %s def", tier)
			assert.Less(t, s.Def, max, "tier %s def", tier)
			assert.GreaterOrEqual(t, s.Spd, 5, "tier %s spd", tier)
			assert.Less(t, s.Spd, 25, "tier %s spd", tier)
			assert.GreaterOrEqual(t, s.Skill, min, "tier %s skill", tier)
			assert.Less(t, s.Skill, max, "tier %s skill", tier)
		}
	}
}

func TestRating_KnownValues(t *testing.T) {
	stats := hero.Stats{HP: 500, MaxHP: 500, Atk: 50, Def: 25, Spd: 15, Skill: 40}
	// base = 100 + 50 + 25 + 15 + 40 = 230
	tests := []struct {
		tier       rarity.Rarity
		bloodlines []hero.Bloodline
		want       int
	}{
		{rarity.C, nil, 230},
		{rarity.B, nil, 253},
		{rarity.SSS, nil, 690},
		{rarity.C, hero.PureBloodline(hero.RaceElf), 345},                          // 230 * 1.5
		{rarity.C, []hero.Bloodline{{Race: hero.RaceElf, Purity: 50}}, 287},        // 230 * 1.25
		{rarity.SSS, hero.PureBloodline(hero.RaceDemon), 1035},                     // 230 * 3 * 1.5
	}
	for _, tc := range tests {
		got := hero.Rating(stats, tc.tier, tc.bloodlines)
		assert.Equal(t, tc.want, got, "tier=%s bloodlines=%v", tc.tier, tc.bloodlines)
	}
}

func TestRating_Property_MonotoneInStatsAndPurity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tier := rarity.Tiers()[rapid.IntRange(0, 6).Draw(rt, "tier")]
		base := hero.Stats{
			HP:    rapid.IntRange(0, 4000).Draw(rt, "hp"),
			Atk:   rapid.IntRange(0, 800).Draw(rt, "atk"),
			Def:   rapid.IntRange(0, 400).Draw(rt, "def"),
			Spd:   rapid.IntRange(0, 100).Draw(rt, "spd"),
			Skill: rapid.IntRange(0, 800).Draw(rt, "skill"),
		}
		base.MaxHP = base.HP
		purity := rapid.Float64Range(0, 100).Draw(rt, "purity")
		bl := []hero.Bloodline{{Race: hero.RaceVampire, Purity: purity}}

		r0 := hero.Rating(base, tier, bl)

		bumped := base
		bumped.Atk += rapid.IntRange(1, 50).Draw(rt, "atk_bump")
		assert.GreaterOrEqual(rt, hero.Rating(bumped, tier, bl), r0)

		purer := []hero.Bloodline{{Race: hero.RaceVampire, Purity: 100}}
		assert.GreaterOrEqual(rt, hero.Rating(base, tier, purer), r0)
	})
}

func TestCharacter_Clone_IsDeep(t *testing.T) {
	c := &hero.Character{
		ID:           "c1",
		Name:         "Mira",
		Rarity:       rarity.S,
		Bloodlines:   []hero.Bloodline{{Race: hero.RaceElf, Purity: 40}},
		Parents:      []string{"p1", "p2"},
		Grandparents: []string{"g1"},
	}
	clone := c.Clone()
	require.NotSame(t, c, clone)

	clone.Bloodlines[0].Purity = 99
	clone.Parents[0] = "other"
	assert.Equal(t, 40.0, c.Bloodlines[0].Purity)
	assert.Equal(t, "p1", c.Parents[0])
}

func TestLineage_TruncatesGrandparents(t *testing.T) {
	mother := &hero.Character{ID: "m", Parents: []string{"ma", "mb", "mc"}}
	father := &hero.Character{ID: "f", Parents: []string{"fa", "fb"}}

	parents, grandparents := hero.Lineage(mother, father, father.ID)
	assert.Equal(t, []string{"m", "f"}, parents)
	assert.Len(t, grandparents, 4)
	assert.Equal(t, []string{"ma", "mb", "mc", "fa"}, grandparents)
}

func TestLineage_PlayerAsSecondParent(t *testing.T) {
	mother := &hero.Character{ID: "m", Parents: []string{"ma", "mb"}}
	parents, grandparents := hero.Lineage(mother, nil, "player")
	assert.Equal(t, []string{"m", "player"}, parents)
	assert.Equal(t, []string{"ma", "mb"}, grandparents)
}
