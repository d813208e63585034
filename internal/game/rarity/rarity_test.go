package rarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgames/summoner/internal/game/rarity"
)

func TestTiers_AscendingOrder(t *testing.T) {
	tiers := rarity.Tiers()
	require.Len(t, tiers, 7)
	for i, tier := range tiers {
		assert.True(t, tier.Valid())
		assert.Equal(t, i, tier.Index())
	}
	assert.False(t, rarity.Rarity("D").Valid())
}

func TestTables_MonotoneAcrossTiers(t *testing.T) {
	tiers := rarity.Tiers()
	for i := 1; i < len(tiers); i++ {
		lo, hi := tiers[i-1], tiers[i]

		loMin, loMax := lo.StatRange()
		hiMin, hiMax := hi.StatRange()
		assert.Less(t, loMin, loMax, "tier %s band", lo)
		assert.LessOrEqual(t, loMax, hiMin, "bands must not overlap: %s vs %s", lo, hi)
		assert.Less(t, hiMin, hiMax, "tier %s band", hi)

		assert.Less(t, lo.Multiplier(), hi.Multiplier())
		assert.Less(t, lo.ExecutionGems(), hi.ExecutionGems())
		assert.Less(t, lo.BreedWeight(), hi.BreedWeight())
	}
}

func TestTables_KnownValues(t *testing.T) {
	assert.Equal(t, 1.0, rarity.C.Multiplier())
	assert.Equal(t, 3.0, rarity.SSS.Multiplier())
	assert.Equal(t, 10, rarity.C.ExecutionGems())
	assert.Equal(t, 1000, rarity.SP.ExecutionGems())
	assert.Equal(t, 100.0, rarity.SSS.BreedWeight())

	min, max := rarity.A.StatRange()
	assert.Equal(t, 60, min)
	assert.Equal(t, 100, max)
}

func TestTables_PanicOnUnknownTier(t *testing.T) {
	bad := rarity.Rarity("D")
	assert.Panics(t, func() { bad.Index() })
	assert.Panics(t, func() { bad.StatRange() })
	assert.Panics(t, func() { bad.ExecutionGems() })
}
