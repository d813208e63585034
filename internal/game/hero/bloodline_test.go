package hero_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

// fixedSource returns a constant Float64 and zero Intn, for steering
// weighted draws onto a known branch.
type fixedSource struct{ f float64 }

func (s fixedSource) Intn(n int) int   { return 0 }
func (s fixedSource) Float64() float64 { return s.f }

func TestResolveRace_PureEntryWinsDeterministically(t *testing.T) {
	bl := []hero.Bloodline{
		{Race: hero.RaceElf, Purity: 30},
		{Race: hero.RaceDemon, Purity: 100},
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, hero.RaceDemon, hero.ResolveRace(bl, rng.NewSeeded(uint64(i))))
	}
}

func TestResolveRace_EmptySetIsHuman(t *testing.T) {
	assert.Equal(t, hero.RaceHuman, hero.ResolveRace(nil, rng.NewSeeded(7)))
}

func TestResolveRace_WeightedWalk(t *testing.T) {
	bl := []hero.Bloodline{
		{Race: hero.RaceElf, Purity: 30},
		{Race: hero.RaceVampire, Purity: 40},
	}
	tests := []struct {
		draw float64
		want hero.Race
	}{
		{0.0, hero.RaceElf},     // 0 < 30
		{0.29, hero.RaceElf},    // 29 < 30
		{0.30, hero.RaceVampire}, // 30 falls through to the second band
		{0.69, hero.RaceVampire}, // 69 < 70
		{0.70, hero.RaceHuman},  // unassigned remainder resolves to Human
		{0.99, hero.RaceHuman},
	}
	for _, tc := range tests {
		got := hero.ResolveRace(bl, fixedSource{f: tc.draw})
		assert.Equal(t, tc.want, got, "draw=%v", tc.draw)
	}
}

func TestMergeBloodlines_AveragesWithAbsenceAsZero(t *testing.T) {
	a := []hero.Bloodline{
		{Race: hero.RaceElf, Purity: 60},
		{Race: hero.RaceHuman, Purity: 40},
	}
	b := []hero.Bloodline{
		{Race: hero.RaceDemon, Purity: 80},
		{Race: hero.RaceHuman, Purity: 20},
	}

	merged := hero.MergeBloodlines(a, b)
	require.Len(t, merged, 3)

	byRace := map[hero.Race]float64{}
	for _, bl := range merged {
		byRace[bl.Race] = bl.Purity
	}
	assert.Equal(t, 30.0, byRace[hero.RaceHuman])
	assert.Equal(t, 30.0, byRace[hero.RaceElf])
	assert.Equal(t, 40.0, byRace[hero.RaceDemon])
}

func TestMergeBloodlines_Property_Commutative(t *testing.T) {
	gen := rapid.SliceOfN(rapid.Custom(func(rt *rapid.T) hero.Bloodline {
		races := hero.Races()
		return hero.Bloodline{
			Race:   races[rapid.IntRange(0, len(races)-1).Draw(rt, "race")],
			Purity: rapid.Float64Range(0, 100).Draw(rt, "purity"),
		}
	}), 0, 6)

	rapid.Check(t, func(rt *rapid.T) {
		a := gen.Draw(rt, "a")
		b := gen.Draw(rt, "b")
		assert.Equal(rt, hero.MergeBloodlines(a, b), hero.MergeBloodlines(b, a))
	})
}

func TestAssimilate_FoldsTraceIntoDominant(t *testing.T) {
	bl := []hero.Bloodline{
		{Race: hero.RaceElf, Purity: 70},
		{Race: hero.RaceDemon, Purity: 0.005},
		{Race: hero.RaceHuman, Purity: 29},
	}
	out := hero.Assimilate(bl)
	require.Len(t, out, 2)
	assert.Equal(t, hero.RaceElf, out[0].Race)
	assert.InDelta(t, 70.005, out[0].Purity, 1e-9)
	assert.Equal(t, hero.RaceHuman, out[1].Race)

	// Total purity preserved.
	total := 0.0
	for _, b := range out {
		total += b.Purity
	}
	assert.InDelta(t, 99.005, total, 1e-9)
}

func TestAssimilate_SingleEntryUntouched(t *testing.T) {
	bl := []hero.Bloodline{{Race: hero.RaceFoxkin, Purity: 0.001}}
	out := hero.Assimilate(bl)
	assert.Equal(t, bl, out)
}

func TestMaxPurity(t *testing.T) {
	assert.Equal(t, 0.0, hero.MaxPurity(nil))
	assert.Equal(t, 55.0, hero.MaxPurity([]hero.Bloodline{
		{Race: hero.RaceElf, Purity: 12},
		{Race: hero.RaceAngel, Purity: 55},
	}))
}
