package savefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/rarity"
)

func TestLoad_MissingFileYieldsFreshPlayer(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "save.json"))

	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "Novice Summoner", p.Name)
	assert.Equal(t, 1000, p.Gold)
	assert.Equal(t, 200, p.Gems)
	assert.NotNil(t, p.Heroes)
	assert.NotNil(t, p.Inventory)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "save.json"))

	p := player.New()
	p.Gold = 4321
	p.PitySSS = 37
	p.Heroes = append(p.Heroes, &hero.Character{
		ID:         "h-1",
		Name:       "Sylva",
		Rarity:     rarity.SS,
		Class:      hero.ClassMage,
		Gender:     hero.GenderFemale,
		Race:       hero.RaceElf,
		Bloodlines: hero.PureBloodline(hero.RaceElf),
		Level:      12,
		MaxExp:     313,
		Stats:      hero.Stats{HP: 900, MaxHP: 900, Atk: 210, Def: 100, Spd: 30, Skill: 170},
	})
	p.AddItem(player.ItemTrainingBook)
	require.NoError(t, s.Save(p))

	loaded, err := s.Load()
	require.NoError(t, err)

	// Round-trip equality modulo the backfill of empty collections.
	loadedCopy := loaded.Clone()
	originalCopy := p.Clone()
	originalCopy.Pets = []*player.Pet{}
	originalCopy.Prisoners = []*hero.Character{}
	originalCopy.Offspring = []*hero.Character{}
	originalCopy.ClearedEliteStages = []string{}
	assert.Equal(t, originalCopy, loadedCopy)
}

func TestSave_AtomicOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "save.json"))

	p := player.New()
	require.NoError(t, s.Save(p))
	p.Gold = 777
	require.NoError(t, s.Save(p))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 777, loaded.Gold)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoad_BackfillsOldDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	old := `{
		"gold": 500,
		"heroes": [{"id": "h-1", "name": "Karl", "rarity": "B", "class": "Swordsman", "gender": "Male"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(old), 0o644))

	p, err := NewStore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 500, p.Gold)
	assert.Equal(t, 1, p.Chapter)
	assert.Equal(t, 1, p.StageLevel)
	assert.Equal(t, hero.RaceElf, p.TargetRace)
	assert.Equal(t, hero.HumanBloodline(), p.Bloodlines)

	h := p.Heroes[0]
	assert.Equal(t, hero.RaceHuman, h.Race)
	assert.Equal(t, hero.HumanBloodline(), h.Bloodlines)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, 100, h.MaxExp)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
}

func TestExportImport(t *testing.T) {
	p := player.New()
	p.Gems = 5150

	data, err := Export(p)
	require.NoError(t, err)

	imported, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, 5150, imported.Gems)

	_, err = Import([]byte("nope"))
	assert.Error(t, err)
}
