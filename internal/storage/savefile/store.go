// Package savefile persists the player aggregate as a single local JSON
// document. Saves are full atomic overwrites; loads migrate old or
// partial documents by backfilling missing fields with their defaults.
package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/player"
)

// Store reads and writes one savefile path.
type Store struct {
	path string
}

// NewStore creates a store over the given file path. The parent directory
// is created on first save.
//
// Precondition: path must be non-empty.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the savefile location.
func (s *Store) Path() string { return s.path }

// Load reads the savefile. A missing file yields a fresh default player;
// a present file has its missing fields backfilled so saves written by
// older versions keep loading.
//
// Postcondition: The returned aggregate always has non-nil rosters, a
// bloodline set, and valid stage pointers.
func (s *Store) Load() (*player.Player, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		fresh := player.New()
		migrate(fresh)
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading savefile: %w", err)
	}

	p := &player.Player{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing savefile: %w", err)
	}
	migrate(p)
	return p, nil
}

// Save writes the aggregate as an atomic full overwrite: marshal to a
// temp file in the same directory, then rename over the target.
func (s *Store) Save(p *player.Player) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding savefile: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp savefile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp savefile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp savefile: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing savefile: %w", err)
	}
	return nil
}

// Export returns the raw JSON document for the aggregate.
func Export(p *player.Player) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Import parses a raw JSON document into an aggregate, backfilling
// missing fields like Load does. The caller replaces its state wholesale.
func Import(data []byte) (*player.Player, error) {
	p := &player.Player{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing import: %w", err)
	}
	migrate(p)
	return p, nil
}

// migrate backfills fields absent from old or hand-edited documents.
func migrate(p *player.Player) {
	if p.Name == "" {
		p.Name = "Novice Summoner"
	}
	if p.Gender == "" {
		p.Gender = hero.GenderNonbinary
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Chapter < 1 {
		p.Chapter = 1
	}
	if p.StageLevel < 1 {
		p.StageLevel = 1
	}
	if p.TargetRace == "" {
		p.TargetRace = hero.RaceElf
	}
	if len(p.Bloodlines) == 0 {
		p.Bloodlines = hero.HumanBloodline()
	}
	if p.ClearedEliteStages == nil {
		p.ClearedEliteStages = []string{}
	}
	if p.Heroes == nil {
		p.Heroes = []*hero.Character{}
	}
	if p.Pets == nil {
		p.Pets = []*player.Pet{}
	}
	if p.Prisoners == nil {
		p.Prisoners = []*hero.Character{}
	}
	if p.Offspring == nil {
		p.Offspring = []*hero.Character{}
	}
	if p.Inventory == nil {
		p.Inventory = []*player.Item{}
	}
	for _, list := range [][]*hero.Character{p.Heroes, p.Prisoners, p.Offspring} {
		for _, c := range list {
			migrateCharacter(c)
		}
	}
}

// migrateCharacter backfills per-character fields that older documents
// predate.
func migrateCharacter(c *hero.Character) {
	if c.Race == "" {
		c.Race = hero.RaceHuman
	}
	if len(c.Bloodlines) == 0 {
		c.Bloodlines = hero.HumanBloodline()
	}
	if c.Level < 1 {
		c.Level = 1
	}
	if c.MaxExp < 1 {
		c.MaxExp = 100
	}
}
