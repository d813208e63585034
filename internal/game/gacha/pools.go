package gacha

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/rarity"
)

// NamedHero is a curated top-tier character. At most one copy of each can
// exist in a roster, preserving the uniqueness of mythic pulls.
type NamedHero struct {
	Name        string        `yaml:"name"`
	Race        hero.Race     `yaml:"race"`
	Rarity      rarity.Rarity `yaml:"rarity"`
	Gender      hero.Gender   `yaml:"gender"`
	Description string        `yaml:"description"`
}

// Validate checks a named-hero entry's invariants.
//
// Postcondition: Returns nil iff the entry is a top-tier character with a
// known race.
func (n NamedHero) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("named hero: name must not be empty")
	}
	if !n.Race.Valid() {
		return fmt.Errorf("named hero %q: unknown race %q", n.Name, string(n.Race))
	}
	if n.Rarity != rarity.SSS && n.Rarity != rarity.SP {
		return fmt.Errorf("named hero %q: rarity must be SSS or SP, got %q", n.Name, string(n.Rarity))
	}
	return nil
}

// PetTemplate defines one entry of the pet summon pool.
type PetTemplate struct {
	Name     string           `yaml:"name"`
	Kind     string           `yaml:"kind"`
	Icon     string           `yaml:"icon"`
	Rarity   rarity.Rarity    `yaml:"rarity"`
	Bonus    player.StatBonus `yaml:"bonus"`
	Reaction string           `yaml:"reaction"`
}

// Validate checks a pet template's invariants.
func (t PetTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("pet template: name must not be empty")
	}
	if !t.Rarity.Valid() {
		return fmt.Errorf("pet template %q: unknown rarity %q", t.Name, string(t.Rarity))
	}
	return nil
}

// Instantiate mints a fresh pet instance from the template.
func (t PetTemplate) Instantiate() *player.Pet {
	return &player.Pet{
		ID:       uuid.New().String(),
		Name:     t.Name,
		Kind:     t.Kind,
		Icon:     t.Icon,
		Rarity:   t.Rarity,
		Bonus:    t.Bonus,
		Reaction: t.Reaction,
	}
}

// poolFile is the YAML schema for the gacha data file.
type poolFile struct {
	HeroNames []string      `yaml:"hero_names"`
	NamedPool []NamedHero   `yaml:"named_heroes"`
	PetPool   []PetTemplate `yaml:"pets"`
}

// Pools bundles the three summon pools.
type Pools struct {
	HeroNames []string
	Named     []NamedHero
	Pets      []PetTemplate
}

// LoadPoolsFromBytes parses and validates the gacha pools from YAML.
//
// Postcondition: Every returned entry has passed Validate; empty sections
// stay empty so callers can fall back to defaults.
func LoadPoolsFromBytes(data []byte) (Pools, error) {
	var f poolFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Pools{}, fmt.Errorf("parsing gacha pool YAML: %w", err)
	}
	for i, n := range f.HeroNames {
		if n == "" {
			return Pools{}, fmt.Errorf("gacha pool: hero_names[%d] must not be empty", i)
		}
	}
	for _, n := range f.NamedPool {
		if err := n.Validate(); err != nil {
			return Pools{}, err
		}
	}
	for _, t := range f.PetPool {
		if err := t.Validate(); err != nil {
			return Pools{}, err
		}
	}
	return Pools{HeroNames: f.HeroNames, Named: f.NamedPool, Pets: f.PetPool}, nil
}

// LoadPools reads the gacha pools from a YAML file.
func LoadPools(path string) (Pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pools{}, fmt.Errorf("reading gacha pool file: %w", err)
	}
	return LoadPoolsFromBytes(data)
}

// DefaultHeroNames returns the compiled-in random-name pool.
func DefaultHeroNames() []string {
	return []string{
		"Erin", "Thorne", "Lilith", "Karl", "Sylva",
		"Grom", "Yuna", "Kane", "Mira", "Rega",
	}
}

// DefaultNamedHeroes returns the compiled-in curated pool.
func DefaultNamedHeroes() []NamedHero {
	return []NamedHero{
		{Name: "Aurelia Dawnsworn", Race: hero.RaceAngel, Rarity: rarity.SSS, Gender: hero.GenderFemale, Description: "Herald of the first light."},
		{Name: "Vael of the Hollow Court", Race: hero.RaceVampire, Rarity: rarity.SSS, Gender: hero.GenderMale, Description: "Last regent of a drowned dynasty."},
		{Name: "Nine-Veil Suzune", Race: hero.RaceFoxkin, Rarity: rarity.SP, Gender: hero.GenderFemale, Description: "The nine veils are eight too many to lift."},
		{Name: "Maelis Tidecaller", Race: hero.RaceMermaid, Rarity: rarity.SSS, Gender: hero.GenderNonbinary, Description: "Sings the currents into knots."},
		{Name: "Sorvai Ashcrown", Race: hero.RaceDemon, Rarity: rarity.SP, Gender: hero.GenderMale, Description: "Wears the cinders of his own throne."},
		{Name: "Liriel Greenward", Race: hero.RaceElf, Rarity: rarity.SSS, Gender: hero.GenderFemale, Description: "Warden of the oldest grove."},
		{Name: "Whiskret the Unseen", Race: hero.RaceCatfolk, Rarity: rarity.SSS, Gender: hero.GenderNonbinary, Description: "Nobody has seen them twice."},
	}
}

// DefaultPetTemplates returns the compiled-in pet pool.
func DefaultPetTemplates() []PetTemplate {
	return []PetTemplate{
		{Name: "Pudding", Kind: "Cat", Icon: "🐱", Rarity: rarity.C, Bonus: player.StatBonus{Atk: 5}, Reaction: "It nuzzles your hand; you feel a little stronger."},
		{Name: "Biscuit", Kind: "Dog", Icon: "🐶", Rarity: rarity.C, Bonus: player.StatBonus{HP: 50}, Reaction: "It wags its tail furiously; you feel invigorated."},
		{Name: "Poring", Kind: "Slime", Icon: "💧", Rarity: rarity.C, Bonus: player.StatBonus{Def: 5}, Reaction: "It wraps your arm like a soft layer of armor."},
		{Name: "Dumpling", Kind: "Hamster", Icon: "🐹", Rarity: rarity.B, Bonus: player.StatBonus{Spd: 10}, Reaction: "It sprints along your shoulders; your movements quicken."},
		{Name: "Jade", Kind: "Snake", Icon: "🐍", Rarity: rarity.B, Bonus: player.StatBonus{Skill: 15}, Reaction: "It coils around your staff; mana flows more smoothly."},
		{Name: "Flutter", Kind: "Butterfly", Icon: "🦋", Rarity: rarity.A, Bonus: player.StatBonus{Skill: 30, Spd: 5}, Reaction: "Glittering dust settles on you; inspiration strikes."},
		{Name: "Ninetail", Kind: "Fox", Icon: "🦊", Rarity: rarity.S, Bonus: player.StatBonus{Atk: 50, HP: 200}, Reaction: "Ghostfire flickers; ancient power boils in your veins."},
	}
}
