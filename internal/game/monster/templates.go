package monster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// templateFile is the YAML schema for a monster name pool.
type templateFile struct {
	Names []string `yaml:"names"`
}

// DefaultNames returns the compiled-in name template pool, used when no
// data file is configured.
func DefaultNames() []string {
	return []string{
		"Forest Slime",
		"Rock Colossus",
		"Shadow Lurker",
		"Vile Goblin",
		"Skeleton Swordsman",
		"Wild Orc",
		"Cave Troll",
		"Infernal Demon",
		"Ancient Dragon",
	}
}

// LoadNamesFromBytes parses a monster name pool from raw YAML bytes.
//
// Postcondition: Returns a non-empty name list or an error.
func LoadNamesFromBytes(data []byte) ([]string, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing monster template YAML: %w", err)
	}
	if len(f.Names) == 0 {
		return nil, fmt.Errorf("monster template: names must not be empty")
	}
	for i, n := range f.Names {
		if n == "" {
			return nil, fmt.Errorf("monster template: names[%d] must not be empty", i)
		}
	}
	return f.Names, nil
}

// LoadNames reads a monster name pool from a YAML file.
//
// Precondition: path must point at a readable YAML file.
func LoadNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading monster template file: %w", err)
	}
	return LoadNamesFromBytes(data)
}
