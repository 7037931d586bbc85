package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/benjaminwangfan/reading-path-builer/internal/levels"
)

// LevelFile represents a TOML level-configuration document:
//
//	[levels]
//	names = ["A1", "A2", "B1"]
//	progression = "linear"
//	beyond = "BEYOND"
//
//	[levels.weights]
//	A1 = 1.5
//	A2 = 1.3
//	B1 = 1.1
//
//	[levels.multipliers]  # custom progression only
type LevelFile struct {
	Levels LevelSection `toml:"levels"`
}

// LevelSection maps the [levels] table.
type LevelSection struct {
	Names       []string           `toml:"names"`
	Progression string             `toml:"progression"`
	Beyond      string             `toml:"beyond"`
	Weights     map[string]float64 `toml:"weights"`
	Multipliers map[string]float64 `toml:"multipliers"`
}

// LoadLevelConfig reads a TOML level configuration and constructs the
// validated levels.Config from it.
func LoadLevelConfig(path string) (*levels.Config, error) {
	var file LevelFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to decode level config: %w", err)
	}
	section := file.Levels
	beyond := section.Beyond
	if beyond == "" {
		beyond = "BEYOND"
	}
	progression := levels.Progression(section.Progression)
	if section.Progression == "" {
		progression = levels.Linear
	}
	if progression == levels.Custom {
		return levels.NewCustom(section.Names, section.Weights, beyond, section.Multipliers)
	}
	return levels.New(section.Names, section.Weights, progression, beyond)
}
