// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Path PathConfig `toml:"path"`
}

// PathConfig maps path-generation settings. Pointer fields distinguish unset
// values from explicit ones so flags keep precedence.
type PathConfig struct {
	Corpus      *string `toml:"corpus"`
	Manifest    *string `toml:"manifest"`
	WordLevels  *string `toml:"word-levels"`
	LevelConfig *string `toml:"level-config"`
	Preset      *string `toml:"preset"`
	Grades      *int    `toml:"grades"`
	Strategy    *string `toml:"strategy"`
	Save        *bool   `toml:"save"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
