// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice   PracticeConfig   `toml:"practice"`
	Dictionary DictionaryConfig `toml:"dictionary"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Categories     *[]string `toml:"categories"`
	Anki           *bool     `toml:"anki"`
	AlwaysReveal   *bool     `toml:"always-reveal"`
	SpeakWhole     *bool     `toml:"speak-whole"`
	AdvanceDelayMs *int      `toml:"advance-delay-ms"`
}

// DictionaryConfig maps steno dictionary settings.
type DictionaryConfig struct {
	Path       *string `toml:"path"`
	URL        *string `toml:"url"`
	TimeoutSec *int    `toml:"timeout-sec"`
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
