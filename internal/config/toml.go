// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer TimerConfig `toml:"timer"`
}

// TimerConfig maps timer-related settings. Duration and presets use the same
// grammar as the interactive duration input ("25m", "5:30", "90").
type TimerConfig struct {
	Duration *string   `toml:"duration"`
	Presets  *[]string `toml:"presets"`
	Silent   *bool     `toml:"silent"`
	Volume   *float64  `toml:"volume"`
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
