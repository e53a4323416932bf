package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "kinobot/core/config"
	coredatabase "kinobot/core/database"
)

// SeedConfig lists reference data loaded on startup.
type SeedConfig struct {
	// Admins are granted admin rights on every start. Idempotent.
	Admins []int64 `yaml:"admins" envconfig:"SEED_ADMINS"`
}

// Config aggregates all settings for the bot process.
type Config struct {
	Core     coreconfig.Config   `yaml:"core"`
	Database coredatabase.Config `yaml:"database"`
	Seed     SeedConfig          `yaml:"seed"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads YAML configuration and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := envconfig.Process("", &cfg.Core); err != nil {
		return nil, fmt.Errorf("failed to process core env config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to process database env config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Seed); err != nil {
		return nil, fmt.Errorf("failed to process seed env config: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	return &cfg, nil
}
