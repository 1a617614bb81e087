// Package config loads optional rawpng defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "rawpng.yaml"

// Config mirrors the command-line flags. Zero values mean "not set".
type Config struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Format  string `yaml:"format"`
	Scale   int    `yaml:"scale"`
	Profile string `yaml:"profile"`
	Workers int    `yaml:"workers"`
}

// Load reads path. A missing file yields an empty Config unless required
// is set, in which case it is an error.
func Load(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Scale < 0 {
		return nil, fmt.Errorf("config %s: scale must be >= 1, got %d", path, c.Scale)
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("config %s: workers must be >= 0, got %d", path, c.Workers)
	}
	return &c, nil
}
