package config

import (
	"fmt"
	"io"
	"os"

	"github.com/catalystcommunity/hms/internal/errs"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a configuration file from the given path
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.ConfigError{Err: fmt.Errorf("config file not found: %s", path)}
		}
		return nil, &errs.ConfigError{Err: fmt.Errorf("failed to open config file %s: %w", path, err)}
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader reads and parses a configuration from an io.Reader
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.ConfigError{Err: fmt.Errorf("failed to read config: %w", err)}
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &errs.ConfigError{Err: fmt.Errorf("failed to parse YAML: %w", err)}
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, &errs.ConfigError{Err: fmt.Errorf("config validation failed: %w", err)}
	}

	return &config, nil
}
