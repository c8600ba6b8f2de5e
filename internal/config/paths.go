package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigDir is the default directory name for hms configs
	DefaultConfigDir = ".hms"
	// DefaultConfigName is the default config file name
	DefaultConfigName = "hms.yaml"
	// EnvConfigDir overrides the config directory
	EnvConfigDir = "HMS_CONFIG_DIR"
	// EnvConfig names the config file, same as --config
	EnvConfig = "HMS_CONFIG"
)

// GetConfigDir returns the hms configuration directory path.
// Defaults to ~/.hms/ unless overridden by environment.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, DefaultConfigDir), nil
}

// FindConfig finds a configuration file by name.
// A name containing a path separator is used as a path.
// A bare filename is looked up in the config directory.
// An empty name means the default config.
func FindConfig(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if _, err := os.Stat(name); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("config file not found: %s", name)
			}
			return "", fmt.Errorf("failed to stat config file %s: %w", name, err)
		}
		return name, nil
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if name == "" {
		name = DefaultConfigName
	}

	if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
		name += ".yaml"
	}

	configPath := filepath.Join(configDir, name)

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("config file not found: %s", configPath)
		}
		return "", fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	return configPath, nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	return configDir, nil
}
