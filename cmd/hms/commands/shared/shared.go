// Package shared holds the setup every hms command repeats: finding and
// loading the config file, opening the inventory and building the logger.
package shared

import (
	"fmt"
	"log/slog"

	"github.com/catalystcommunity/hms/internal/config"
	"github.com/catalystcommunity/hms/internal/errs"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/catalystcommunity/hms/internal/logging"
	"github.com/urfave/cli/v3"
)

// LoadConfig finds and loads the config named by the root --config flag
// (or HMS_CONFIG), falling back to ~/.hms/hms.yaml.
func LoadConfig(cmd *cli.Command) (*config.Config, string, error) {
	path, err := config.FindConfig(cmd.String("config"))
	if err != nil {
		return nil, "", &errs.ConfigError{Err: fmt.Errorf("%w (run 'hms config sample' for an example)", err)}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Logger configures logging from the config file. The root --log-level flag
// overrides the configured level. Every entry carries the running command name.
func Logger(cmd *cli.Command, cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	return logging.Configure(logging.Config{
		Level:       level,
		Format:      cfg.Logging.Format,
		ExtraFields: map[string]string{"command": cmd.Name},
		Output:      cmd.Root().ErrWriter,
	})
}

// OpenStore loads the config and opens the inventory it names. The caller
// closes the store.
func OpenStore(cmd *cli.Command) (*inventory.Store, error) {
	cfg, _, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	Logger(cmd, cfg)

	return inventory.Open(cfg.Inventory.Path)
}
