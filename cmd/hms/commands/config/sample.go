package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/catalystcommunity/hms/internal/config"
	"github.com/urfave/cli/v3"
)

// NewSampleCommand creates the command that prints or installs the sample configuration
func NewSampleCommand() *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Print a sample configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "write",
				Usage: "write the sample to ~/.hms/hms.yaml instead of printing it",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing config file with --write",
			},
		},
		Action: runSample,
	}
}

func runSample(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("write") {
		fmt.Fprint(cmd.Root().Writer, config.Sample)
		return nil
	}

	dir, err := config.EnsureConfigDir()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, config.DefaultConfigName)
	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(config.Sample), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Sample configuration written to %s\n", path)
	return nil
}
