package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	aliascmd "github.com/catalystcommunity/hms/cmd/hms/commands/alias"
	configcmd "github.com/catalystcommunity/hms/cmd/hms/commands/config"
	hostcmd "github.com/catalystcommunity/hms/cmd/hms/commands/host"
	keycmd "github.com/catalystcommunity/hms/cmd/hms/commands/key"
	poolcmd "github.com/catalystcommunity/hms/cmd/hms/commands/pool"
	publishcmd "github.com/catalystcommunity/hms/cmd/hms/commands/publish"
	"github.com/catalystcommunity/hms/internal/config"
	"github.com/catalystcommunity/hms/internal/errs"
	"github.com/urfave/cli/v3"
)

var (
	// Version information (will be set by build flags)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "hms",
		Usage:   "Host address inventory and DNS zone publisher",
		Version: fmt.Sprintf("%s (%s, %s)", Version, GitCommit, BuildDate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars(config.EnvConfig),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the configured log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			publishcmd.Commands(),
			hostcmd.Commands(),
			aliascmd.Commands(),
			poolcmd.Commands(),
			configcmd.Commands(),
			keycmd.Commands(),
		},
	}

	// Cancelling on interrupt lets a publish release its staging lock
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var cfgErr *errs.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "\nSample configuration:\n\n%s", config.Sample)
		}
		os.Exit(errs.ExitCode(err))
	}
}
