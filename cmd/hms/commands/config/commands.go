package config

import "github.com/urfave/cli/v3"

// Commands returns the top-level config command
func Commands() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show a sample configuration or validate one",
		Commands: []*cli.Command{
			NewSampleCommand(),
			NewValidateCommand(),
		},
	}
}
