package config

import (
	"context"
	"fmt"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/urfave/cli/v3"
)

// NewValidateCommand creates the command that validates a configuration file and every publish stanza
func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:   "validate",
		Usage:  "Validate the configuration file and every publish stanza",
		Action: runValidate,
	}
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	cfg, path, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	fmt.Fprintf(out, "✓ Configuration is valid: %s\n", path)
	fmt.Fprintf(out, "  Inventory: %s\n", cfg.Inventory.Path)

	for _, name := range cfg.StanzaNames() {
		p, err := cfg.Stanza(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  Stanza %s: %s, %d name server(s), %d reverse zone(s)\n",
			name, p.Domain, len(p.Endpoints), len(p.Reverse))
	}

	return nil
}
