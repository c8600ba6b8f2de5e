package pool

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/urfave/cli/v3"
)

// Commands returns the top-level pool command
func Commands() *cli.Command {
	return &cli.Command{
		Name:  "pool",
		Usage: "Manage the addresses hms can assign",
		Commands: []*cli.Command{
			NewAddCommand(),
		},
	}
}

// NewAddCommand creates the command that seeds free addresses from a prefix
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add every usable address of an IPv4 prefix as free",
		ArgsUsage: "<cidr>",
		Action:    runAdd,
	}
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected <cidr>")
	}

	prefix, err := netip.ParsePrefix(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("invalid prefix: %w", err)
	}

	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	added, err := store.AddPool(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to add pool %s: %w", prefix, err)
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ %d addresses added from %s\n", added, prefix.Masked())
	return nil
}
