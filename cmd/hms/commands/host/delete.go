package host

import (
	"context"
	"fmt"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/urfave/cli/v3"
)

// NewDeleteCommand creates the command that frees the address held by a host
func NewDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Aliases: []string{"rm"},
		Usage:   "Free the address held by a host",
		Flags: []cli.Flag{
			hostFlag(),
			ipFlag(),
		},
		Action: runDelete,
	}
}

func runDelete(ctx context.Context, cmd *cli.Command) error {
	host, ip, err := hostOrIP(cmd)
	if err != nil {
		return err
	}

	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	freed, err := store.DeleteHost(ctx, host, ip)
	if err != nil {
		return fmt.Errorf("failed to delete host: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Host %s removed, %s is free\n", freed.Host, freed.IP)
	return nil
}
