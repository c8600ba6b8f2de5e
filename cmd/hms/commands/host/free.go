package host

import (
	"context"
	"fmt"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/urfave/cli/v3"
)

// NewFreeCommand creates the command that lists unassigned addresses
func NewFreeCommand() *cli.Command {
	return &cli.Command{
		Name:   "free",
		Usage:  "List unassigned addresses",
		Action: runFree,
	}
}

func runFree(ctx context.Context, cmd *cli.Command) error {
	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	free, err := store.FreeList(ctx)
	if err != nil {
		return err
	}

	for _, ip := range free {
		fmt.Fprintln(cmd.Root().Writer, ip)
	}
	fmt.Fprintf(cmd.Root().Writer, "%d free addresses\n", len(free))
	return nil
}
