package host

import (
	"context"
	"fmt"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/urfave/cli/v3"
)

// NewRenameCommand creates the command that renames a host, keeping its address
func NewRenameCommand() *cli.Command {
	return &cli.Command{
		Name:  "rename",
		Usage: "Rename a host, keeping its address",
		Flags: []cli.Flag{
			hostFlag(),
			&cli.StringFlag{
				Name:  "to",
				Usage: "new host name",
			},
		},
		Action: runRename,
	}
}

func runRename(ctx context.Context, cmd *cli.Command) error {
	from, to := cmd.String("host"), cmd.String("to")
	if from == "" || to == "" {
		return fmt.Errorf("--host and --to are required")
	}
	for _, name := range []string{from, to} {
		if err := inventory.ValidateHost(name); err != nil {
			return err
		}
	}

	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RenameHost(ctx, from, to); err != nil {
		return fmt.Errorf("failed to rename host %s: %w", from, err)
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Host %s renamed to %s\n", from, to)
	return nil
}
