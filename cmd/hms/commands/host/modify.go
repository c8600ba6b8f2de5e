package host

import (
	"context"
	"fmt"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/urfave/cli/v3"
)

// NewModifyCommand creates the command that changes description, MAC or DHCP flag of a host
func NewModifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "modify",
		Usage: "Change the description, MAC or DHCP flag of a host",
		Flags: []cli.Flag{
			hostFlag(),
			descriptionFlag(),
			macFlag(),
			dhcpFlag(),
			&cli.BoolFlag{
				Name:  "no-dhcp",
				Usage: "stop handing out the address over DHCP",
			},
		},
		Action: runModify,
	}
}

func runModify(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	if host == "" {
		return fmt.Errorf("--host is required")
	}
	if err := inventory.ValidateHost(host); err != nil {
		return err
	}

	var changes inventory.Changes
	if cmd.IsSet("description") {
		desc := cmd.String("description")
		if err := inventory.ValidateDescription(desc); err != nil {
			return err
		}
		changes.Description = &desc
	}
	if cmd.IsSet("mac") {
		mac, err := inventory.NormalizeMAC(cmd.String("mac"))
		if err != nil {
			return err
		}
		changes.MAC = &mac
	}
	if cmd.Bool("dhcp") && cmd.Bool("no-dhcp") {
		return fmt.Errorf("--dhcp and --no-dhcp are mutually exclusive")
	}
	if cmd.Bool("dhcp") || cmd.Bool("no-dhcp") {
		dhcp := cmd.Bool("dhcp")
		changes.DHCP = &dhcp
	}
	if changes.Empty() {
		return fmt.Errorf("nothing to modify: give --description, --mac, --dhcp or --no-dhcp")
	}

	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ModifyHost(ctx, host, changes); err != nil {
		return fmt.Errorf("failed to modify host %s: %w", host, err)
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Host %s updated\n", host)
	return nil
}
