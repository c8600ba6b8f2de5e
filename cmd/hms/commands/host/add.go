package host

import (
	"context"
	"fmt"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/urfave/cli/v3"
)

// NewAddCommand creates the command that assigns an address to a new host
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Assign an address to a new host",
		Description: `Assigns --ip to the host, or the first free address when --ip is
omitted. The host name, MAC and address must not already be in use.`,
		Flags: []cli.Flag{
			hostFlag(),
			ipFlag(),
			descriptionFlag(),
			macFlag(),
			dhcpFlag(),
		},
		Action: runAdd,
	}
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	h, err := hostFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	added, err := store.AddHost(ctx, h)
	if err != nil {
		return fmt.Errorf("failed to add host %s: %w", h.Host, err)
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Host %s added at %s\n", added.Host, added.IP)
	return nil
}

func hostFromFlags(cmd *cli.Command) (inventory.HostRecord, error) {
	h := inventory.HostRecord{
		Host:        cmd.String("host"),
		IP:          cmd.String("ip"),
		Description: cmd.String("description"),
		DHCP:        cmd.Bool("dhcp"),
	}

	if h.Host == "" {
		return h, fmt.Errorf("--host is required")
	}
	if err := inventory.ValidateHost(h.Host); err != nil {
		return h, err
	}
	if h.IP != "" {
		if err := inventory.ValidateIP(h.IP); err != nil {
			return h, err
		}
	}
	if h.Description != "" {
		if err := inventory.ValidateDescription(h.Description); err != nil {
			return h, err
		}
	}
	if mac := cmd.String("mac"); mac != "" {
		normalized, err := inventory.NormalizeMAC(mac)
		if err != nil {
			return h, err
		}
		h.MAC = normalized
	}
	if h.DHCP && h.MAC == "" {
		return h, fmt.Errorf("--dhcp requires --mac")
	}
	return h, nil
}
