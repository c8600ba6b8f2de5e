package host

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/urfave/cli/v3"
)

// NewListCommand creates the command that lists assigned hosts
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List assigned hosts",
		Flags: []cli.Flag{
			hostFlag(),
			ipFlag(),
			&cli.StringFlag{
				Name:  "match",
				Usage: "address pattern, '%' matches any run and '_' one character",
			},
		},
		Action: runList,
	}
}

func runList(ctx context.Context, cmd *cli.Command) error {
	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var hosts []inventory.HostRecord
	if cmd.IsSet("host") || cmd.IsSet("ip") {
		host, ip, err := hostOrIP(cmd)
		if err != nil {
			return err
		}
		h, err := store.Lookup(ctx, host, ip)
		if err != nil {
			return fmt.Errorf("failed to look up host: %w", err)
		}
		hosts = append(hosts, h)
	} else {
		hosts, err = store.ListHosts(ctx, cmd.String("match"))
		if err != nil {
			return err
		}
	}

	if len(hosts) == 0 {
		fmt.Fprintln(cmd.Root().Writer, "No hosts found.")
		fmt.Fprintln(cmd.Root().Writer, "\nUse 'hms host add' to assign an address.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 3, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "HOST\tIP\tMAC\tDHCP\tDESCRIPTION")
	fmt.Fprintln(w, "----\t--\t---\t----\t-----------")
	for _, h := range hosts {
		dhcp := "N"
		if h.DHCP {
			dhcp = "Y"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", orDash(h.Host), h.IP, orDash(h.MAC), dhcp, h.Description)
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
