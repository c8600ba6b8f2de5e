package host

import (
	"fmt"

	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/urfave/cli/v3"
)

// Commands returns the top-level host command
func Commands() *cli.Command {
	return &cli.Command{
		Name:  "host",
		Usage: "Manage host address assignments in the inventory",
		Commands: []*cli.Command{
			NewAddCommand(),
			NewModifyCommand(),
			NewDeleteCommand(),
			NewRenameCommand(),
			NewListCommand(),
			NewFreeCommand(),
		},
	}
}

// Flags are built per command: urfave/cli keeps parsed values on the flag.

func hostFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "host",
		Aliases: []string{"n"},
		Usage:   "host name",
	}
}

func ipFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "ip",
		Aliases: []string{"i"},
		Usage:   "IPv4 address",
	}
}

func descriptionFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "description",
		Aliases: []string{"d"},
		Usage:   "free-form description (letters, digits, spaces, _ - .)",
	}
}

func macFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "mac",
		Aliases: []string{"m"},
		Usage:   "MAC address, any of : - . separators",
	}
}

func dhcpFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "dhcp",
		Aliases: []string{"x"},
		Usage:   "hand out the address over DHCP (needs --mac)",
	}
}

// hostOrIP returns the --host and --ip values, requiring exactly one
func hostOrIP(cmd *cli.Command) (string, string, error) {
	host, ip := cmd.String("host"), cmd.String("ip")
	if (host == "") == (ip == "") {
		return "", "", fmt.Errorf("specify exactly one of --host or --ip")
	}
	if host != "" {
		if err := inventory.ValidateHost(host); err != nil {
			return "", "", err
		}
	}
	if ip != "" {
		if err := inventory.ValidateIP(ip); err != nil {
			return "", "", err
		}
	}
	return host, ip, nil
}
