package alias

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/urfave/cli/v3"
)

// Commands returns the top-level alias command
func Commands() *cli.Command {
	return &cli.Command{
		Name:  "alias",
		Usage: "Manage CNAME aliases published in the forward zone",
		Commands: []*cli.Command{
			NewAddCommand(),
			NewDeleteCommand(),
			NewListCommand(),
		},
	}
}

// NewAddCommand creates the command that creates an alias
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a CNAME alias",
		ArgsUsage: "<alias> <target>",
		Action:    runAdd,
	}
}

// NewDeleteCommand creates the command that removes an alias
func NewDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Remove a CNAME alias",
		ArgsUsage: "<alias>",
		Action:    runDelete,
	}
}

// NewListCommand creates the command that lists aliases
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List CNAME aliases",
		Action:  runList,
	}
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected <alias> <target>")
	}
	a := inventory.AliasRecord{Alias: cmd.Args().Get(0), Target: cmd.Args().Get(1)}
	if err := inventory.ValidateHost(a.Alias); err != nil {
		return err
	}
	if strings.ContainsAny(a.Target, " \t;") || a.Target == "" {
		return fmt.Errorf("%q is not a valid alias target", a.Target)
	}

	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.AddAlias(ctx, a); err != nil {
		return fmt.Errorf("failed to add alias %s: %w", a.Alias, err)
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Alias %s -> %s added\n", a.Alias, a.Target)
	return nil
}

func runDelete(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected <alias>")
	}
	name := cmd.Args().First()

	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteAlias(ctx, name); err != nil {
		return fmt.Errorf("failed to delete alias %s: %w", name, err)
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Alias %s removed\n", name)
	return nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	store, err := shared.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	aliases, err := store.ListAliases(ctx)
	if err != nil {
		return err
	}

	if len(aliases) == 0 {
		fmt.Fprintln(cmd.Root().Writer, "No aliases defined.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 3, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ALIAS\tTARGET")
	fmt.Fprintln(w, "-----\t------")
	for _, a := range aliases {
		fmt.Fprintf(w, "%s\t%s\n", a.Alias, a.Target)
	}
	return nil
}
