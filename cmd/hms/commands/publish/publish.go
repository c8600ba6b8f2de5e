package publish

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/catalystcommunity/hms/cmd/hms/commands/shared"
	"github.com/catalystcommunity/hms/internal/config"
	"github.com/catalystcommunity/hms/internal/deploy"
	"github.com/catalystcommunity/hms/internal/errs"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/catalystcommunity/hms/internal/publish"
	"github.com/catalystcommunity/hms/internal/secrets"
	"github.com/catalystcommunity/hms/internal/ssh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Commands creates the command that publishes the forward and reverse zones of a stanza
func Commands() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Render DNS zones from the inventory and deploy them to the name servers",
		Description: `Builds the forward zone and every reverse zone of the stanza, checks
each one locally, then copies it to every name server in order and runs the
zone check there. The first failure stops the run.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "stanza",
				Usage: "publish stanza in the config file",
				Value: config.DefaultStanza,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "write the zones to --out instead of deploying them",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "output directory for --dry-run; each zone is written under the file name of its destination",
			},
		},
		Action: runPublish,
	}
}

func runPublish(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}
	logger := shared.Logger(cmd, cfg)

	stanza, err := cfg.Stanza(cmd.String("stanza"))
	if err != nil {
		return err
	}

	if cmd.Bool("dry-run") && cmd.String("out") == "" {
		return fmt.Errorf("--dry-run requires --out")
	}

	store, err := inventory.Open(cfg.Inventory.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	p := &publish.Publisher{
		Config: *stanza,
		Reader: store,
		Logger: logger,
	}

	if cmd.Bool("dry-run") {
		p.DryRunDir = cmd.String("out")
	} else {
		executor, err := newExecutor(cmd, stanza)
		if err != nil {
			return err
		}
		p.Executor = executor
		p.Stager = deploy.NewStager(stanza.StagingFile)
	}

	report, err := p.Run(ctx)
	printReport(cmd, report, p.DryRunDir != "")
	return err
}

func newExecutor(cmd *cli.Command, stanza *config.Publish) (*deploy.SSHExecutor, error) {
	passphrases := secrets.NewChainResolver(
		secrets.NewKeyringResolver(),
		secrets.NewEnvResolver(),
		promptResolver(cmd),
	)

	auth, err := ssh.PublicKeyAuth(stanza.KeyPath, passphrases.PassphraseFunc())
	if err != nil {
		return nil, &errs.LocalIOError{Path: stanza.KeyPath, Err: err}
	}

	hostKeys, err := ssh.HostKeyCallback(stanza.KnownHosts)
	if err != nil {
		return nil, &errs.LocalIOError{Path: stanza.KnownHosts, Err: err}
	}

	return deploy.NewSSHExecutor(auth, hostKeys, stanza.CheckCommand), nil
}

// promptResolver asks for the key passphrase when stdin is a terminal
func promptResolver(cmd *cli.Command) secrets.Resolver {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	return secrets.ResolverFunc(func(keyPath string) (string, error) {
		fmt.Fprintf(cmd.Root().ErrWriter, "Passphrase for %s: ", keyPath)
		passphrase, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.Root().ErrWriter)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		return string(passphrase), nil
	})
}

func printReport(cmd *cli.Command, report *publish.Report, dryRun bool) {
	if report == nil || len(report.Zones) == 0 {
		return
	}

	fmt.Fprintf(cmd.Root().Writer, "Stanza %s, serial %s\n", report.Stanza, report.Serial)

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 3, ' ', 0)
	defer w.Flush()

	if dryRun {
		fmt.Fprintln(w, "ZONE\tRECORDS\tFILE")
		for _, z := range report.Zones {
			fmt.Fprintf(w, "%s\t%d\t%s\n", z.Zone, z.Records, z.Path)
		}
		return
	}

	fmt.Fprintln(w, "ZONE\tRECORDS\tENDPOINT\tSTEP\tSTATUS")
	for _, z := range report.Zones {
		for _, o := range z.Outcomes {
			status := "✓"
			if !o.Success {
				status = fmt.Sprintf("✗ exit %d", o.ExitStatus)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", z.Zone, z.Records, o.Endpoint, o.Step, status)
		}
	}
}
