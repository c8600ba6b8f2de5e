package key

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/catalystcommunity/hms/internal/secrets"
	"github.com/catalystcommunity/hms/internal/ssh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Commands returns the top-level key command
func Commands() *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "Manage the SSH deploy key",
		Commands: []*cli.Command{
			NewGenerateCommand(),
			NewPassphraseCommand(),
		},
	}
}

// NewGenerateCommand creates the command that writes a new ed25519 deploy key pair
func NewGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate an ed25519 deploy key pair in OpenSSH format",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Usage:    "private key path; the public key goes to <out>.pub",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "comment",
				Usage: "key comment",
				Value: "hms",
			},
		},
		Action: runGenerate,
	}
}

// NewPassphraseCommand creates the command that stores or clears a key passphrase in the OS keyring
func NewPassphraseCommand() *cli.Command {
	return &cli.Command{
		Name:  "passphrase",
		Usage: "Store the passphrase of an encrypted deploy key in the OS keyring",
		Commands: []*cli.Command{
			{
				Name:   "set",
				Usage:  "Store the passphrase (read from HMS_KEY_PASSPHRASE or the terminal)",
				Flags:  []cli.Flag{keyFlag()},
				Action: runPassphraseSet,
			},
			{
				Name:   "clear",
				Usage:  "Remove the stored passphrase",
				Flags:  []cli.Flag{keyFlag()},
				Action: runPassphraseClear,
			},
		},
	}
}

func keyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "key",
		Usage:    "private key path",
		Required: true,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("out")
	for _, p := range []string{path, path + ".pub"} {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("%s already exists", p)
		}
	}

	kp, err := ssh.GenerateKeyPair(cmd.String("comment"))
	if err != nil {
		return err
	}
	if err := kp.WriteFiles(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Key pair written to %s and %s.pub\n", path, path)
	fmt.Fprintf(cmd.Root().Writer, "\nAdd this line to authorized_keys on each name server:\n%s", kp.Public)
	return nil
}

func runPassphraseSet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("key")

	passphrase, err := secrets.NewEnvResolver().Resolve(path)
	if err != nil {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("set %s or run from a terminal", secrets.EnvPassphrase)
		}
		fmt.Fprintf(cmd.Root().ErrWriter, "Passphrase for %s: ", path)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.Root().ErrWriter)
		if err != nil {
			return fmt.Errorf("failed to read passphrase: %w", err)
		}
		passphrase = strings.TrimRight(string(raw), "\r\n")
	}

	// refuse to store a passphrase that does not open the key
	if _, err := ssh.LoadSigner(path, func(string) ([]byte, error) { return []byte(passphrase), nil }); err != nil {
		return err
	}

	if err := secrets.StorePassphrase(path, passphrase); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Passphrase for %s stored in the keyring\n", path)
	return nil
}

func runPassphraseClear(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("key")
	if err := secrets.ClearPassphrase(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "✓ Passphrase for %s removed\n", path)
	return nil
}
