package secrets

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name used in the OS keyring. Entries are
// keyed by the absolute path of the private key they unlock.
const KeyringService = "hms"

// ErrNoPassphrase is returned when a source holds no passphrase for a key
var ErrNoPassphrase = errors.New("no passphrase found")

// keyringUser returns the keyring account name for a key file
func keyringUser(keyPath string) (string, error) {
	if keyPath == "" {
		return "", fmt.Errorf("key path cannot be empty")
	}
	abs, err := filepath.Abs(keyPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve key path: %w", err)
	}
	return abs, nil
}

// StorePassphrase stores the passphrase of a deploy key in the OS keyring
func StorePassphrase(keyPath, passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	user, err := keyringUser(keyPath)
	if err != nil {
		return err
	}

	if err := keyring.Set(KeyringService, user, passphrase); err != nil {
		return fmt.Errorf("failed to store passphrase in keyring: %w", err)
	}
	return nil
}

// LoadPassphrase retrieves the passphrase of a deploy key from the OS keyring
func LoadPassphrase(keyPath string) (string, error) {
	user, err := keyringUser(keyPath)
	if err != nil {
		return "", err
	}

	passphrase, err := keyring.Get(KeyringService, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w in keyring for %s", ErrNoPassphrase, user)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return passphrase, nil
}

// ClearPassphrase removes a stored passphrase. Clearing an absent entry is
// not an error.
func ClearPassphrase(keyPath string) error {
	user, err := keyringUser(keyPath)
	if err != nil {
		return err
	}

	err = keyring.Delete(KeyringService, user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear passphrase from keyring: %w", err)
	}
	return nil
}
