package secrets

import (
	"fmt"
	"os"
)

// EnvPassphrase names the environment variable holding a key passphrase
const EnvPassphrase = "HMS_KEY_PASSPHRASE"

// Resolver supplies the passphrase for an encrypted private key
type Resolver interface {
	Resolve(keyPath string) (string, error)
}

// KeyringResolver resolves passphrases from the OS keyring
type KeyringResolver struct{}

// NewKeyringResolver creates a new keyring resolver
func NewKeyringResolver() *KeyringResolver {
	return &KeyringResolver{}
}

// Resolve looks up the passphrase stored for keyPath
func (k *KeyringResolver) Resolve(keyPath string) (string, error) {
	return LoadPassphrase(keyPath)
}

// EnvResolver resolves passphrases from an environment variable
type EnvResolver struct {
	Name string
}

// NewEnvResolver creates a resolver reading HMS_KEY_PASSPHRASE
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{Name: EnvPassphrase}
}

// Resolve returns the variable's value regardless of keyPath
func (e *EnvResolver) Resolve(keyPath string) (string, error) {
	value := os.Getenv(e.Name)
	if value == "" {
		return "", fmt.Errorf("%w: environment variable %s not set", ErrNoPassphrase, e.Name)
	}
	return value, nil
}

// ResolverFunc adapts a function, such as a terminal prompt, to a Resolver
type ResolverFunc func(keyPath string) (string, error)

// Resolve calls f
func (f ResolverFunc) Resolve(keyPath string) (string, error) {
	return f(keyPath)
}
