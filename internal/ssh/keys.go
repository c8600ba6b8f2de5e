package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// PassphraseFunc supplies the passphrase of an encrypted private key file.
type PassphraseFunc func(keyPath string) ([]byte, error)

// GenerateKeyPair generates an Ed25519 deploy key. The private key is in
// OpenSSH format so ssh(1) and LoadSigner can both read it.
func GenerateKeyPair(comment string) (*KeyPair, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(privateKey, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode private key: %w", err)
	}

	sshPublicKey, err := ssh.NewPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to convert public key: %w", err)
	}

	return &KeyPair{
		Private: pem.EncodeToMemory(block),
		Public:  ssh.MarshalAuthorizedKey(sshPublicKey),
	}, nil
}

// WriteFiles writes the private key to path (0600) and the public key to
// path.pub (0644).
func (kp *KeyPair) WriteFiles(path string) error {
	if err := os.WriteFile(path, kp.Private, 0600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(path+".pub", kp.Public, 0644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}
	return nil
}

// LoadSigner reads a private key file. When the key is encrypted, passphrase
// is asked for the passphrase; a nil passphrase makes encrypted keys an error.
func LoadSigner(path string, passphrase PassphraseFunc) (ssh.Signer, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", path, err)
	}

	signer, err := ssh.ParsePrivateKey(pemBytes)
	if err == nil {
		return signer, nil
	}

	var missing *ssh.PassphraseMissingError
	if !errors.As(err, &missing) {
		return nil, fmt.Errorf("failed to parse private key %s: %w", path, err)
	}
	if passphrase == nil {
		return nil, fmt.Errorf("private key %s is encrypted and no passphrase source is configured", path)
	}

	secret, err := passphrase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase for %s: %w", path, err)
	}

	signer, err = ssh.ParsePrivateKeyWithPassphrase(pemBytes, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt private key %s: %w", path, err)
	}
	return signer, nil
}

// PublicKeyAuth loads the key at path and returns a public key auth method.
func PublicKeyAuth(path string, passphrase PassphraseFunc) (ssh.AuthMethod, error) {
	signer, err := LoadSigner(path, passphrase)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}
