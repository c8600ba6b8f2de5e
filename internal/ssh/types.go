package ssh

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
)

// DefaultTimeout bounds the dial and the handshake
const DefaultTimeout = 30 * time.Second

// Connection represents an active SSH connection to a name server
type Connection struct {
	Host   string
	Port   int
	User   string
	client *ssh.Client
}

// KeyPair represents an SSH public/private key pair
type KeyPair struct {
	Private []byte
	Public  []byte
}

// ConnectionOptions contains options for establishing an SSH connection
type ConnectionOptions struct {
	Host       string
	Port       int
	User       string
	AuthMethod ssh.AuthMethod
	// HostKeyCallback verifies the server key; nil accepts any key
	HostKeyCallback ssh.HostKeyCallback
	Timeout         int // dial and handshake timeout in seconds, default 30
}

// Validate validates the ConnectionOptions
func (opts *ConnectionOptions) Validate() error {
	if opts.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if opts.Port <= 0 || opts.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", opts.Port)
	}
	if opts.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if opts.AuthMethod == nil {
		return fmt.Errorf("auth method cannot be nil")
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// Address returns the host:port address string
func (opts *ConnectionOptions) Address() string {
	return net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
}

// String identifies the endpoint as user@host:port
func (opts *ConnectionOptions) String() string {
	return fmt.Sprintf("%s@%s", opts.User, opts.Address())
}
