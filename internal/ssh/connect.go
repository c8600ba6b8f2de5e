package ssh

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Connect establishes an SSH connection to a remote host. Cancelling ctx
// aborts the dial and the handshake.
func Connect(ctx context.Context, opts *ConnectionOptions) (*Connection, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection options: %w", err)
	}

	hostKeyCallback := opts.HostKeyCallback
	if hostKeyCallback == nil {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	timeout := time.Duration(opts.Timeout) * time.Second
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	config := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            []ssh.AuthMethod{opts.AuthMethod},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}

	dialer := &net.Dialer{Timeout: timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", opts.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts, err)
	}

	// ssh.NewClientConn takes no context
	if err := netConn.SetDeadline(time.Now().Add(timeout)); err != nil {
		netConn.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", opts, err)
	}
	stop := context.AfterFunc(ctx, func() { netConn.Close() })

	c, chans, reqs, err := ssh.NewClientConn(netConn, opts.Address(), config)
	if !stop() {
		if err == nil {
			c.Close()
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", opts, ctx.Err())
	}
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", opts, err)
	}
	if err := netConn.SetDeadline(time.Time{}); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", opts, err)
	}

	return &Connection{
		Host:   opts.Host,
		Port:   opts.Port,
		User:   opts.User,
		client: ssh.NewClient(c, chans, reqs),
	}, nil
}

// Close closes the SSH connection
func (c *Connection) Close() error {
	if c.client == nil {
		return fmt.Errorf("connection is not established")
	}
	return c.client.Close()
}

// HostKeyCallback returns a callback checking server keys against a
// known_hosts file. An empty path accepts any host key.
func HostKeyCallback(knownHostsPath string) (ssh.HostKeyCallback, error) {
	if knownHostsPath == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts %s: %w", knownHostsPath, err)
	}
	return callback, nil
}
