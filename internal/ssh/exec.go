package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

// ExecResult contains the result of a command execution
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout and stderr joined, as a terminal would show them.
func (r *ExecResult) Output() string {
	switch {
	case r.Stdout == "":
		return r.Stderr
	case r.Stderr == "":
		return r.Stdout
	}
	return r.Stdout + r.Stderr
}

// Exec runs command on the remote host. When stdin is non-nil it is streamed
// to the command's standard input. A non-zero exit status is reported in the
// result, not as an error; errors mean the command could not be run at all.
// Cancelling ctx signals the remote command and abandons the session.
func (c *Connection) Exec(ctx context.Context, command string, stdin io.Reader) (*ExecResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("connection is not established")
	}

	if command == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	session, err := c.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	session.Stdin = stdin

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		// Try to signal the session to stop (best effort)
		session.Signal(ssh.SIGTERM)
		session.Close()
		return nil, fmt.Errorf("command interrupted: %w", ctx.Err())
	case err := <-done:
		result := &ExecResult{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: 0,
		}

		if err != nil {
			var exitErr *ssh.ExitError
			if !errors.As(err, &exitErr) {
				return nil, fmt.Errorf("failed to execute command: %w", err)
			}
			result.ExitCode = exitErr.ExitStatus()
		}

		return result, nil
	}
}
