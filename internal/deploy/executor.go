package deploy

import (
	"context"
	"fmt"
	"io"

	"al.essio.dev/pkg/shellescape"
	"github.com/catalystcommunity/hms/internal/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// remote is the part of an SSH connection the executor needs
type remote interface {
	Exec(ctx context.Context, command string, stdin io.Reader) (*ssh.ExecResult, error)
	Close() error
}

// SSHExecutor runs transfers and zone checks over SSH, one connection per
// step.
type SSHExecutor struct {
	Auth            gossh.AuthMethod
	HostKeyCallback gossh.HostKeyCallback
	// CheckCommand is run as "<CheckCommand> <zone> <path>"; it may carry
	// its own arguments.
	CheckCommand string
	Timeout      int // dial and handshake timeout in seconds

	dial func(ctx context.Context, opts *ssh.ConnectionOptions) (remote, error)
}

// NewSSHExecutor creates an executor authenticating with auth
func NewSSHExecutor(auth gossh.AuthMethod, hostKeys gossh.HostKeyCallback, checkCommand string) *SSHExecutor {
	return &SSHExecutor{
		Auth:            auth,
		HostKeyCallback: hostKeys,
		CheckCommand:    checkCommand,
		Timeout:         30,
		dial: func(ctx context.Context, opts *ssh.ConnectionOptions) (remote, error) {
			return ssh.Connect(ctx, opts)
		},
	}
}

// TransferCommand returns the remote command that writes stdin to dest
func TransferCommand(dest string) string {
	return "cat > " + shellescape.Quote(dest)
}

// ValidateCommand returns the remote zone check command line
func (e *SSHExecutor) ValidateCommand(zoneID, path string) string {
	return fmt.Sprintf("%s %s %s", e.CheckCommand, shellescape.Quote(zoneID), shellescape.Quote(path))
}

// Transfer streams content into dest on the endpoint
func (e *SSHExecutor) Transfer(ctx context.Context, content io.Reader, dest string, ep Endpoint) (*Outcome, error) {
	outcome, err := e.run(ctx, ep, TransferCommand(dest), content)
	if outcome != nil {
		outcome.Step = StepTransfer
		outcome.Dest = dest
	}
	return outcome, err
}

// Validate runs the zone check for zoneID against path on the endpoint
func (e *SSHExecutor) Validate(ctx context.Context, zoneID, path string, ep Endpoint) (*Outcome, error) {
	if e.CheckCommand == "" {
		return nil, fmt.Errorf("no zone check command configured")
	}

	outcome, err := e.run(ctx, ep, e.ValidateCommand(zoneID, path), nil)
	if outcome != nil {
		outcome.Step = StepValidate
		outcome.Zone = zoneID
		outcome.Dest = path
	}
	return outcome, err
}

func (e *SSHExecutor) run(ctx context.Context, ep Endpoint, command string, stdin io.Reader) (*Outcome, error) {
	opts := &ssh.ConnectionOptions{
		Host:            ep.Address,
		Port:            ep.Port,
		User:            ep.User,
		AuthMethod:      e.Auth,
		HostKeyCallback: e.HostKeyCallback,
		Timeout:         e.Timeout,
	}

	conn, err := e.dial(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	result, err := conn.Exec(ctx, command, stdin)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Endpoint:   ep,
		Success:    result.ExitCode == 0,
		Output:     result.Output(),
		ExitStatus: result.ExitCode,
	}, nil
}
