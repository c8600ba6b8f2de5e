// Package errs holds the fatal error kinds surfaced by hms and the process exit
// status each one maps to.
//
// Inside packages, errors are wrapped with fmt.Errorf("...: %w", err). One of the
// kinds below is attached at the boundary where the failure is classified, so
// the command layer can pick an exit status with errors.As.
package errs

import (
	"errors"
	"fmt"
)

// Exit statuses
const (
	ExitOK       = 0
	ExitConfig   = 1
	ExitConflict = 3
	ExitRemote   = 4
	ExitLocalIO  = 5
	ExitZone     = 6
	ExitStore    = 255
)

// ConfigError reports a missing or malformed configuration stanza or option.
type ConfigError struct {
	Stanza string
	Option string
	Err    error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Option != "":
		return fmt.Sprintf("config [%s] %s: %v", e.Stanza, e.Option, e.Err)
	case e.Stanza != "":
		return fmt.Sprintf("config [%s]: %v", e.Stanza, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// StoreQueryError reports a failed inventory read or write.
type StoreQueryError struct {
	Op  string
	Err error
}

func (e *StoreQueryError) Error() string {
	return fmt.Sprintf("inventory %s: %v", e.Op, e.Err)
}

func (e *StoreQueryError) Unwrap() error { return e.Err }

// RemoteOperationError reports a transfer or validation that failed on a name
// server endpoint, either with a non-zero exit status or a transport error.
type RemoteOperationError struct {
	Op         string
	Endpoint   string
	ExitStatus int
	Output     string
	Err        error
}

func (e *RemoteOperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s on %s failed: %v", e.Op, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s on %s exited with status %d: %s", e.Op, e.Endpoint, e.ExitStatus, e.Output)
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }

// LocalIOError reports a local file that could not be read or written.
type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("local file %s: %v", e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error { return e.Err }

// ZoneSyntaxError reports rendered zone text that does not parse as a master file.
type ZoneSyntaxError struct {
	Zone string
	Err  error
}

func (e *ZoneSyntaxError) Error() string {
	return fmt.Sprintf("zone %s does not parse: %v", e.Zone, e.Err)
}

func (e *ZoneSyntaxError) Unwrap() error { return e.Err }

// ErrConflict marks inventory changes rejected because a host, address or MAC
// is already taken or missing.
var ErrConflict = errors.New("inventory conflict")

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		cfgErr    *ConfigError
		storeErr  *StoreQueryError
		remoteErr *RemoteOperationError
		ioErr     *LocalIOError
		zoneErr   *ZoneSyntaxError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ExitConfig
	case errors.As(err, &remoteErr):
		return ExitRemote
	case errors.As(err, &zoneErr):
		return ExitZone
	case errors.As(err, &ioErr):
		return ExitLocalIO
	case errors.As(err, &storeErr):
		return ExitStore
	case errors.Is(err, ErrConflict):
		return ExitConflict
	}
	return ExitConfig
}
