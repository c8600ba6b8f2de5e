// Package deploy copies rendered zone files to name servers and runs the
// remote zone check against each copy.
package deploy

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
)

// Endpoint is one name server that receives every zone
type Endpoint struct {
	Address string
	User    string
	Port    int
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s@%s", e.User, net.JoinHostPort(e.Address, strconv.Itoa(e.Port)))
}

// Step names a remote operation
type Step string

const (
	StepTransfer Step = "transfer"
	StepValidate Step = "validate"
)

// Outcome is the result of one step at one endpoint
type Outcome struct {
	Endpoint   Endpoint
	Step       Step
	Zone       string
	Dest       string
	Success    bool
	Output     string
	ExitStatus int
}

// Executor performs the remote side of a deployment. A non-zero remote
// status is reported in the Outcome; the error is for failures to reach the
// endpoint or run the command at all.
type Executor interface {
	Transfer(ctx context.Context, content io.Reader, dest string, ep Endpoint) (*Outcome, error)
	Validate(ctx context.Context, zoneID, path string, ep Endpoint) (*Outcome, error)
}
