// Package deploytest provides a recording deploy.Executor for tests.
package deploytest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/catalystcommunity/hms/internal/deploy"
)

// Call is one recorded executor invocation
type Call struct {
	Step     deploy.Step
	Endpoint string
	Zone     string
	Dest     string
	Content  string
}

func (c Call) String() string {
	if c.Step == deploy.StepValidate {
		return fmt.Sprintf("%s %s %s %s", c.Step, c.Endpoint, c.Zone, c.Dest)
	}
	return fmt.Sprintf("%s %s %s", c.Step, c.Endpoint, c.Dest)
}

// Recorder records every call and succeeds unless told otherwise
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// FailStatus makes matching calls return this non-zero status
	FailStatus map[string]int
	// FailErr makes matching calls return a transport error
	FailErr map[string]error
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		FailStatus: make(map[string]int),
		FailErr:    make(map[string]error),
	}
}

// FailValidate makes validation of zone at the endpoint address exit with status
func (r *Recorder) FailValidate(address, zone string, status int) {
	r.FailStatus[key(deploy.StepValidate, address, zone)] = status
}

// FailTransfer makes transfers of dest to the endpoint address exit with status
func (r *Recorder) FailTransfer(address, dest string, status int) {
	r.FailStatus[key(deploy.StepTransfer, address, dest)] = status
}

// Unreachable makes every call to address fail with err
func (r *Recorder) Unreachable(address string, err error) {
	r.FailErr[address] = err
}

func key(step deploy.Step, address, target string) string {
	return string(step) + " " + address + " " + target
}

// Calls returns the recorded calls in order
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded calls formatted with Call.String
func (r *Recorder) Lines() []string {
	var lines []string
	for _, c := range r.Calls() {
		lines = append(lines, c.String())
	}
	return lines
}

func (r *Recorder) Transfer(ctx context.Context, content io.Reader, dest string, ep deploy.Endpoint) (*deploy.Outcome, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	r.record(Call{Step: deploy.StepTransfer, Endpoint: ep.Address, Dest: dest, Content: string(data)})
	return r.result(deploy.StepTransfer, ep, dest, "", dest)
}

func (r *Recorder) Validate(ctx context.Context, zoneID, path string, ep deploy.Endpoint) (*deploy.Outcome, error) {
	r.record(Call{Step: deploy.StepValidate, Endpoint: ep.Address, Zone: zoneID, Dest: path})
	return r.result(deploy.StepValidate, ep, zoneID, zoneID, path)
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *Recorder) result(step deploy.Step, ep deploy.Endpoint, target, zoneID, dest string) (*deploy.Outcome, error) {
	if err, ok := r.FailErr[ep.Address]; ok {
		return nil, err
	}

	outcome := &deploy.Outcome{Endpoint: ep, Step: step, Zone: zoneID, Dest: dest, Success: true}
	if status, ok := r.FailStatus[key(step, ep.Address, target)]; ok {
		outcome.Success = false
		outcome.ExitStatus = status
		outcome.Output = fmt.Sprintf("%s failed with status %d", step, status)
	} else if step == deploy.StepValidate {
		outcome.Output = fmt.Sprintf("zone %s/IN: loaded serial 0\nOK\n", zoneID)
	}
	return outcome, nil
}
