package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/catalystcommunity/hms/internal/errs"
	"github.com/catalystcommunity/hms/internal/logging"
	"github.com/catalystcommunity/hms/internal/zone"
)

// Deployer pushes a zone to every endpoint in order and checks it there
type Deployer struct {
	Executor Executor
	Stager   *Stager
	Logger   *slog.Logger
}

// Deploy stages f, transfers it to dest and validates it as zoneID at each
// endpoint in order. The first failure stops the run; endpoints already
// updated keep the new zone. The returned outcomes cover completed steps,
// including the failed one.
func (d *Deployer) Deploy(ctx context.Context, f *zone.File, dest, zoneID string, endpoints []Endpoint) ([]Outcome, error) {
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("zone", zoneID, "dest", dest)

	content := f.String()
	var outcomes []Outcome

	for _, ep := range endpoints {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome, err := d.transfer(ctx, content, dest, ep)
		if outcome != nil {
			outcomes = append(outcomes, *outcome)
		}
		if err != nil {
			return outcomes, err
		}
		logger.Debug("zone transferred", "endpoint", ep.String())

		outcome, err = d.Executor.Validate(ctx, zoneID, dest, ep)
		if outcome != nil {
			outcomes = append(outcomes, *outcome)
		}
		if err := remoteError(StepValidate, ep, outcome, err); err != nil {
			return outcomes, err
		}
		logger.Info("zone deployed", "endpoint", ep.String())
	}

	return outcomes, nil
}

func (d *Deployer) transfer(ctx context.Context, content, dest string, ep Endpoint) (*Outcome, error) {
	if err := d.Stager.Stage(content); err != nil {
		return nil, err
	}

	staged, err := d.Stager.Open()
	if err != nil {
		return nil, err
	}
	defer staged.Close()

	outcome, err := d.Executor.Transfer(ctx, staged, dest, ep)
	return outcome, remoteError(StepTransfer, ep, outcome, err)
}

// remoteError classifies a step result as a RemoteOperationError
func remoteError(step Step, ep Endpoint, outcome *Outcome, err error) error {
	if err != nil {
		return &errs.RemoteOperationError{Op: string(step), Endpoint: ep.String(), Err: err}
	}
	if outcome == nil {
		return &errs.RemoteOperationError{Op: string(step), Endpoint: ep.String(), Err: fmt.Errorf("no result")}
	}
	if !outcome.Success {
		return &errs.RemoteOperationError{
			Op:         string(step),
			Endpoint:   ep.String(),
			ExitStatus: outcome.ExitStatus,
			Output:     outcome.Output,
		}
	}
	return nil
}
