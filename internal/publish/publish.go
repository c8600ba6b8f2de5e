// Package publish runs one publish pass: it reads the inventory, renders the
// forward zone and each reverse zone, and deploys them to every name server.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/catalystcommunity/hms/internal/config"
	"github.com/catalystcommunity/hms/internal/deploy"
	"github.com/catalystcommunity/hms/internal/errs"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/catalystcommunity/hms/internal/logging"
	"github.com/catalystcommunity/hms/internal/zone"
)

// Publisher publishes the zones of one stanza
type Publisher struct {
	Config   config.Publish
	Reader   inventory.Reader
	Executor deploy.Executor
	Stager   *deploy.Stager
	Logger   *slog.Logger
	Clock    func() time.Time

	// DryRunDir, when set, receives the rendered zones instead of the name
	// servers. Executor and Stager are not used.
	DryRunDir string
}

// ZoneResult describes one rendered zone
type ZoneResult struct {
	Zone     string
	Dest     string
	Records  int
	Outcomes []deploy.Outcome
	// Path is the local file written in dry-run mode
	Path string
}

// Report summarizes a run. After a failure it holds the zones and steps that
// completed before it.
type Report struct {
	Stanza string
	Serial string
	Zones  []ZoneResult
}

// Run performs the publish. Every zone of the run carries the same serial.
// The first failure aborts the rest of the run.
func (p *Publisher) Run(ctx context.Context) (*Report, error) {
	logger := p.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}

	report := &Report{Stanza: p.Config.Stanza, Serial: zone.Serial(clock())}
	logger = logger.With("stanza", report.Stanza, "serial", report.Serial)

	// one snapshot for every zone of the run
	aliases, err := p.Reader.ListAliases(ctx)
	if err != nil {
		return report, storeError("list aliases", err)
	}
	hosts, err := p.Reader.ListHosts(ctx, "")
	if err != nil {
		return report, storeError("list hosts", err)
	}

	static, err := readStatic(p.Config.StaticFile)
	if err != nil {
		return report, err
	}

	if p.DryRunDir == "" {
		if err := p.Stager.Lock(); err != nil {
			return report, err
		}
		defer func() {
			if err := p.Stager.Unlock(); err != nil {
				logger.Warn("failed to release staging lock", "error", err)
			}
		}()
	}

	forward := zone.BuildForward(zone.ForwardInput{
		Domain:      p.Config.Domain,
		NameServers: p.Config.NameServers,
		Serial:      report.Serial,
		Static:      static,
		Aliases:     aliases,
		Hosts:       hosts,
	})
	if err := p.publishZone(ctx, logger, report, forward, p.Config.Forward); err != nil {
		return report, err
	}

	parts := zone.Partition(p.Config.Reverse, hosts)
	for i, spec := range p.Config.Reverse {
		f, err := zone.BuildReverse(zone.ReverseInput{
			Spec:        spec,
			Domain:      p.Config.Domain,
			NameServers: p.Config.NameServers,
			Serial:      report.Serial,
			Hosts:       parts[i],
		})
		if err != nil {
			return report, &errs.ZoneSyntaxError{Zone: spec.Name, Err: err}
		}
		if err := p.publishZone(ctx, logger, report, f, spec.Spec); err != nil {
			return report, err
		}
	}

	logger.Info("publish complete", "zones", len(report.Zones))
	return report, nil
}

func (p *Publisher) publishZone(ctx context.Context, logger *slog.Logger, report *Report, f *zone.File, spec zone.Spec) error {
	logger = logger.With("zone", spec.Name, "dest", spec.Dest, "records", len(f.Records))

	if err := zone.Check(f); err != nil {
		return &errs.ZoneSyntaxError{Zone: spec.Name, Err: err}
	}

	result := ZoneResult{Zone: spec.Name, Dest: spec.Dest, Records: len(f.Records)}

	if p.DryRunDir != "" {
		path := filepath.Join(p.DryRunDir, filepath.Base(spec.Dest))
		for _, z := range report.Zones {
			if z.Path == path {
				return &errs.LocalIOError{Path: path, Err: fmt.Errorf("zones %s and %s share the file name %s", z.Zone, spec.Name, filepath.Base(path))}
			}
		}
		result.Path = path
		if err := writeZone(p.DryRunDir, path, f); err != nil {
			return err
		}
		report.Zones = append(report.Zones, result)
		logger.Info("zone rendered", "path", path)
		return nil
	}

	d := &deploy.Deployer{Executor: p.Executor, Stager: p.Stager, Logger: logger}
	outcomes, err := d.Deploy(ctx, f, spec.Dest, spec.Name, p.Config.Endpoints)
	result.Outcomes = outcomes
	report.Zones = append(report.Zones, result)
	if err != nil {
		logger.Error("zone deploy failed", "error", err)
		return err
	}
	return nil
}

// readStatic returns the static fragment; a missing file means no fragment
func readStatic(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &errs.LocalIOError{Path: path, Err: err}
	}
	return string(data), nil
}

func writeZone(dir, path string, f *zone.File) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &errs.LocalIOError{Path: dir, Err: err}
	}
	if err := os.WriteFile(path, []byte(f.String()), 0644); err != nil {
		return &errs.LocalIOError{Path: path, Err: err}
	}
	return nil
}

func storeError(op string, err error) error {
	var storeErr *errs.StoreQueryError
	if errors.As(err, &storeErr) {
		return err
	}
	return &errs.StoreQueryError{Op: op, Err: err}
}
