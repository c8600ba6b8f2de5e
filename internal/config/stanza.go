package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/catalystcommunity/hms/internal/deploy"
	"github.com/catalystcommunity/hms/internal/errs"
	"github.com/catalystcommunity/hms/internal/zone"
)

var errMissing = errors.New("option is required")

// Stanza resolves the named publish section into a Publish value
func (c *Config) Stanza(name string) (*Publish, error) {
	if name == "" {
		name = DefaultStanza
	}

	raw, ok := c.Publish[name]
	if !ok {
		return nil, &errs.ConfigError{Stanza: name, Err: fmt.Errorf("publish stanza not found")}
	}

	return raw.resolve(name)
}

// StanzaNames returns the configured publish stanza names in sorted order
func (c *Config) StanzaNames() []string {
	names := make([]string, 0, len(c.Publish))
	for name := range c.Publish {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Stanza) resolve(name string) (*Publish, error) {
	optErr := func(opt string, err error) error {
		return &errs.ConfigError{Stanza: name, Option: opt, Err: err}
	}

	for key := range s {
		if !slices.Contains(RequiredOptions, key) && !slices.Contains(optionalOptions, key) {
			return nil, optErr(key, fmt.Errorf("unknown option"))
		}
	}
	for _, opt := range RequiredOptions {
		if strings.TrimSpace(s[opt]) == "" {
			return nil, optErr(opt, errMissing)
		}
	}

	p := &Publish{
		Stanza:       name,
		Domain:       strings.TrimSuffix(strings.TrimSpace(s[OptDomain]), "."),
		KeyPath:      strings.TrimSpace(s[OptKey]),
		User:         strings.TrimSpace(s[OptUser]),
		StaticFile:   s.valueOr(OptStaticFile, DefaultStaticFile),
		StagingFile:  s.valueOr(OptStagingFile, DefaultStagingFile),
		CheckCommand: s.valueOr(OptCheckCommand, DefaultCheckCommand),
		KnownHosts:   strings.TrimSpace(s[OptKnownHosts]),
	}

	port, err := strconv.Atoi(strings.TrimSpace(s[OptPort]))
	if err != nil || port <= 0 || port > 65535 {
		return nil, optErr(OptPort, fmt.Errorf("invalid port %q", s[OptPort]))
	}
	p.Port = port

	if p.NameServers, err = splitList(s[OptNSList], ","); err != nil {
		return nil, optErr(OptNSList, err)
	}

	hosts, err := splitList(s[OptHost], ",")
	if err != nil {
		return nil, optErr(OptHost, err)
	}
	for _, h := range hosts {
		p.Endpoints = append(p.Endpoints, deploy.Endpoint{Address: h, User: p.User, Port: p.Port})
	}

	if p.Forward, err = parseForward(s[OptFwdZoneDestName]); err != nil {
		return nil, optErr(OptFwdZoneDestName, err)
	}
	if p.Reverse, err = parseReverse(s[OptRevZoneDestName]); err != nil {
		return nil, optErr(OptRevZoneDestName, err)
	}

	return p, nil
}

func (s Stanza) valueOr(opt, def string) string {
	if v := strings.TrimSpace(s[opt]); v != "" {
		return v
	}
	return def
}

// splitList splits a separated list, trimming whitespace around elements.
// Empty elements are rejected.
func splitList(value, sep string) ([]string, error) {
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("element %d of %q is empty", i+1, value)
		}
		out = append(out, part)
	}
	return out, nil
}

// parseForward parses "zonename,destpath"
func parseForward(value string) (zone.Spec, error) {
	parts, err := splitList(value, ",")
	if err != nil {
		return zone.Spec{}, err
	}
	if len(parts) != 2 {
		return zone.Spec{}, fmt.Errorf("expected zonename,destpath, got %q", value)
	}
	return zone.Spec{Name: parts[0], Dest: parts[1]}, nil
}

// parseReverse parses colon separated "zonename,destpath[,wildcard]" groups
func parseReverse(value string) ([]zone.ReverseSpec, error) {
	groups, err := splitList(value, ":")
	if err != nil {
		return nil, err
	}

	specs := make([]zone.ReverseSpec, 0, len(groups))
	for _, group := range groups {
		parts, err := splitList(group, ",")
		if err != nil {
			return nil, err
		}
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("expected zonename,destpath[,wildcard], got %q", group)
		}

		spec := zone.ReverseSpec{Spec: zone.Spec{Name: parts[0], Dest: parts[1]}}
		if len(parts) == 3 {
			spec.Wildcard = parts[2]
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
