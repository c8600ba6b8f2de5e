package config

import (
	"fmt"
	"strings"

	"github.com/catalystcommunity/hms/internal/deploy"
	"github.com/catalystcommunity/hms/internal/zone"
)

// Defaults for the optional settings
const (
	DefaultInventoryPath = "/var/lib/hms/hms.db"
	DefaultStanza        = "dns"
	DefaultStaticFile    = "/etc/hms/static.zone"
	DefaultStagingFile   = "/tmp/hms-zone.stage"
	DefaultCheckCommand  = "named-checkzone"
)

// Publish stanza option names
const (
	OptDomain          = "Domain"
	OptHost            = "Host"
	OptNSList          = "NSList"
	OptKey             = "Key"
	OptUser            = "User"
	OptPort            = "Port"
	OptFwdZoneDestName = "FwdZoneDestName"
	OptRevZoneDestName = "RevZoneDestName"
	OptStaticFile      = "StaticFile"
	OptStagingFile     = "StagingFile"
	OptCheckCommand    = "CheckCommand"
	OptKnownHosts      = "KnownHosts"
)

// RequiredOptions must be present and non-empty in every publish stanza
var RequiredOptions = []string{
	OptDomain, OptHost, OptNSList, OptKey, OptUser, OptPort, OptFwdZoneDestName, OptRevZoneDestName,
}

var optionalOptions = []string{OptStaticFile, OptStagingFile, OptCheckCommand, OptKnownHosts}

// Config represents the hms configuration file
type Config struct {
	Inventory InventoryConfig   `yaml:"inventory"`
	Logging   LoggingConfig     `yaml:"logging"`
	Publish   map[string]Stanza `yaml:"publish"`
}

// InventoryConfig locates the inventory database
type InventoryConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig defines log level and handler format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

// Stanza is one named publish section, keyed by option name
type Stanza map[string]string

// Publish is a resolved publish stanza. It is built once from the file and
// passed by value to the publisher.
type Publish struct {
	Stanza       string
	Domain       string
	NameServers  []string
	Endpoints    []deploy.Endpoint
	KeyPath      string
	User         string
	Port         int
	Forward      zone.Spec
	Reverse      []zone.ReverseSpec
	StaticFile   string
	StagingFile  string
	CheckCommand string
	KnownHosts   string
}

// Validate performs validation on the Config struct. Publish stanzas are
// checked when resolved, see Config.Stanza.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Inventory.Path) == "" {
		return fmt.Errorf("inventory.path is required")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging.format %q (must be text or json)", c.Logging.Format)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}

	return nil
}

// applyDefaults fills unset top-level settings
func (c *Config) applyDefaults() {
	if c.Inventory.Path == "" {
		c.Inventory.Path = DefaultInventoryPath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
