package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/catalystcommunity/hms/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Get the absolute path to test fixtures
	fixturesDir, err := filepath.Abs("../../test/fixtures")
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config file",
			path: filepath.Join(fixturesDir, "valid-config.yaml"),
		},
		{
			name: "minimal config gets defaults",
			path: filepath.Join(fixturesDir, "minimal-config.yaml"),
		},
		{
			name:    "non-existent file",
			path:    filepath.Join(fixturesDir, "does-not-exist.yaml"),
			wantErr: true,
			errMsg:  "config file not found",
		},
		{
			name:    "invalid config - bad log format",
			path:    filepath.Join(fixturesDir, "invalid-config-bad-format.yaml"),
			wantErr: true,
			errMsg:  "config validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := Load(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, config)
				assert.Equal(t, errs.ExitConfig, errs.ExitCode(err))
			} else {
				require.NoError(t, err)
				require.NotNil(t, config)
				assert.NotEmpty(t, config.Inventory.Path)
			}
		})
	}
}

func TestLoadFromReader(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid yaml",
			yaml: `
inventory:
  path: /tmp/hms.db
logging:
  level: WARN
`,
		},
		{
			name: "invalid yaml syntax",
			yaml: `
inventory:
  path: /tmp/hms.db
  invalid yaml here [[[
`,
			wantErr: true,
			errMsg:  "failed to parse YAML",
		},
		{
			name: "unknown log level",
			yaml: `
logging:
  level: chatty
`,
			wantErr: true,
			errMsg:  "invalid logging.level",
		},
		{
			name: "empty yaml",
			yaml: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadFromReader(strings.NewReader(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, config)
			} else {
				require.NoError(t, err)
				require.NotNil(t, config)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader("publish: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultInventoryPath, config.Inventory.Path)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
}

func TestLoad_ValidConfigFile(t *testing.T) {
	fixturesDir, err := filepath.Abs("../../test/fixtures")
	require.NoError(t, err)

	config, err := Load(filepath.Join(fixturesDir, "valid-config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/hms/hms.db", config.Inventory.Path)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, []string{"dns", "lab"}, config.StanzaNames())
	assert.Equal(t, "22", config.Publish["dns"][OptPort])
}

func TestLoad_FilePermissions(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	tmpPath := filepath.Join(t.TempDir(), "hms.yaml")
	require.NoError(t, os.WriteFile(tmpPath, []byte(Sample), 0000))

	_, err := Load(tmpPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}

func TestSample(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader(Sample))
	require.NoError(t, err)

	p, err := config.Stanza(DefaultStanza)
	require.NoError(t, err)
	assert.Equal(t, "example.org", p.Domain)
	assert.Len(t, p.Reverse, 2)
}
