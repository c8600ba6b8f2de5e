package publish

import (
	"bytes"
	"context"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/catalystcommunity/hms/internal/errs"
	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const testConfig = `inventory:
  path: %s
logging:
  level: error
publish:
  dns:
    Domain: example.org
    Host: ns1.example.org
    NSList: ns1.example.org
    Key: %s
    User: root
    Port: 22
    FwdZoneDestName: example.org,/etc/bind/db.example.org
    RevZoneDestName: 0.10.in-addr.arpa,/etc/bind/db.10.0,10.0.%%
    StaticFile: %s
    StagingFile: %s
`

func setupTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	dbPath := filepath.Join(dir, "hms.db")
	cfg := fmt.Sprintf(testConfig, dbPath,
		filepath.Join(dir, "id_missing"),
		filepath.Join(dir, "static.zone"),
		filepath.Join(dir, "stage"))
	path := filepath.Join(dir, "hms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	ctx := context.Background()
	store, err := inventory.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	_, err = store.AddPool(ctx, netip.MustParsePrefix("10.0.0.0/29"))
	require.NoError(t, err)
	_, err = store.AddHost(ctx, inventory.HostRecord{Host: "web"})
	require.NoError(t, err)

	return path
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var output bytes.Buffer
	app := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.StringFlag{Name: "log-level"},
		},
		Commands:  []*cli.Command{Commands()},
		Writer:    &output,
		ErrWriter: &bytes.Buffer{},
	}
	err := app.Run(context.Background(), append([]string{"test", "--config", configPath, "publish"}, args...))
	return output.String(), err
}

func TestPublish_DryRun(t *testing.T) {
	configPath := setupTest(t)
	out := filepath.Join(t.TempDir(), "zones")

	stdout, err := run(t, configPath, "--dry-run", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Stanza dns, serial ")
	assert.Regexp(t, `example\.org\s+1\s+`, stdout)

	forward, err := os.ReadFile(filepath.Join(out, "db.example.org"))
	require.NoError(t, err)
	assert.Contains(t, string(forward), "web IN A 10.0.0.1\n")

	reverse, err := os.ReadFile(filepath.Join(out, "db.10.0"))
	require.NoError(t, err)
	assert.Contains(t, string(reverse), "1.0 IN PTR web.example.org.\n")
}

func TestPublish_Errors(t *testing.T) {
	configPath := setupTest(t)

	t.Run("dry run needs out", func(t *testing.T) {
		_, err := run(t, configPath, "--dry-run")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--dry-run requires --out")
	})

	t.Run("unknown stanza", func(t *testing.T) {
		_, err := run(t, configPath, "--stanza", "lab")
		require.Error(t, err)
		assert.Equal(t, errs.ExitConfig, errs.ExitCode(err))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := run(t, configPath)
		require.Error(t, err)
		assert.Equal(t, errs.ExitLocalIO, errs.ExitCode(err))
	})
}
