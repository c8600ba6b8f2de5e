package host

import (
	"bytes"
	"context"
	"errors"
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

// setupTestInventory writes a config pointing at a fresh inventory seeded
// with 10.0.0.0/29 and returns the database path
func setupTestInventory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HMS_CONFIG_DIR", dir)

	dbPath := filepath.Join(dir, "hms.db")
	cfg := fmt.Sprintf("inventory:\n  path: %s\nlogging:\n  level: error\n", dbPath)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hms.yaml"), []byte(cfg), 0644))

	store, err := inventory.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	_, err = store.AddPool(context.Background(), netip.MustParsePrefix("10.0.0.0/29"))
	require.NoError(t, err)

	return dbPath
}

func run(t *testing.T, args ...string) (string, error) {
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
	err := app.Run(context.Background(), append([]string{"test", "host"}, args...))
	return output.String(), err
}

func TestHostLifecycle(t *testing.T) {
	dbPath := setupTestInventory(t)

	out, err := run(t, "add", "-n", "web", "-d", "front end")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Host web added at 10.0.0.1")

	out, err = run(t, "add", "-n", "db", "-i", "10.0.0.5", "-m", "AA:BB:CC:DD:EE:FF", "-x")
	require.NoError(t, err)
	assert.Contains(t, out, "added at 10.0.0.5")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "HOST")
	assert.Regexp(t, `web\s+10\.0\.0\.1\s+-\s+N\s+front end`, out)
	assert.Regexp(t, `db\s+10\.0\.0\.5\s+aabbccddeeff\s+Y`, out)

	out, err = run(t, "list", "--match", "10.0.0._5")
	require.NoError(t, err)
	assert.Contains(t, out, "No hosts found")

	_, err = run(t, "modify", "-n", "db", "--no-dhcp", "-d", "database")
	require.NoError(t, err)

	_, err = run(t, "rename", "-n", "web", "--to", "www1")
	require.NoError(t, err)

	out, err = run(t, "list", "-n", "www1")
	require.NoError(t, err)
	assert.Contains(t, out, "10.0.0.1")

	out, err = run(t, "delete", "-i", "10.0.0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Host db removed, 10.0.0.5 is free")

	out, err = run(t, "free")
	require.NoError(t, err)
	assert.Contains(t, out, "5 free addresses")

	store, err := inventory.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	h, err := store.Lookup(context.Background(), "", "10.0.0.5")
	require.NoError(t, err)
	assert.False(t, h.Assigned())
	assert.Empty(t, h.MAC)
}

func TestHostAdd_Rejects(t *testing.T) {
	setupTestInventory(t)

	_, err := run(t, "add", "-n", "web")
	require.NoError(t, err)

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{name: "missing host", args: []string{"add"}, errMsg: "--host is required"},
		{name: "bad host", args: []string{"add", "-n", "9lives"}, errMsg: "not a valid host name"},
		{name: "bad ip", args: []string{"add", "-n", "x1", "-i", "10.0.0"}, errMsg: "not a valid IPv4 address"},
		{name: "bad mac", args: []string{"add", "-n", "x1", "-m", "zz"}, errMsg: "not a valid MAC address"},
		{name: "dhcp without mac", args: []string{"add", "-n", "x1", "-x"}, errMsg: "--dhcp requires --mac"},
		{name: "bad description", args: []string{"add", "-n", "x1", "-d", "semi;colon"}, errMsg: "not a valid description"},
		{name: "nothing to modify", args: []string{"modify", "-n", "web"}, errMsg: "nothing to modify"},
		{name: "delete needs one selector", args: []string{"delete", "-n", "web", "-i", "10.0.0.1"}, errMsg: "exactly one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("duplicate host is a conflict", func(t *testing.T) {
		_, err := run(t, "add", "-n", "web")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrConflict))
		assert.Equal(t, errs.ExitConflict, errs.ExitCode(err))
	})

	t.Run("used address is a conflict", func(t *testing.T) {
		_, err := run(t, "add", "-n", "other", "-i", "10.0.0.1")
		require.Error(t, err)
		assert.Equal(t, errs.ExitConflict, errs.ExitCode(err))
	})
}

func TestHost_NoConfig(t *testing.T) {
	t.Setenv("HMS_CONFIG_DIR", t.TempDir())

	_, err := run(t, "free")
	require.Error(t, err)
	assert.Equal(t, errs.ExitConfig, errs.ExitCode(err))
	assert.Contains(t, err.Error(), "hms config sample")
}

func TestHost_FlagsDoNotCarryOver(t *testing.T) {
	setupTestInventory(t)

	_, err := run(t, "add", "-n", "web", "-d", "front end")
	require.NoError(t, err)
	_, err = run(t, "add", "-n", "db")
	require.NoError(t, err)

	out, err := run(t, "list", "-n", "db")
	require.NoError(t, err)
	assert.NotContains(t, out, "web")

	// a plain list after a filtered one lists everything
	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "web")
	assert.Regexp(t, `db\s+10\.0\.0\.2\s+-\s+N\s*\n`, out)

	_, err = run(t, "modify", "-n", "db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to modify")
}

func TestCommands_FreshInstances(t *testing.T) {
	a, b := Commands(), Commands()
	require.NotSame(t, a, b)
	for i := range a.Commands {
		for j := range a.Commands[i].Flags {
			assert.NotSame(t, a.Commands[i].Flags[j], b.Commands[i].Flags[j], a.Commands[i].Name)
		}
	}
}
