package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "garden.db", cfg.Database)
	assert.Equal(t, 2*time.Second, cfg.SweepInterval)
	assert.Empty(t, cfg.BalanceDir)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"database: /var/lib/garden.db\nsweep_interval: 500ms\nuser: alice\n",
	), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/garden.db", cfg.Database)
	assert.Equal(t, 500*time.Millisecond, cfg.SweepInterval)
	assert.Equal(t, "alice", cfg.User)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: from-file.db\n"), 0o644))

	t.Setenv("GARDEN_DB", "from-env.db")
	t.Setenv("GARDEN_SWEEP_INTERVAL", "3s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.Database)
	assert.Equal(t, 3*time.Second, cfg.SweepInterval)
}

func TestLoadConfig_BadInterval(t *testing.T) {
	t.Setenv("GARDEN_SWEEP_INTERVAL", "soon")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_UnparsableYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
