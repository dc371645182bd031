package balance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBalanceFile drops a CUE override file into a fresh directory.
func writeBalanceFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "balance.cue"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

func TestLoad_EmptyDirArgReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_SchemaDefaultsApply(t *testing.T) {
	// A file that overrides nothing still yields the full default config.
	dir := writeBalanceFile(t, "package balance\n\nbalance: {}\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialOverride(t *testing.T) {
	dir := writeBalanceFile(t, `package balance

balance: {
	butterfly_lifespan_seconds: 30
	feeding_cycle:              5
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ButterflyLifespan)
	assert.Equal(t, 5, cfg.FeedingCycle)
	// Untouched values keep their defaults.
	assert.Equal(t, 21*time.Minute, cfg.BouquetLifetime)
	assert.Equal(t, Default().FlowerDwell, cfg.FlowerDwell)
}

func TestLoad_RejectsOutOfRange(t *testing.T) {
	dir := writeBalanceFile(t, `package balance

balance: inherit_same_chance: 1.5
`)

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_RejectsWrongDwellLength(t *testing.T) {
	dir := writeBalanceFile(t, `package balance

balance: flower_dwell_seconds: [1, 2, 3]
`)

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFindCUEFiles(t *testing.T) {
	dir := writeBalanceFile(t, "package balance\n\nbalance: {}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "balance.cue", filepath.Base(files[0]))
}
