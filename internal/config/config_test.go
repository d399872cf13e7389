package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileYieldsZeroConfig(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.toml"))

	ov := cfg.Overrides()
	assert.Nil(t, ov.AutoRefresh)
	assert.Nil(t, ov.RefreshSeconds)
	assert.Nil(t, ov.ShowCallables)
	assert.Nil(t, ov.ShowSpecials)
	assert.Empty(t, cfg.Log.File)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
[refresh]
auto = true
interval_seconds = 5

[filters]
show_callables = false
show_specials = true

[log]
file = "/tmp/objbrowse.log"
max_size_mb = 8
`)

	cfg := Load(path)
	ov := cfg.Overrides()

	require.NotNil(t, ov.AutoRefresh)
	assert.True(t, *ov.AutoRefresh)
	require.NotNil(t, ov.RefreshSeconds)
	assert.Equal(t, 5, *ov.RefreshSeconds)
	require.NotNil(t, ov.ShowCallables)
	assert.False(t, *ov.ShowCallables)
	require.NotNil(t, ov.ShowSpecials)
	assert.True(t, *ov.ShowSpecials)
	assert.Equal(t, "/tmp/objbrowse.log", cfg.Log.File)
	assert.Equal(t, 8, cfg.Log.MaxSizeMB)
}

func TestLoad_PartialConfigLeavesRestUnset(t *testing.T) {
	path := writeConfig(t, `
[filters]
show_specials = false
`)

	ov := Load(path).Overrides()
	assert.Nil(t, ov.AutoRefresh)
	assert.Nil(t, ov.RefreshSeconds)
	assert.Nil(t, ov.ShowCallables)
	require.NotNil(t, ov.ShowSpecials)
	assert.False(t, *ov.ShowSpecials)
}

func TestLoad_InvalidIntervalDropped(t *testing.T) {
	path := writeConfig(t, `
[refresh]
interval_seconds = 0
`)

	ov := Load(path).Overrides()
	assert.Nil(t, ov.RefreshSeconds, "non-positive interval must not reach the session")
}

func TestLoad_CorruptFileYieldsZeroConfig(t *testing.T) {
	path := writeConfig(t, "[refresh\nauto = yes please")

	cfg := Load(path)
	assert.Nil(t, cfg.Refresh.Auto)
	assert.Nil(t, cfg.Filters.ShowCallables)
}
