package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "promptsmith.yaml"))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.CacheExpiry)
	assert.Equal(t, 500, cfg.MaxFiles)
	assert.Equal(t, 2_000_000, cfg.MaxContentSize)
	assert.Equal(t, int64(500_000), cfg.MaxFileSize)
	assert.Equal(t, 50, cfg.AutoBlacklistThreshold)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoad_OverridesAndNormalization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptsmith.yaml")
	content := "max_files: 10\nmax_content_size: -5\ncache_expiry: 30m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxFiles)
	assert.Equal(t, 30*time.Minute, cfg.CacheExpiry)
	assert.Equal(t, 2_000_000, cfg.MaxContentSize, "non-positive values fall back to defaults")
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptsmith.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_files: [broken"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnsureDataDirs(t *testing.T) {
	cfg := Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	require.NoError(t, cfg.EnsureDataDirs())
	assert.DirExists(t, cfg.CacheDir())
	assert.DirExists(t, cfg.OutputDir())
}
