// Package config loads the immutable limits and data-directory configuration
// shared by the scanner, caches, and assembler.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable limits. It is loaded once at startup and passed
// explicitly to the components that need it.
type Config struct {
	// CacheExpiry is the TTL for persisted output-cache entries.
	CacheExpiry time.Duration

	// MaxFiles caps how many files one scan may accept before truncating.
	MaxFiles int

	// MaxContentSize caps the cumulative size of file contents in a prompt.
	MaxContentSize int

	// MaxFileSize excludes any single file larger than this from contents.
	MaxFileSize int64

	// AutoBlacklistThreshold is the per-directory file count above which a
	// directory is proposed as a blacklist entry.
	AutoBlacklistThreshold int

	// TreeMaxLines caps the rendered directory tree.
	TreeMaxLines int

	// TreeMaxDepth caps directory tree nesting.
	TreeMaxDepth int

	// DirFanoutLimit collapses directories with more visible entries than
	// this to a single "name/..." marker in the rendered tree.
	DirFanoutLimit int

	// LoaderWorkers bounds parallel file content loading.
	LoaderWorkers int

	// DataDir is where projects, settings, caches, and outputs live.
	DataDir string
}

// fileConfig is the on-disk shape. Durations are strings so users can write
// "30m" or "2h".
type fileConfig struct {
	CacheExpiry            string `yaml:"cache_expiry"`
	MaxFiles               int    `yaml:"max_files"`
	MaxContentSize         int    `yaml:"max_content_size"`
	MaxFileSize            int64  `yaml:"max_file_size"`
	AutoBlacklistThreshold int    `yaml:"auto_blacklist_threshold"`
	TreeMaxLines           int    `yaml:"tree_max_lines"`
	TreeMaxDepth           int    `yaml:"tree_max_depth"`
	DirFanoutLimit         int    `yaml:"dir_fanout_limit"`
	LoaderWorkers          int    `yaml:"loader_workers"`
	DataDir                string `yaml:"data_dir"`
}

// Default returns a Config with the standard limits.
func Default() *Config {
	return &Config{
		CacheExpiry:            time.Hour,
		MaxFiles:               500,
		MaxContentSize:         2_000_000,
		MaxFileSize:            500_000,
		AutoBlacklistThreshold: 50,
		TreeMaxLines:           1000,
		TreeMaxDepth:           10,
		DirFanoutLimit:         50,
		LoaderWorkers:          8,
		DataDir:                defaultDataDir(),
	}
}

// Load reads configuration from path. A missing file yields the defaults
// without error; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.CacheExpiry != "" {
		expiry, err := time.ParseDuration(fc.CacheExpiry)
		if err != nil {
			return nil, fmt.Errorf("invalid cache_expiry %q: %w", fc.CacheExpiry, err)
		}

		cfg.CacheExpiry = expiry
	}

	cfg.MaxFiles = fc.MaxFiles
	cfg.MaxContentSize = fc.MaxContentSize
	cfg.MaxFileSize = fc.MaxFileSize
	cfg.AutoBlacklistThreshold = fc.AutoBlacklistThreshold
	cfg.TreeMaxLines = fc.TreeMaxLines
	cfg.TreeMaxDepth = fc.TreeMaxDepth
	cfg.DirFanoutLimit = fc.DirFanoutLimit
	cfg.LoaderWorkers = fc.LoaderWorkers
	cfg.DataDir = fc.DataDir
	cfg.normalize()

	return cfg, nil
}

func (c *Config) normalize() {
	d := Default()

	if c.CacheExpiry <= 0 {
		c.CacheExpiry = d.CacheExpiry
	}

	if c.MaxFiles <= 0 {
		c.MaxFiles = d.MaxFiles
	}

	if c.MaxContentSize <= 0 {
		c.MaxContentSize = d.MaxContentSize
	}

	if c.MaxFileSize <= 0 {
		c.MaxFileSize = d.MaxFileSize
	}

	if c.AutoBlacklistThreshold <= 0 {
		c.AutoBlacklistThreshold = d.AutoBlacklistThreshold
	}

	if c.TreeMaxLines <= 0 {
		c.TreeMaxLines = d.TreeMaxLines
	}

	if c.TreeMaxDepth <= 0 {
		c.TreeMaxDepth = d.TreeMaxDepth
	}

	if c.DirFanoutLimit <= 0 {
		c.DirFanoutLimit = d.DirFanoutLimit
	}

	if c.LoaderWorkers <= 0 {
		c.LoaderWorkers = d.LoaderWorkers
	}

	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
}

// CacheDir is where per-project output caches are stored.
func (c *Config) CacheDir() string { return filepath.Join(c.DataDir, "cache") }

// OutputDir is where generated artifacts are written.
func (c *Config) OutputDir() string { return filepath.Join(c.DataDir, "outputs") }

// ProjectsFile is the persisted project registry.
func (c *Config) ProjectsFile() string { return filepath.Join(c.DataDir, "projects.yaml") }

// SettingsFile is the persisted settings document.
func (c *Config) SettingsFile() string { return filepath.Join(c.DataDir, "settings.yaml") }

// EnsureDataDirs creates the data directories if needed.
func (c *Config) EnsureDataDirs() error {
	for _, dir := range []string{c.DataDir, c.CacheDir(), c.OutputDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptsmith"
	}

	return filepath.Join(home, ".promptsmith")
}
