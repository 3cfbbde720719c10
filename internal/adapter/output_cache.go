package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// cacheEntry is one persisted output-cache record.
type cacheEntry struct {
	Time    int64  `yaml:"time"`
	Payload string `yaml:"payload"`
}

// OutputCache is the persisted, per-project key -> artifact store with
// time-based expiry. It exists purely to skip regenerating an identical
// prompt for an identical selection; losing it only costs recomputation, so
// unreadable state is treated as empty rather than fatal.
type OutputCache struct {
	dir string
	ttl time.Duration
	mu  sync.Mutex
	log *slog.Logger
	now func() time.Time
}

// NewOutputCache constructs an OutputCache storing one file per project
// under dir, expiring entries older than ttl.
func NewOutputCache(dir string, ttl time.Duration, log *slog.Logger) *OutputCache {
	if log == nil {
		log = slog.Default()
	}

	return &OutputCache{dir: dir, ttl: ttl, log: log, now: time.Now}
}

// Get returns the cached payload for key, if present and fresh. Expired
// entries are purged from the persisted store before lookup.
func (c *OutputCache) Get(project, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.file(project)

	var payload string

	var hit bool

	err := withFileLock(path, func() error {
		entries := c.read(path)

		if c.purge(entries) {
			c.write(path, entries)
		}

		if entry, ok := entries[key]; ok {
			payload, hit = entry.Payload, true
		}

		return nil
	})
	if err != nil {
		c.log.Warn("output cache read failed", "project", project, "err", err)

		return "", false
	}

	return payload, hit
}

// Put stores payload under key, overwriting any existing entry with a fresh
// timestamp.
func (c *OutputCache) Put(project, key, payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.file(project)

	return withFileLock(path, func() error {
		entries := c.read(path)
		entries[key] = cacheEntry{Time: c.now().Unix(), Payload: payload}
		c.purge(entries)

		return c.write(path, entries)
	})
}

func (c *OutputCache) file(project string) string {
	return filepath.Join(c.dir, "cache_"+SanitizeName(project)+".yaml")
}

// read loads the persisted mapping, treating missing or corrupted files as
// an empty store.
func (c *OutputCache) read(path string) map[string]cacheEntry {
	entries := make(map[string]cacheEntry)

	data, err := os.ReadFile(path)
	if err != nil {
		return entries
	}

	if err := yaml.Unmarshal(data, &entries); err != nil {
		c.log.Warn("output cache corrupted, starting empty", "path", path, "err", err)

		return make(map[string]cacheEntry)
	}

	return entries
}

// purge drops expired entries in place and reports whether any were removed.
func (c *OutputCache) purge(entries map[string]cacheEntry) bool {
	cutoff := c.now().Add(-c.ttl).Unix()
	purged := false

	for key, entry := range entries {
		if entry.Time < cutoff {
			delete(entries, key)

			purged = true
		}
	}

	return purged
}

func (c *OutputCache) write(path string, entries map[string]cacheEntry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal cache %s: %w", path, err)
	}

	tmp := fmt.Sprintf("%s.tmp.%s", path, instanceID)
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
