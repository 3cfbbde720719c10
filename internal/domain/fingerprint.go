package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/forgeworks/promptsmith/internal/adapter"
	m "github.com/forgeworks/promptsmith/internal/model"
)

// FingerprintCache computes content+mtime digests per file, memoised by
// modification time. A touch without a content change still yields a new
// digest: a file with a new mtime is treated as possibly changed, trading
// cache efficiency for freshness.
type FingerprintCache struct {
	fs      adapter.ProjectFS
	mu      sync.Mutex
	entries map[m.Path]fingerprintEntry
}

type fingerprintEntry struct {
	modTime int64
	digest  string
}

// NewFingerprintCache constructs a FingerprintCache.
func NewFingerprintCache(fs adapter.ProjectFS) *FingerprintCache {
	return &FingerprintCache{fs: fs, entries: make(map[m.Path]fingerprintEntry)}
}

// Fingerprint returns the digest for the file at path, recomputing it when
// the modification time changed.
func (c *FingerprintCache) Fingerprint(path m.Path) (string, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return "", err
	}

	mod := info.ModTime().UnixNano()

	c.mu.Lock()
	if entry, ok := c.entries[path]; ok && entry.modTime == mod {
		c.mu.Unlock()

		return entry.digest, nil
	}
	c.mu.Unlock()

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return "", err
	}

	h := xxh3.New()
	_, _ = h.Write(data)
	_, _ = h.Write([]byte(strconv.FormatInt(mod, 10)))
	digest := formatDigest(h.Sum128())

	c.mu.Lock()
	c.entries[path] = fingerprintEntry{modTime: mod, digest: digest}
	c.mu.Unlock()

	return digest, nil
}

// FingerprintSelection fingerprints every file of selection relative to
// root. Unreadable files are reported as missing instead of aborting.
func (c *FingerprintCache) FingerprintSelection(root m.Path, selection []string) (map[string]string, []string) {
	digests := make(map[string]string, len(selection))

	var missing []string

	for _, rel := range selection {
		digest, err := c.Fingerprint(c.fs.Join(string(root), rel))
		if err != nil {
			missing = append(missing, rel)

			continue
		}

		digests[rel] = digest
	}

	return digests, missing
}

// SelectionKey derives a deterministic cache key from a selection and its
// fingerprints. The key is independent of selection iteration order; paths
// without a fingerprint are excluded.
func SelectionKey(selection []string, digests map[string]string) string {
	parts := make([]string, 0, len(selection))

	for _, rel := range selection {
		if digest, ok := digests[rel]; ok {
			parts = append(parts, rel+digest)
		}
	}

	sort.Strings(parts)

	return hashString(strings.Join(parts, ""))
}

func hashString(s string) string {
	return formatDigest(xxh3.Hash128([]byte(s)))
}

func formatDigest(sum xxh3.Uint128) string {
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo)
}
