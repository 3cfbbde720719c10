package adapter

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	m "github.com/forgeworks/promptsmith/internal/model"
)

// LoadResult holds the contents of a loaded selection. Files that are
// missing or oversized have no entry in Contents; they are reported
// separately so callers can surface omissions instead of failing.
type LoadResult struct {
	Contents  map[string]string
	Sizes     map[string]int
	Oversized []string
	Missing   []string
}

// ContentLoader reads the contents of selected files with bounded
// parallelism. Individual read failures degrade to a missing entry.
type ContentLoader struct {
	fs          ProjectFS
	workers     int
	maxFileSize int64
	log         *slog.Logger
}

// NewContentLoader constructs a ContentLoader. Files larger than
// maxFileSize are never read; they count as unavailable.
func NewContentLoader(fs ProjectFS, workers int, maxFileSize int64, log *slog.Logger) *ContentLoader {
	if workers <= 0 {
		workers = 1
	}

	if log == nil {
		log = slog.Default()
	}

	return &ContentLoader{fs: fs, workers: workers, maxFileSize: maxFileSize, log: log}
}

// Load reads every file of selection relative to root.
func (l *ContentLoader) Load(root m.Path, selection []string) LoadResult {
	res := LoadResult{
		Contents: make(map[string]string, len(selection)),
		Sizes:    make(map[string]int, len(selection)),
	}

	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(l.workers)

	for _, rel := range selection {
		g.Go(func() error {
			full := l.fs.Join(string(root), rel)

			info, err := l.fs.Stat(full)
			if err != nil || info.IsDir() {
				mu.Lock()
				res.Missing = append(res.Missing, rel)
				mu.Unlock()

				return nil
			}

			if info.Size() > l.maxFileSize {
				mu.Lock()
				res.Oversized = append(res.Oversized, rel)
				res.Sizes[rel] = 0
				mu.Unlock()

				return nil
			}

			data, err := l.fs.ReadFile(full)
			if err != nil {
				l.log.Warn("file unreadable, skipping", "path", rel, "err", err)
				mu.Lock()
				res.Missing = append(res.Missing, rel)
				mu.Unlock()

				return nil
			}

			content := normalizeContent(data)

			mu.Lock()
			res.Contents[rel] = content
			res.Sizes[rel] = len(content)
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	sort.Strings(res.Oversized)
	sort.Strings(res.Missing)

	return res
}

// normalizeContent unifies line endings and strips a UTF-8 BOM.
func normalizeContent(data []byte) string {
	s := strings.TrimPrefix(string(data), "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	return strings.ReplaceAll(s, "\r", "\n")
}
