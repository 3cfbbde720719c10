package domain

import (
	"errors"
	"log/slog"
	"os"
	"sort"

	"github.com/forgeworks/promptsmith/internal/adapter"
	m "github.com/forgeworks/promptsmith/internal/model"
)

// ErrInvalidRoot marks a scan request whose root is missing or not a
// directory. Callers surface it without retrying.
var ErrInvalidRoot = errors.New("project root is not a directory")

// ScanArgs parameterizes one project tree walk.
type ScanArgs struct {
	Root        m.Path
	Rules       m.FilterRuleSet
	RespectDeny bool
	MaxFiles    int
}

// Scanner walks a project tree once, applying the filter engine per entry.
type Scanner struct {
	fs     adapter.ProjectFS
	filter *FilterEngine
	log    *slog.Logger
}

// NewScanner constructs a Scanner backed by the provided filesystem adapter.
func NewScanner(fs adapter.ProjectFS, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}

	return &Scanner{fs: fs, filter: NewFilterEngine(), log: log}
}

// Scan walks the tree depth-first with children sorted by name within each
// kind. Ignored directories are never descended into unless force-kept by a
// keep pattern, in which case the rules are re-applied per child. Scanning
// stops as soon as MaxFiles files have been accepted; results gathered up to
// that point are returned with Truncated set.
func (s *Scanner) Scan(args ScanArgs) (m.ScanResult, error) {
	info, err := s.fs.Stat(args.Root)
	if err != nil || !info.IsDir() {
		return m.ScanResult{}, ErrInvalidRoot
	}

	var res m.ScanResult

	fileCount := 0
	s.walk(args, "", 0, &res, &fileCount)

	return res, nil
}

// walk reports true when the file cap was hit and the walk must stop.
func (s *Scanner) walk(args ScanArgs, rel string, depth int, res *m.ScanResult, fileCount *int) bool {
	entries, err := s.fs.ReadDir(s.fs.Join(string(args.Root), rel))
	if err != nil {
		s.log.Warn("directory unreadable, skipping", "path", rel, "err", err)

		return false
	}

	dirs, files := splitEntries(entries)

	for _, name := range dirs {
		childRel := joinRel(rel, name)

		if s.filter.ShouldIgnore(childRel, args.RespectDeny, args.Rules) &&
			!s.filter.DirForceKept(childRel, args.Rules.KeepPatterns) {
			res.Skipped = append(res.Skipped, childRel)

			continue
		}

		res.Items = append(res.Items, m.TreeItem{Path: childRel, Kind: m.KindDir, Depth: depth})

		if s.walk(args, childRel, depth+1, res, fileCount) {
			return true
		}
	}

	for _, name := range files {
		childRel := joinRel(rel, name)

		if s.filter.ShouldIgnore(childRel, args.RespectDeny, args.Rules) {
			res.Skipped = append(res.Skipped, childRel)

			continue
		}

		res.Items = append(res.Items, m.TreeItem{Path: childRel, Kind: m.KindFile, Depth: depth})
		*fileCount++

		if args.MaxFiles > 0 && *fileCount >= args.MaxFiles {
			res.Truncated = true

			return true
		}
	}

	return false
}

// ProposeBlacklist counts non-ignored files per directory, independent of
// the file cap, and proposes every directory exceeding threshold as a new
// blacklist entry. Directories already covered by a blacklist substring are
// not re-proposed, so applying the proposal and re-running yields nothing.
func (s *Scanner) ProposeBlacklist(args ScanArgs, threshold int) []string {
	info, err := s.fs.Stat(args.Root)
	if err != nil || !info.IsDir() {
		return nil
	}

	var proposals []string

	s.countDirs(args, "", threshold, &proposals)
	sort.Strings(proposals)

	return proposals
}

func (s *Scanner) countDirs(args ScanArgs, rel string, threshold int, proposals *[]string) {
	entries, err := s.fs.ReadDir(s.fs.Join(string(args.Root), rel))
	if err != nil {
		return
	}

	dirs, files := splitEntries(entries)

	if rel != "" && !blacklisted(rel, args.Rules.BlacklistSubstrings) {
		visible := 0

		for _, name := range files {
			if !s.filter.ShouldIgnore(joinRel(rel, name), args.RespectDeny, args.Rules) {
				visible++
			}
		}

		if visible > threshold {
			*proposals = append(*proposals, rel)
		}
	}

	for _, name := range dirs {
		childRel := joinRel(rel, name)
		if blacklisted(childRel, args.Rules.BlacklistSubstrings) {
			continue
		}

		s.countDirs(args, childRel, threshold, proposals)
	}
}

func blacklisted(rel string, substrings []string) bool {
	norm := NormalizeRel(rel)

	for _, sub := range substrings {
		sub = NormalizeRel(sub)
		if sub == "" {
			continue
		}

		if norm == sub || len(norm) > len(sub) && norm[:len(sub)+1] == sub+"/" {
			return true
		}
	}

	return false
}

func splitEntries(entries []os.DirEntry) (dirs, files []string) {
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else {
			files = append(files, e.Name())
		}
	}

	sort.Strings(dirs)
	sort.Strings(files)

	return dirs, files
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}

	return rel + "/" + name
}
