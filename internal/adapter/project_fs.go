// Package adapter contains filesystem, persistence, and output adapters for
// the promptsmith CLI.
package adapter

import (
	"os"
	"path/filepath"
	"strings"

	m "github.com/forgeworks/promptsmith/internal/model"
)

// ProjectFS abstracts the filesystem operations the domain layer relies on
// when scanning user projects. It hides direct `os` access so the scanning
// and fingerprinting logic can be tested without touching the disk.
type ProjectFS interface {
	// Stat returns metadata for a path.
	Stat(path m.Path) (os.FileInfo, error)

	// ReadDir lists a directory without sorting guarantees beyond the OS.
	ReadDir(path m.Path) ([]os.DirEntry, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// IgnorePatterns reads the line-oriented ignore file at the project
	// root, if present. A missing file yields an empty pattern list.
	IgnorePatterns(root m.Path) ([]string, error)

	// Join joins path elements into a single path.
	Join(elem ...string) m.Path
}

// ignoreFileName is the pattern file read from the project root.
const ignoreFileName = ".gitignore"

// LocalProjectFS is the concrete ProjectFS backed by the local filesystem.
type LocalProjectFS struct{}

// NewLocalProjectFS constructs a LocalProjectFS ready to be wired into the
// scanner and fingerprint cache.
func NewLocalProjectFS() *LocalProjectFS {
	return &LocalProjectFS{}
}

// Stat returns os.FileInfo metadata for the given path.
func (fs *LocalProjectFS) Stat(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// ReadDir lists the entries of a directory.
func (fs *LocalProjectFS) ReadDir(path m.Path) ([]os.DirEntry, error) {
	return os.ReadDir(string(path))
}

// ReadFile loads file contents from disk.
func (fs *LocalProjectFS) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// IgnorePatterns parses the ignore file at the project root. Blank lines and
// comment lines are skipped; everything else is one glob pattern.
func (fs *LocalProjectFS) IgnorePatterns(root m.Path) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(string(root), ignoreFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var patterns []string

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		patterns = append(patterns, line)
	}

	return patterns, nil
}

// Join joins path elements into a single path.
func (fs *LocalProjectFS) Join(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
