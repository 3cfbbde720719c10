// Package model defines the data structures for project scanning and prompt
// generation.
package model

// Path represents a file system path.
type Path string

// ItemKind distinguishes directories from files in a scan result.
type ItemKind string

// Available ItemKind values.
const (
	KindDir  ItemKind = "dir"
	KindFile ItemKind = "file"
)

// TreeItem is one entry of a scanned project tree. Path is slash-separated
// and relative to the project root, never starting with "/". Items are
// emitted in walk order with children sorted by name within each kind.
type TreeItem struct {
	Path  string
	Kind  ItemKind
	Depth int
}

// IsFile reports whether the item is a regular file.
func (i TreeItem) IsFile() bool {
	return i.Kind == KindFile
}

// FilterRuleSet holds the inclusion/exclusion rules applied during a scan.
// DenyPatterns come from the project's ignore file, KeepPatterns force
// inclusion and win over both deny and blacklist, BlacklistSubstrings are
// lowercase substrings matched against the normalized path.
type FilterRuleSet struct {
	DenyPatterns        []string
	KeepPatterns        []string
	BlacklistSubstrings []string
}

// ScanResult is the outcome of one project tree walk. Skipped records every
// ignored path for diagnostics; it is not shown in the file list.
type ScanResult struct {
	Items     []TreeItem
	Truncated bool
	Skipped   []string
}

// Files returns the relative paths of all file items, in walk order.
func (r ScanResult) Files() []string {
	files := make([]string, 0, len(r.Items))

	for _, item := range r.Items {
		if item.IsFile() {
			files = append(files, item.Path)
		}
	}

	return files
}
