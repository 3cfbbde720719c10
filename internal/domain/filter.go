// Package domain implements the scanning, fingerprinting, and prompt
// assembly engine.
package domain

import (
	"path"
	"strings"

	m "github.com/forgeworks/promptsmith/internal/model"
)

// FilterEngine decides whether a relative path is excluded from a scan.
//
// Precedence, highest first: a matching keep pattern always includes the
// path; a blacklist substring excludes it; a deny pattern (when deny rules
// are respected) excludes it. Patterns use shell-glob semantics and are
// matched against both the full normalized path and the basename.
type FilterEngine struct{}

// NewFilterEngine constructs a FilterEngine.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{}
}

// ShouldIgnore reports whether rel is excluded under rules. Empty rule lists
// make every path pass.
func (e *FilterEngine) ShouldIgnore(rel string, respectDeny bool, rules m.FilterRuleSet) bool {
	norm := NormalizeRel(rel)
	if norm == "" {
		return false
	}

	base := path.Base(norm)
	kept := matchesAny(rules.KeepPatterns, norm, base)

	for _, sub := range rules.BlacklistSubstrings {
		sub = strings.ToLower(strings.TrimSpace(sub))
		if sub == "" {
			continue
		}

		if strings.Contains(norm, sub) {
			return !kept
		}
	}

	if respectDeny && matchesAny(rules.DenyPatterns, norm, base) {
		return !kept
	}

	return false
}

// DirForceKept reports whether dir must be walked even though it matches an
// exclusion rule: some keep pattern points at the directory itself or at
// something beneath it. The scanner still re-applies the rules per child, so
// a keep rule can pull a single file out of an otherwise-excluded directory
// without keeping the whole subtree.
func (e *FilterEngine) DirForceKept(dir string, keepPatterns []string) bool {
	norm := NormalizeRel(dir)
	if norm == "" {
		return false
	}

	for _, kp := range keepPatterns {
		p := NormalizeRel(kp)
		if p == "" {
			continue
		}

		if p == norm || strings.HasPrefix(p, norm+"/") {
			return true
		}
	}

	return false
}

// NormalizeRel canonicalizes a relative path for rule matching: forward
// slashes, lowercase, no surrounding slashes or whitespace.
func NormalizeRel(rel string) string {
	s := strings.ReplaceAll(strings.TrimSpace(rel), "\\", "/")
	s = strings.ToLower(s)

	return strings.Trim(s, "/")
}

func matchesAny(patterns []string, norm, base string) bool {
	for _, pat := range patterns {
		p := NormalizeRel(pat)
		if p == "" {
			continue
		}

		if ok, _ := path.Match(p, norm); ok {
			return true
		}

		if ok, _ := path.Match(p, base); ok {
			return true
		}
	}

	return false
}
