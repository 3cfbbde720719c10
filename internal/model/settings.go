package model

import "sort"

// HistoryLimit caps the number of retained history records.
const HistoryLimit = 20

// DefaultTemplateText is installed when no templates exist yet.
const DefaultTemplateText = "Your task is to\n\n{{dirs}}{{files_provided}}{{file_contents}}"

// HistoryRecord remembers one generated selection. Records with the same
// project and file-set membership are merged instead of appended.
type HistoryRecord struct {
	ID          string   `yaml:"id"`
	Files       []string `yaml:"files"`
	Project     string   `yaml:"project"`
	Timestamp   int64    `yaml:"timestamp"`
	Generations int      `yaml:"generations"`
	CharSize    int      `yaml:"char_size"`
}

// Settings is the persisted application settings document.
type Settings struct {
	RespectDenyRules bool              `yaml:"respect_deny_rules"`
	GlobalBlacklist  []string          `yaml:"global_blacklist"`
	GlobalKeep       []string          `yaml:"global_keep"`
	DefaultTemplate  string            `yaml:"default_template,omitempty"`
	Templates        map[string]string `yaml:"templates"`
	History          []HistoryRecord   `yaml:"history"`
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		RespectDenyRules: true,
		Templates:        map[string]string{"Default": DefaultTemplateText},
	}
}

// FillDefaults repairs a loaded settings document in place.
func (s *Settings) FillDefaults() {
	if len(s.Templates) == 0 {
		s.Templates = map[string]string{"Default": DefaultTemplateText}
	}
}

// Template resolves a template by name, falling back to the configured
// default and then to any template at all.
func (s *Settings) Template(name string) (string, string) {
	if content, ok := s.Templates[name]; ok {
		return name, content
	}

	if content, ok := s.Templates[s.DefaultTemplate]; ok {
		return s.DefaultTemplate, content
	}

	names := make([]string, 0, len(s.Templates))
	for n := range s.Templates {
		names = append(names, n)
	}

	sort.Strings(names)

	if len(names) > 0 {
		return names[0], s.Templates[names[0]]
	}

	return "", ""
}

// AddHistory merges rec into the history. An existing record for the same
// project with an identical file set is updated (generation counter bumped,
// timestamp refreshed) instead of duplicated. The history stays sorted by
// timestamp descending and capped at HistoryLimit.
func (s *Settings) AddHistory(rec HistoryRecord) {
	if found := s.findByFileSet(rec.Project, rec.Files); found != nil {
		found.Generations++
		found.Timestamp = rec.Timestamp
		found.CharSize = rec.CharSize
	} else {
		rec.Generations = 1
		s.History = append(s.History, rec)
	}

	sort.SliceStable(s.History, func(i, j int) bool {
		return s.History[i].Timestamp > s.History[j].Timestamp
	})

	if len(s.History) > HistoryLimit {
		s.History = s.History[:HistoryLimit]
	}
}

func (s *Settings) findByFileSet(project string, files []string) *HistoryRecord {
	want := make(map[string]struct{}, len(files))
	for _, f := range files {
		want[f] = struct{}{}
	}

	for i := range s.History {
		h := &s.History[i]
		if h.Project != project || len(h.Files) != len(want) {
			continue
		}

		match := true

		for _, f := range h.Files {
			if _, ok := want[f]; !ok {
				match = false

				break
			}
		}

		if match {
			return h
		}
	}

	return nil
}
