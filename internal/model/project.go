package model

// Project is one entry of the persisted project registry. The registry is a
// name -> Project mapping rewritten wholesale on every mutation.
type Project struct {
	Path         Path     `yaml:"path"`
	LastFiles    []string `yaml:"last_files,omitempty"`
	LastTemplate string   `yaml:"last_template,omitempty"`
	Blacklist    []string `yaml:"blacklist,omitempty"`
	Keep         []string `yaml:"keep,omitempty"`
	Prefix       string   `yaml:"prefix,omitempty"`
	UsageCount   int      `yaml:"usage_count"`
	LastUsed     int64    `yaml:"last_used"`
}

// AddBlacklist merges dirs into the project blacklist without duplicates.
// Re-applying the same dirs is a no-op.
func (p *Project) AddBlacklist(dirs []string) bool {
	seen := make(map[string]struct{}, len(p.Blacklist))
	for _, b := range p.Blacklist {
		seen[b] = struct{}{}
	}

	added := false

	for _, d := range dirs {
		if _, ok := seen[d]; ok {
			continue
		}

		seen[d] = struct{}{}
		p.Blacklist = append(p.Blacklist, d)
		added = true
	}

	return added
}
