package domain

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/forgeworks/promptsmith/internal/adapter"
	"github.com/forgeworks/promptsmith/internal/config"
	m "github.com/forgeworks/promptsmith/internal/model"
)

// Workflow defines the interface for prompt generation operations.
type Workflow interface {
	Projects() (map[string]m.Project, error)
	AddProject(name string, path m.Path) error
	RemoveProject(name string) error

	Settings() (m.Settings, error)
	History() ([]m.HistoryRecord, error)

	Scan(projectName string) (m.ScanResult, m.Project, error)
	ProposeBlacklist(projectName string) ([]string, error)
	ApplyBlacklist(projectName string, dirs []string) error

	Preview(args PreviewArgs) (string, error)
	Generate(args GenerateArgs) (GenerateResult, error)
	OpenArtifact(path m.Path) error
}

// PreviewArgs asks for a prompt rendered in memory, bypassing the output
// cache, artifact store, and history.
type PreviewArgs struct {
	Project   string
	Selection []string
	Template  string
}

// GenerateArgs describes one generation run.
type GenerateArgs struct {
	Project   string
	Selection []string
	Template  string
}

// GenerateResult is the outcome of one generation run.
type GenerateResult struct {
	Text      string
	Artifact  m.Path
	CacheHit  bool
	Template  string
	Omitted   []string
	Oversized []string
	Missing   []string
}

type workflow struct {
	fs        adapter.ProjectFS
	scanner   *Scanner
	filter    *FilterEngine
	prints    *FingerprintCache
	loader    *adapter.ContentLoader
	projects  *adapter.ProjectStore
	settings  *adapter.SettingsStore
	cache     *adapter.OutputCache
	artifacts *adapter.ArtifactWriter
	cfg       *config.Config
	log       *slog.Logger
	now       func() time.Time
}

// NewWorkflow creates a Workflow instance with the provided adapters.
func NewWorkflow(fs adapter.ProjectFS, cfg *config.Config, log *slog.Logger) Workflow {
	if log == nil {
		log = slog.Default()
	}

	return &workflow{
		fs:        fs,
		scanner:   NewScanner(fs, log),
		filter:    NewFilterEngine(),
		prints:    NewFingerprintCache(fs),
		loader:    adapter.NewContentLoader(fs, cfg.LoaderWorkers, cfg.MaxFileSize, log),
		projects:  adapter.NewProjectStore(cfg.ProjectsFile(), log),
		settings:  adapter.NewSettingsStore(cfg.SettingsFile(), log),
		cache:     adapter.NewOutputCache(cfg.CacheDir(), cfg.CacheExpiry, log),
		artifacts: adapter.NewArtifactWriter(cfg.OutputDir(), log),
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Projects returns the persisted project registry.
func (w *workflow) Projects() (map[string]m.Project, error) {
	return w.projects.Load()
}

// AddProject registers a project after validating that its path is an
// existing directory.
func (w *workflow) AddProject(name string, path m.Path) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name must not be empty")
	}

	abs, err := filepath.Abs(string(path))
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := w.fs.Stat(m.Path(abs))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInvalidRoot, abs)
	}

	registry, err := w.projects.Load()
	if err != nil {
		return err
	}

	if _, exists := registry[name]; exists {
		return fmt.Errorf("project %q already exists", name)
	}

	registry[name] = m.Project{Path: m.Path(abs)}

	return w.projects.Save(registry)
}

// RemoveProject drops a project from the registry.
func (w *workflow) RemoveProject(name string) error {
	registry, err := w.projects.Load()
	if err != nil {
		return err
	}

	if _, exists := registry[name]; !exists {
		return fmt.Errorf("unknown project %q", name)
	}

	delete(registry, name)

	return w.projects.Save(registry)
}

// Settings returns the persisted settings document.
func (w *workflow) Settings() (m.Settings, error) {
	return w.settings.Load()
}

// History returns the generation history, newest first.
func (w *workflow) History() ([]m.HistoryRecord, error) {
	settings, err := w.settings.Load()
	if err != nil {
		return nil, err
	}

	return settings.History, nil
}

// Scan walks the project tree under its current filter rules.
func (w *workflow) Scan(projectName string) (m.ScanResult, m.Project, error) {
	project, settings, err := w.lookup(projectName)
	if err != nil {
		return m.ScanResult{}, m.Project{}, err
	}

	args, err := w.scanArgs(project, settings)
	if err != nil {
		return m.ScanResult{}, m.Project{}, err
	}

	res, err := w.scanner.Scan(args)

	return res, project, err
}

// ProposeBlacklist reports directories whose visible file count exceeds the
// configured threshold and that are not blacklisted yet.
func (w *workflow) ProposeBlacklist(projectName string) ([]string, error) {
	project, settings, err := w.lookup(projectName)
	if err != nil {
		return nil, err
	}

	args, err := w.scanArgs(project, settings)
	if err != nil {
		return nil, err
	}

	return w.scanner.ProposeBlacklist(args, w.cfg.AutoBlacklistThreshold), nil
}

// ApplyBlacklist merges dirs into the project blacklist and persists it.
// Re-applying already-present dirs is a no-op without a registry write.
func (w *workflow) ApplyBlacklist(projectName string, dirs []string) error {
	registry, err := w.projects.Load()
	if err != nil {
		return err
	}

	project, ok := registry[projectName]
	if !ok {
		return fmt.Errorf("unknown project %q", projectName)
	}

	if !project.AddBlacklist(dirs) {
		return nil
	}

	registry[projectName] = project

	return w.projects.Save(registry)
}

// Preview renders the prompt for a selection without touching the output
// cache, artifacts, or history.
func (w *workflow) Preview(args PreviewArgs) (string, error) {
	project, settings, err := w.lookup(args.Project)
	if err != nil {
		return "", err
	}

	scanArgs, err := w.scanArgs(project, settings)
	if err != nil {
		return "", err
	}

	res, err := w.scanner.Scan(scanArgs)
	if err != nil {
		return "", err
	}

	selection, _ := pruneSelection(args.Selection, res.Files())
	templateName, template := settings.Template(args.Template)
	if templateName == "" {
		template = m.DefaultTemplateText
	}

	rendered, _ := w.assemble(project, res, selection, template)

	return rendered.Text, nil
}

// Generate renders the prompt for the selection, serving an unchanged
// selection from the output cache, then writes the artifact and records the
// run in history. Repeating the same selection bumps the existing history
// record instead of appending a new one.
func (w *workflow) Generate(args GenerateArgs) (GenerateResult, error) {
	project, settings, err := w.lookup(args.Project)
	if err != nil {
		return GenerateResult{}, err
	}

	scanArgs, err := w.scanArgs(project, settings)
	if err != nil {
		return GenerateResult{}, err
	}

	res, err := w.scanner.Scan(scanArgs)
	if err != nil {
		return GenerateResult{}, err
	}

	selection, stale := pruneSelection(args.Selection, res.Files())
	if len(selection) == 0 {
		return GenerateResult{}, fmt.Errorf("no selected files exist in project %q", args.Project)
	}

	templateName, template := settings.Template(args.Template)
	if templateName == "" {
		templateName, template = "Default", m.DefaultTemplateText
	}

	digests, missing := w.prints.FingerprintSelection(project.Path, selection)
	key := SelectionKey(selection, digests) + templateName

	result := GenerateResult{Template: templateName, Missing: mergeSorted(stale, missing)}

	if payload, ok := w.cache.Get(args.Project, key); ok {
		result.Text = payload
		result.CacheHit = true
	} else {
		rendered, load := w.assemble(project, res, selection, template)
		result.Text = rendered.Text
		result.Omitted = rendered.OmittedByCap
		result.Oversized = load.Oversized
		result.Missing = mergeSorted(result.Missing, load.Missing)

		if err := w.cache.Put(args.Project, key, result.Text); err != nil {
			w.log.Warn("output cache write failed", "project", args.Project, "err", err)
		}
	}

	artifact, err := w.artifacts.Write(args.Project, result.Text)
	if err != nil {
		return GenerateResult{}, err
	}

	result.Artifact = artifact

	w.finalize(args.Project, project, settings, selection, templateName, len(result.Text))

	return result, nil
}

// OpenArtifact hands a generated prompt file to the platform opener.
func (w *workflow) OpenArtifact(path m.Path) error {
	return w.artifacts.Open(path)
}

// finalize records the run: history merge, last-selection memory, and usage
// counters. Persistence failures are logged, not fatal, the prompt itself
// already exists on disk.
func (w *workflow) finalize(name string, project m.Project, settings m.Settings, selection []string, templateName string, charSize int) {
	settings.AddHistory(m.HistoryRecord{
		ID:        historyID(selection),
		Files:     append([]string(nil), selection...),
		Project:   name,
		Timestamp: w.now().Unix(),
		CharSize:  charSize,
	})

	if err := w.settings.Save(settings); err != nil {
		w.log.Warn("history save failed", "err", err)
	}

	registry, err := w.projects.Load()
	if err != nil {
		w.log.Warn("project registry reload failed", "err", err)

		return
	}

	project.LastFiles = append([]string(nil), selection...)
	project.LastTemplate = templateName
	project.UsageCount++
	project.LastUsed = w.now().Unix()
	registry[name] = project

	if err := w.projects.Save(registry); err != nil {
		w.log.Warn("project registry save failed", "err", err)
	}
}

func (w *workflow) assemble(project m.Project, res m.ScanResult, selection []string, template string) (AssembleResult, adapter.LoadResult) {
	load := w.loader.Load(project.Path, selection)

	rendered := NewAssembler().Assemble(AssembleArgs{
		RootName:       filepath.Base(string(project.Path)),
		Template:       template,
		Prefix:         project.Prefix,
		Items:          res.Items,
		Selection:      selection,
		Contents:       load.Contents,
		MaxContentSize: w.cfg.MaxContentSize,
		TreeMaxLines:   w.cfg.TreeMaxLines,
		TreeMaxDepth:   w.cfg.TreeMaxDepth,
		DirFanoutLimit: w.cfg.DirFanoutLimit,
	})

	return rendered, load
}

func (w *workflow) lookup(name string) (m.Project, m.Settings, error) {
	registry, err := w.projects.Load()
	if err != nil {
		return m.Project{}, m.Settings{}, err
	}

	project, ok := registry[name]
	if !ok {
		return m.Project{}, m.Settings{}, fmt.Errorf("unknown project %q", name)
	}

	settings, err := w.settings.Load()
	if err != nil {
		return m.Project{}, m.Settings{}, err
	}

	return project, settings, nil
}

// scanArgs builds the filter rules for one scan: deny patterns come from
// the project's ignore file, keep and blacklist merge the global and
// per-project lists.
func (w *workflow) scanArgs(project m.Project, settings m.Settings) (ScanArgs, error) {
	deny, err := w.fs.IgnorePatterns(project.Path)
	if err != nil {
		w.log.Debug("no ignore file", "path", project.Path, "err", err)
	}

	rules := m.FilterRuleSet{
		DenyPatterns:        deny,
		KeepPatterns:        normalizeAll(append(append([]string(nil), settings.GlobalKeep...), project.Keep...)),
		BlacklistSubstrings: normalizeAll(append(append([]string(nil), settings.GlobalBlacklist...), project.Blacklist...)),
	}

	return ScanArgs{
		Root:        project.Path,
		Rules:       rules,
		RespectDeny: settings.RespectDenyRules,
		MaxFiles:    w.cfg.MaxFiles,
	}, nil
}

// pruneSelection drops selected paths that no longer exist in the scanned
// tree, preserving the selection order of the survivors. Dropped paths are
// returned so callers can report them as missing.
func pruneSelection(selection, available []string) (pruned, stale []string) {
	present := make(map[string]struct{}, len(available))
	for _, f := range available {
		present[f] = struct{}{}
	}

	pruned = make([]string, 0, len(selection))
	seen := make(map[string]struct{}, len(selection))

	for _, s := range selection {
		rel := NormalizeRelSlashes(s)
		if _, dup := seen[rel]; dup {
			continue
		}

		seen[rel] = struct{}{}

		if _, ok := present[rel]; !ok {
			stale = append(stale, rel)

			continue
		}

		pruned = append(pruned, rel)
	}

	return pruned, stale
}

// NormalizeRelSlashes converts a user-supplied relative path to the
// slash-separated form scan results use, without lowercasing.
func NormalizeRelSlashes(rel string) string {
	rel = strings.ReplaceAll(strings.TrimSpace(rel), "\\", "/")

	return strings.Trim(rel, "/")
}

// historyID identifies a run by its file set, so repeating a selection maps
// to the same record regardless of pick order.
func historyID(selection []string) string {
	sorted := append([]string(nil), selection...)
	sort.Strings(sorted)

	return hashString(strings.Join(sorted, ","))
}

func normalizeAll(patterns []string) []string {
	out := make([]string, 0, len(patterns))

	for _, p := range patterns {
		norm := NormalizeRel(p)
		if norm == "" {
			continue
		}

		out = append(out, norm)
	}

	return out
}

func mergeSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))

	var out []string

	for _, s := range append(append([]string(nil), a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	sort.Strings(out)

	return out
}
