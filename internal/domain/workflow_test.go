package domain

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/promptsmith/internal/adapter"
	"github.com/forgeworks/promptsmith/internal/config"
	m "github.com/forgeworks/promptsmith/internal/model"
)

func newTestWorkflow(t *testing.T) (Workflow, string) {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.CacheExpiry = time.Hour
	require.NoError(t, cfg.EnsureDataDirs())

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeTestFile(t, filepath.Join(root, "util.go"), "package main\n\nfunc util() {}\n")
	writeTestFile(t, filepath.Join(root, ".gitignore"), "*.log\n")
	writeTestFile(t, filepath.Join(root, "debug.log"), "noise")

	w := NewWorkflow(adapter.NewLocalProjectFS(), cfg, nil)
	require.NoError(t, w.AddProject("demo", m.Path(root)))

	return w, root
}

func TestWorkflow_ProjectRegistry(t *testing.T) {
	w, root := newTestWorkflow(t)

	projects, err := w.Projects()
	require.NoError(t, err)
	require.Contains(t, projects, "demo")
	assert.Equal(t, root, string(projects["demo"].Path))

	require.Error(t, w.AddProject("demo", m.Path(root)), "duplicate names must be rejected")
	require.Error(t, w.AddProject("ghost", m.Path(filepath.Join(root, "missing"))))

	require.NoError(t, w.RemoveProject("demo"))
	require.Error(t, w.RemoveProject("demo"))
}

func TestWorkflow_ScanRespectsIgnoreFile(t *testing.T) {
	w, _ := newTestWorkflow(t)

	res, _, err := w.Scan("demo")
	require.NoError(t, err)

	files := res.Files()
	assert.Contains(t, files, "main.go")
	assert.NotContains(t, files, "debug.log")
}

func TestWorkflow_GenerateAndCacheHit(t *testing.T) {
	w, _ := newTestWorkflow(t)

	args := GenerateArgs{Project: "demo", Selection: []string{"main.go", "util.go"}}

	first, err := w.Generate(args)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Contains(t, first.Text, "--- main.go ---")
	assert.FileExists(t, string(first.Artifact))

	// Same selection, unchanged contents: served from cache, identical text.
	second, err := w.Generate(args)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Text, second.Text)

	// Selection order must not matter for the cache key.
	third, err := w.Generate(GenerateArgs{Project: "demo", Selection: []string{"util.go", "main.go"}})
	require.NoError(t, err)
	assert.True(t, third.CacheHit)
}

func TestWorkflow_GenerateMergesHistory(t *testing.T) {
	w, _ := newTestWorkflow(t)

	args := GenerateArgs{Project: "demo", Selection: []string{"main.go"}}

	_, err := w.Generate(args)
	require.NoError(t, err)
	_, err = w.Generate(args)
	require.NoError(t, err)

	history, err := w.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].Generations)
	assert.Equal(t, []string{"main.go"}, history[0].Files)
	assert.Equal(t, historyID([]string{"main.go"}), history[0].ID)
}

func TestHistoryID_IgnoresSelectionOrder(t *testing.T) {
	a := historyID([]string{"b.go", "a.go"})
	b := historyID([]string{"a.go", "b.go"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, historyID([]string{"a.go"}))
}

func TestWorkflow_GenerateTracksUsage(t *testing.T) {
	w, _ := newTestWorkflow(t)

	_, err := w.Generate(GenerateArgs{Project: "demo", Selection: []string{"main.go"}})
	require.NoError(t, err)

	projects, err := w.Projects()
	require.NoError(t, err)
	assert.Equal(t, 1, projects["demo"].UsageCount)
	assert.Equal(t, []string{"main.go"}, projects["demo"].LastFiles)
}

func TestWorkflow_GeneratePrunesStaleSelection(t *testing.T) {
	w, _ := newTestWorkflow(t)

	res, err := w.Generate(GenerateArgs{
		Project:   "demo",
		Selection: []string{"main.go", "deleted.go"},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "--- main.go ---")
	assert.NotContains(t, res.Text, "deleted.go")
	assert.Contains(t, res.Missing, "deleted.go")
}

func TestWorkflow_GenerateRejectsEmptySelection(t *testing.T) {
	w, _ := newTestWorkflow(t)

	_, err := w.Generate(GenerateArgs{Project: "demo", Selection: []string{"deleted.go"}})
	require.Error(t, err)
}

func TestWorkflow_Preview(t *testing.T) {
	w, _ := newTestWorkflow(t)

	text, err := w.Preview(PreviewArgs{Project: "demo", Selection: []string{"main.go"}})
	require.NoError(t, err)
	assert.Contains(t, text, "### File Structure")
	assert.Contains(t, text, "--- main.go ---")

	// Previews leave no history behind.
	history, err := w.History()
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestWorkflow_BlacklistProposalRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.AutoBlacklistThreshold = 2
	require.NoError(t, cfg.EnsureDataDirs())

	root := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeTestFile(t, filepath.Join(root, "bulk", name), "x")
	}
	writeTestFile(t, filepath.Join(root, "main.go"), "package main\n")

	w := NewWorkflow(adapter.NewLocalProjectFS(), cfg, nil)
	require.NoError(t, w.AddProject("demo", m.Path(root)))

	proposals, err := w.ProposeBlacklist("demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"bulk"}, proposals)

	require.NoError(t, w.ApplyBlacklist("demo", proposals))

	proposals, err = w.ProposeBlacklist("demo")
	require.NoError(t, err)
	assert.Empty(t, proposals, "applying the proposal must make a re-run propose nothing")

	res, _, err := w.Scan("demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, res.Files())
}
