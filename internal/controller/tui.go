package controller

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/forgeworks/promptsmith/internal/domain"
	m "github.com/forgeworks/promptsmith/internal/model"
)

// TUI implements UI using Bubble Tea for the interactive picker and plain
// text for the informational displays.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayScan prints the scanned files one per line.
func (t *TUI) DisplayScan(project string, res m.ScanResult) error {
	files := 0

	for _, item := range res.Items {
		if !item.IsFile() {
			continue
		}

		_, _ = fmt.Fprintf(t.output, "%s\n", item.Path)
		files++
	}

	_, _ = fmt.Fprintf(t.output, "%d files in %s\n", files, project)

	if res.Truncated {
		_, _ = fmt.Fprintf(t.output, "scan truncated at the file limit\n")
	}

	return nil
}

// DisplayProjects prints the registry names and paths.
func (t *TUI) DisplayProjects(projects map[string]m.Project) error {
	for name, p := range projects {
		_, _ = fmt.Fprintf(t.output, "%s\t%s\n", name, p.Path)
	}

	return nil
}

// DisplayHistory prints the generation history, newest first.
func (t *TUI) DisplayHistory(history []m.HistoryRecord) error {
	for _, rec := range history {
		_, _ = fmt.Fprintf(t.output, "%s  %s  %d files  x%d\n",
			formatUnix(rec.Timestamp), rec.Project, len(rec.Files), rec.Generations)
	}

	return nil
}

// DisplayGeneration reports the generated artifact.
func (t *TUI) DisplayGeneration(res domain.GenerateResult) error {
	if res.CacheHit {
		_, _ = fmt.Fprintf(t.output, "Prompt unchanged, served from cache.\n")
	}

	_, _ = fmt.Fprintf(t.output, "Wrote %s (%d chars)\n", res.Artifact, len(res.Text))

	return nil
}

// PickSelection runs the interactive file picker and blocks until the user
// confirms or cancels.
func (t *TUI) PickSelection(args PickArgs) (PickResult, error) {
	program := tea.NewProgram(newPickerModel(args), tea.WithOutput(t.output))

	final, err := program.Run()
	if err != nil {
		return PickResult{}, fmt.Errorf("picker failed: %w", err)
	}

	model, ok := final.(pickerModel)
	if !ok {
		return PickResult{}, fmt.Errorf("picker returned unexpected model")
	}

	return PickResult{Selection: model.selection(), Confirmed: model.confirmed}, nil
}
