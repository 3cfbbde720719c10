package controller

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/forgeworks/promptsmith/internal/domain"
	m "github.com/forgeworks/promptsmith/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayScan prints the scanned files as a table.
func (s *SimpleUI) DisplayScan(project string, res m.ScanResult) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Kind"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	files := 0

	for _, item := range res.Items {
		table.Append([]string{item.Path, string(item.Kind)})

		if item.IsFile() {
			files++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Project %s", project),
		fmt.Sprintf("%d files", files),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if res.Truncated {
		s.printf("\nScan truncated at the file limit; tighten the blacklist to see more.\n")
	}

	return nil
}

// DisplayProjects prints the project registry sorted by name.
func (s *SimpleUI) DisplayProjects(projects map[string]m.Project) error {
	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}

	sort.Strings(names)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Name", "Path", "Uses", "Last Used"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for _, name := range names {
		p := projects[name]
		table.Append([]string{name, string(p.Path), fmt.Sprintf("%d", p.UsageCount), formatUnix(p.LastUsed)})
	}

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayHistory prints generation history, newest first.
func (s *SimpleUI) DisplayHistory(history []m.HistoryRecord) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"When", "Project", "Files", "Gens", "Size"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	for _, rec := range history {
		table.Append([]string{
			formatUnix(rec.Timestamp),
			rec.Project,
			fmt.Sprintf("%d", len(rec.Files)),
			fmt.Sprintf("%d", rec.Generations),
			fmt.Sprintf("%d", rec.CharSize),
		})
	}

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayGeneration reports where the generated prompt landed and what was
// left out of it.
func (s *SimpleUI) DisplayGeneration(res domain.GenerateResult) error {
	if res.CacheHit {
		s.printf("Prompt unchanged, served from cache.\n")
	}

	s.printf("Wrote %s (%d chars, template %q)\n", res.Artifact, len(res.Text), res.Template)

	for _, rel := range res.Missing {
		s.printf("  missing: %s\n", rel)
	}

	for _, rel := range res.Oversized {
		s.printf("  skipped (too large): %s\n", rel)
	}

	for _, rel := range res.Omitted {
		s.printf("  omitted (size cap): %s\n", rel)
	}

	return nil
}

// PickSelection is not available without a terminal.
func (s *SimpleUI) PickSelection(_ PickArgs) (PickResult, error) {
	return PickResult{}, fmt.Errorf("interactive selection needs a terminal; pass --files instead")
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return "never"
	}

	return time.Unix(ts, 0).Format("2006-01-02 15:04")
}
