// Package controller provides output adapters for displaying scan results,
// generated prompts, and the interactive file picker.
package controller

import (
	"github.com/forgeworks/promptsmith/internal/domain"
	m "github.com/forgeworks/promptsmith/internal/model"
)

// PickArgs configures one interactive selection session.
type PickArgs struct {
	Project string
	Files   []string
	Initial []string
	Preview *domain.PreviewWorker
}

// PickResult is the outcome of an interactive selection session.
type PickResult struct {
	Selection []string
	Confirmed bool
}

// UI defines the interface for displaying results and picking files.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayScan(project string, res m.ScanResult) error
	DisplayProjects(projects map[string]m.Project) error
	DisplayHistory(history []m.HistoryRecord) error
	DisplayGeneration(res domain.GenerateResult) error
	PickSelection(args PickArgs) (PickResult, error)
}
