package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	m "github.com/forgeworks/promptsmith/internal/model"
)

// artifactTimestamp is the layout used in generated artifact file names.
const artifactTimestamp = "02.01.2006_15.04.05"

// ArtifactWriter writes generated prompts to the output directory and hands
// them to the platform's default opener.
type ArtifactWriter struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// NewArtifactWriter constructs an ArtifactWriter targeting dir.
func NewArtifactWriter(dir string, log *slog.Logger) *ArtifactWriter {
	if log == nil {
		log = slog.Default()
	}

	return &ArtifactWriter{dir: dir, log: log, now: time.Now}
}

// Write stores payload as "<sanitizedProjectName>_<timestamp>.md" and
// returns the written path.
func (w *ArtifactWriter) Write(projectName, payload string) (m.Path, error) {
	name := fmt.Sprintf("%s_%s.md", SanitizeName(projectName), w.now().Format(artifactTimestamp))
	path := filepath.Join(w.dir, name)

	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}

	w.log.Info("artifact written", "path", path, "bytes", len(payload))

	return m.Path(path), nil
}

// Open hands a written artifact to the platform's default application.
// Failures are logged, not fatal; the artifact is already on disk.
func (w *ArtifactWriter) Open(path m.Path) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", string(path))
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", string(path))
	default:
		cmd = exec.Command("xdg-open", string(path))
	}

	if err := cmd.Start(); err != nil {
		w.log.Warn("could not open artifact", "path", path, "err", err)

		return err
	}

	return nil
}

// SanitizeName reduces a project name to characters safe for file names.
// Empty results fall back to "output".
func SanitizeName(name string) string {
	var b strings.Builder

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	s := strings.Trim(b.String(), "_")
	if s == "" {
		return "output"
	}

	return s
}
