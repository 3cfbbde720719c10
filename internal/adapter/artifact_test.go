package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"My Project":   "My_Project",
		"api/v2 (new)": "apiv2_new",
		"___":          "output",
		"":             "output",
		"ok-name_1":    "ok-name_1",
	}

	for in, want := range cases {
		assert.Equalf(t, want, SanitizeName(in), "SanitizeName(%q)", in)
	}
}

func TestArtifactWriter_WriteNamesFileByProjectAndTime(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, nil)
	w.now = func() time.Time {
		return time.Date(2026, 8, 31, 14, 30, 5, 0, time.UTC)
	}

	path, err := w.Write("My Project", "content\n")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "My_Project_31.08.2026_14.30.05.md"), string(path))

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(data))
}

func TestArtifactWriter_WriteFailsOnMissingDir(t *testing.T) {
	w := NewArtifactWriter(filepath.Join(t.TempDir(), "nope"), nil)

	_, err := w.Write("p", "x")
	require.Error(t, err)
}
