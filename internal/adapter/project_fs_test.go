package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/forgeworks/promptsmith/internal/model"
)

func TestLocalProjectFS_IgnorePatterns(t *testing.T) {
	root := t.TempDir()
	content := "# comment\n\n*.log\nbuild/*\n  \n#another\ndist\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(content), 0o600))

	fs := NewLocalProjectFS()

	patterns, err := fs.IgnorePatterns(m.Path(root))
	require.NoError(t, err)
	assert.Equal(t, []string{"*.log", "build/*", "dist"}, patterns)
}

func TestLocalProjectFS_IgnorePatternsMissingFile(t *testing.T) {
	fs := NewLocalProjectFS()

	patterns, err := fs.IgnorePatterns(m.Path(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestLocalProjectFS_Join(t *testing.T) {
	fs := NewLocalProjectFS()

	joined := fs.Join("root", "sub/file.txt")
	assert.Equal(t, m.Path(filepath.Join("root", "sub/file.txt")), joined)
}
