package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/forgeworks/promptsmith/internal/model"
)

func baseAssembleArgs() AssembleArgs {
	return AssembleArgs{
		RootName: "proj",
		Template: "{{dirs}}{{files_provided}}{{file_contents}}",
		Items: []m.TreeItem{
			{Path: "src", Kind: m.KindDir, Depth: 0},
			{Path: "src/a.go", Kind: m.KindFile, Depth: 1},
			{Path: "b.go", Kind: m.KindFile, Depth: 0},
		},
		Selection: []string{"src/a.go", "b.go"},
		Contents: map[string]string{
			"src/a.go": "package src\n",
			"b.go":     "package main\n",
		},
	}
}

func TestAssemble_Sections(t *testing.T) {
	res := NewAssembler().Assemble(baseAssembleArgs())

	assert.Contains(t, res.Text, "### File Structure")
	assert.Contains(t, res.Text, "### Code Files provided")
	assert.Contains(t, res.Text, "### Code Files")
	assert.Contains(t, res.Text, "proj/\n")
	assert.Contains(t, res.Text, "    src/\n")
	assert.Contains(t, res.Text, "        a.go\n")
	assert.Contains(t, res.Text, "- src/a.go\n- b.go\n")
	assert.Contains(t, res.Text, "--- b.go ---\npackage main\n--- b.go ---\n")
	assert.True(t, strings.HasSuffix(res.Text, "\n"))
	assert.False(t, strings.HasPrefix(res.Text, "\n"))
	assert.Empty(t, res.OmittedByCap)
}

func TestAssemble_PrefixInHeaders(t *testing.T) {
	args := baseAssembleArgs()
	args.Prefix = "Backend"

	res := NewAssembler().Assemble(args)

	assert.Contains(t, res.Text, "### Backend File Structure")
	assert.Contains(t, res.Text, "### Backend Code Files provided")
	assert.Contains(t, res.Text, "### Backend Code Files")
}

func TestAssemble_UnknownPlaceholderPassesThrough(t *testing.T) {
	args := baseAssembleArgs()
	args.Template = "{{unknown}} {{dirs}}"

	res := NewAssembler().Assemble(args)
	assert.Contains(t, res.Text, "{{unknown}}")
}

func TestAssemble_ContentCapKeepsPrefixOnly(t *testing.T) {
	args := baseAssembleArgs()
	args.Template = "{{file_contents}}"
	args.Contents = map[string]string{
		"src/a.go": strings.Repeat("x", 100),
		"b.go":     strings.Repeat("y", 100),
	}
	// Fits the first selected block (src/a.go), not the second.
	args.MaxContentSize = 150

	res := NewAssembler().Assemble(args)

	assert.Contains(t, res.Text, "--- src/a.go ---")
	assert.NotContains(t, res.Text, strings.Repeat("y", 100))
	assert.Equal(t, []string{"b.go"}, res.OmittedByCap)
}

func TestAssemble_ContentCapFollowsSelectionOrder(t *testing.T) {
	res := NewAssembler().Assemble(AssembleArgs{
		RootName:  "proj",
		Template:  "{{file_contents}}",
		Selection: []string{"z.go", "a.go"},
		Contents: map[string]string{
			"z.go": strings.Repeat("z", 100),
			"a.go": strings.Repeat("a", 100),
		},
		MaxContentSize: 150,
	})

	// z.go was selected first, so it survives the cap even though a.go
	// sorts before it.
	assert.Contains(t, res.Text, "--- z.go ---")
	assert.NotContains(t, res.Text, "--- a.go ---")
	assert.Equal(t, []string{"a.go"}, res.OmittedByCap)
}

func TestAssemble_EmptyContentsSuppressesSection(t *testing.T) {
	res := NewAssembler().Assemble(AssembleArgs{
		RootName:  "proj",
		Template:  "{{file_contents}}",
		Selection: []string{"gone.go"},
		Contents:  map[string]string{},
	})

	assert.NotContains(t, res.Text, "### Code Files")
}

func TestAssemble_FileWithoutContentStaysInManifest(t *testing.T) {
	args := baseAssembleArgs()
	delete(args.Contents, "src/a.go")

	res := NewAssembler().Assemble(args)

	// Still listed as provided, just no content block.
	assert.Contains(t, res.Text, "- src/a.go\n")
	assert.NotContains(t, res.Text, "--- src/a.go ---")
}

func TestRenderTree_FanoutCollapse(t *testing.T) {
	args := AssembleArgs{
		RootName: "proj",
		Template: "{{dirs}}",
		Items: []m.TreeItem{
			{Path: "big", Kind: m.KindDir, Depth: 0},
			{Path: "big/a.txt", Kind: m.KindFile, Depth: 1},
			{Path: "big/b.txt", Kind: m.KindFile, Depth: 1},
			{Path: "big/c.txt", Kind: m.KindFile, Depth: 1},
			{Path: "z.txt", Kind: m.KindFile, Depth: 0},
		},
		DirFanoutLimit: 2,
	}

	res := NewAssembler().Assemble(args)

	assert.Contains(t, res.Text, "big/...")
	assert.NotContains(t, res.Text, "a.txt")
	assert.Contains(t, res.Text, "z.txt")
}

func TestRenderTree_LineCap(t *testing.T) {
	items := make([]m.TreeItem, 0, 20)
	for _, name := range strings.Split("abcdefghij", "") {
		items = append(items, m.TreeItem{Path: name + ".txt", Kind: m.KindFile, Depth: 0})
	}

	res := NewAssembler().Assemble(AssembleArgs{
		RootName:     "proj",
		Template:     "{{dirs}}",
		Items:        items,
		TreeMaxLines: 5,
	})

	assert.Contains(t, res.Text, "output truncated due to size limits")
	assert.NotContains(t, res.Text, "j.txt")
}
