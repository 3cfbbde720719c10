package domain

import (
	"path"
	"strings"

	m "github.com/forgeworks/promptsmith/internal/model"
)

const truncationMarker = "... (output truncated due to size limits)"

// AssembleArgs carries everything the assembler needs to render a prompt.
type AssembleArgs struct {
	RootName  string
	Template  string
	Prefix    string
	Items     []m.TreeItem
	Selection []string
	Contents  map[string]string

	MaxContentSize int
	TreeMaxLines   int
	TreeMaxDepth   int
	DirFanoutLimit int
}

// AssembleResult is the rendered prompt plus bookkeeping about what was
// left out.
type AssembleResult struct {
	Text         string
	OmittedByCap []string
}

// Assembler renders the final prompt text from a template, a scanned tree
// and the loaded file contents.
type Assembler struct{}

// NewAssembler constructs an Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble substitutes the template placeholders and returns the rendered
// prompt. Files whose content would push the prompt past MaxContentSize are
// omitted and reported in OmittedByCap.
func (a *Assembler) Assemble(args AssembleArgs) AssembleResult {
	tree := a.renderTree(args)
	fileList := a.renderFileList(args)
	contents, omitted := a.renderContents(args)

	text := args.Template
	text = strings.ReplaceAll(text, "{{dirs}}", section(args.Prefix, "File Structure", tree))
	text = strings.ReplaceAll(text, "{{files_provided}}", section(args.Prefix, "Code Files provided", fileList))
	text = strings.ReplaceAll(text, "{{file_contents}}", section(args.Prefix, "Code Files", contents))

	return AssembleResult{
		Text:         strings.Trim(text, "\n") + "\n",
		OmittedByCap: omitted,
	}
}

func section(prefix, title, body string) string {
	body = strings.Trim(body, "\n")
	if body == "" {
		return ""
	}

	header := "### " + title
	if prefix != "" {
		header = "### " + prefix + " " + title
	}

	return header + "\n\n" + body + "\n\n"
}

// renderTree draws the scanned items as an indented tree. Directories with
// more direct children than DirFanoutLimit are collapsed to a single line,
// and the whole tree is capped at TreeMaxDepth and TreeMaxLines.
func (a *Assembler) renderTree(args AssembleArgs) string {
	var b strings.Builder

	b.WriteString(args.RootName + "/\n")

	fanout := directChildCounts(args.Items)
	lines := 1
	skipPrefix := ""

	for _, item := range args.Items {
		rel := string(item.Path)
		if skipPrefix != "" {
			if strings.HasPrefix(rel, skipPrefix) {
				continue
			}

			skipPrefix = ""
		}

		if args.TreeMaxDepth > 0 && item.Depth >= args.TreeMaxDepth {
			continue
		}

		if args.TreeMaxLines > 0 && lines >= args.TreeMaxLines {
			b.WriteString(truncationMarker + "\n")

			return b.String()
		}

		indent := strings.Repeat("    ", item.Depth+1)
		name := path.Base(rel)

		if item.Kind == m.KindDir {
			if args.DirFanoutLimit > 0 && fanout[rel] > args.DirFanoutLimit {
				b.WriteString(indent + name + "/...\n")
				skipPrefix = rel + "/"
				lines++

				continue
			}

			b.WriteString(indent + name + "/\n")
		} else {
			b.WriteString(indent + name + "\n")
		}

		lines++
	}

	return b.String()
}

func directChildCounts(items []m.TreeItem) map[string]int {
	counts := make(map[string]int)

	for _, item := range items {
		dir := path.Dir(string(item.Path))
		if dir == "." {
			continue
		}

		counts[dir]++
	}

	return counts
}

// renderFileList emits one bullet per selected file, in selection order.
func (a *Assembler) renderFileList(args AssembleArgs) string {
	var b strings.Builder

	for _, rel := range args.Selection {
		b.WriteString("- " + rel + "\n")
	}

	return b.String()
}

// renderContents emits one delimited block per selected file, in selection
// order, stopping once the accumulated size would exceed MaxContentSize.
func (a *Assembler) renderContents(args AssembleArgs) (string, []string) {
	var b strings.Builder

	var omitted []string

	capped := false

	for _, rel := range args.Selection {
		content, ok := args.Contents[rel]
		if !ok {
			continue
		}

		if capped {
			omitted = append(omitted, rel)

			continue
		}

		block := "--- " + rel + " ---\n" + strings.TrimRight(content, "\n") + "\n--- " + rel + " ---\n\n"
		if args.MaxContentSize > 0 && b.Len()+len(block) > args.MaxContentSize {
			omitted = append(omitted, rel)
			capped = true

			continue
		}

		b.WriteString(block)
	}

	return b.String(), omitted
}
