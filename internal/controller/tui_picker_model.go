package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/forgeworks/promptsmith/internal/domain"
)

// pickDelegate renders one file row with its checkbox. The selection set is
// shared with the model so toggles show up without rebuilding the list.
type pickDelegate struct {
	selected map[string]struct{}
}

func (d pickDelegate) Height() int  { return 1 }
func (d pickDelegate) Spacing() int { return 0 }
func (d pickDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d pickDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	file, ok := item.(pickItem)
	if !ok {
		return
	}

	_, checked := d.selected[file.path]

	box := "[ ]"
	if checked {
		box = "[x]"
	}

	isCursor := index == m.Index()

	var boxStyle, pathStyle lipgloss.Style

	if isCursor {
		boxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		pathStyle = boxStyle
	} else if checked {
		boxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	} else {
		boxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}

	display := truncateToWidth(file.path, m.Width()-6)

	_, _ = fmt.Fprintf(w, "%s  %s", boxStyle.Render(box), pathStyle.Render(display))
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// pickerModel is the interactive file picker. Every selection change asks
// the preview worker for a fresh render; results for superseded selections
// are dropped by sequence number.
type pickerModel struct {
	width  int
	height int

	project  string
	fileList list.Model
	selected map[string]struct{}
	order    []string

	preview     *domain.PreviewWorker
	previewSeq  uint64
	previewText string
	previewErr  error
	previewOpen bool

	confirmed bool
}

func newPickerModel(args PickArgs) pickerModel {
	selected := make(map[string]struct{}, len(args.Initial))
	for _, rel := range args.Initial {
		selected[rel] = struct{}{}
	}

	delegate := pickDelegate{selected: selected}

	items := make([]list.Item, 0, len(args.Files))
	for _, rel := range args.Files {
		items = append(items, pickItem{path: rel})
	}

	fileList := list.New(items, delegate, 80, 20)
	fileList.SetShowPagination(false)
	fileList.SetShowFilter(true)
	fileList.SetShowHelp(false)
	fileList.SetShowTitle(false)
	fileList.SetShowStatusBar(false)
	fileList.FilterInput.Placeholder = "Filter by path…"

	model := pickerModel{
		project:  args.Project,
		fileList: fileList,
		selected: selected,
		order:    args.Files,
		preview:  args.Preview,
	}
	model.requestPreview()

	return model
}

func (m pickerModel) Init() tea.Cmd {
	return m.awaitPreview()
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fileList.SetWidth(m.width)

		return m, nil

	case previewMsg:
		// Stale previews are outdated selections, keep waiting for the
		// latest one.
		if msg.seq == m.previewSeq {
			m.previewText = msg.text
			m.previewErr = msg.err
		}

		return m, m.awaitPreview()

	case tea.KeyMsg:
		if m.fileList.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.confirmed = true

			return m, tea.Quit
		case " ":
			return m.toggleCurrent()
		case "a":
			return m.setAll(true)
		case "n":
			return m.setAll(false)
		case "tab":
			m.previewOpen = !m.previewOpen

			return m, nil
		}
	}

	var cmd tea.Cmd

	m.fileList, cmd = m.fileList.Update(msg)

	return m, cmd
}

func (m pickerModel) toggleCurrent() (tea.Model, tea.Cmd) {
	item, ok := m.fileList.SelectedItem().(pickItem)
	if !ok {
		return m, nil
	}

	if _, checked := m.selected[item.path]; checked {
		delete(m.selected, item.path)
	} else {
		m.selected[item.path] = struct{}{}
	}

	cmd := m.requestPreview()

	return m, cmd
}

func (m pickerModel) setAll(on bool) (tea.Model, tea.Cmd) {
	for _, rel := range m.order {
		if on {
			m.selected[rel] = struct{}{}
		} else {
			delete(m.selected, rel)
		}
	}

	cmd := m.requestPreview()

	return m, cmd
}

// requestPreview submits the current selection to the worker. Submissions
// overwrite each other inside the worker, only the newest gets computed.
func (m *pickerModel) requestPreview() tea.Cmd {
	if m.preview == nil {
		return nil
	}

	m.previewSeq++
	m.preview.Submit(domain.PreviewRequest{
		Seq:       m.previewSeq,
		Selection: m.selection(),
	})

	return nil
}

func (m pickerModel) awaitPreview() tea.Cmd {
	if m.preview == nil {
		return nil
	}

	results := m.preview.Results()

	return func() tea.Msg {
		res := <-results

		return previewMsg{seq: res.Seq, text: res.Text, err: res.Err}
	}
}

// selection returns the checked paths in scan order.
func (m pickerModel) selection() []string {
	out := make([]string, 0, len(m.selected))

	for _, rel := range m.order {
		if _, ok := m.selected[rel]; ok {
			out = append(out, rel)
		}
	}

	return out
}

func (m pickerModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("Promptsmith: " + m.project)

	summary := summaryStyle.Render(fmt.Sprintf(
		"Selected: %s of %s   Preview: %s chars",
		accentStyle.Render(fmt.Sprintf("%d", len(m.selected))),
		accentStyle.Render(fmt.Sprintf("%d", len(m.order))),
		accentStyle.Render(fmt.Sprintf("%d", len(m.previewText))),
	))

	table := m.renderTable()

	sections := []string{title, summary, table}

	if m.previewOpen {
		sections = append(sections, m.renderPreview())
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	sections = append(sections, footerStyle.Render(
		"space select • a/n all/none • tab preview • / filter • enter generate • q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m pickerModel) renderTable() string {
	listHeight := m.height - 9
	if m.previewOpen {
		listHeight -= m.previewHeight() + 2
	}

	if listHeight < 5 {
		listHeight = 5
	}

	listWidth := m.width - 6

	m.fileList.SetHeight(listHeight)
	m.fileList.SetWidth(listWidth)

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(m.fileList.View())
}

func (m pickerModel) renderPreview() string {
	body := m.previewText
	if m.previewErr != nil {
		body = "preview error: " + m.previewErr.Error()
	}

	lines := strings.Split(body, "\n")
	if len(lines) > m.previewHeight() {
		lines = lines[:m.previewHeight()]
	}

	previewContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Margin(0, 1).
		Padding(0, 1).
		Width(m.width - 6)

	return previewContainer.Render(strings.Join(lines, "\n"))
}

func (m pickerModel) previewHeight() int {
	h := m.height / 3
	if h < 4 {
		h = 4
	}

	return h
}
