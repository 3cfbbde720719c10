package controller

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/promptsmith/internal/domain"
)

func newTestPicker() pickerModel {
	return newPickerModel(PickArgs{
		Project: "demo",
		Files:   []string{"a.go", "b.go", "c.go"},
		Initial: []string{"b.go"},
	})
}

func TestPickerModel_InitialSelection(t *testing.T) {
	m := newTestPicker()

	assert.Equal(t, []string{"b.go"}, m.selection())
}

func TestPickerModel_ToggleCurrent(t *testing.T) {
	m := newTestPicker()

	// The cursor starts on the first item.
	updated, _ := m.toggleCurrent()
	m = updated.(pickerModel)
	assert.Equal(t, []string{"a.go", "b.go"}, m.selection())

	updated, _ = m.toggleCurrent()
	m = updated.(pickerModel)
	assert.Equal(t, []string{"b.go"}, m.selection())
}

func TestPickerModel_ToggleAdvancesPreviewSeq(t *testing.T) {
	worker := domain.NewPreviewWorker(func(domain.PreviewRequest) (string, error) {
		return "", nil
	}, nil)

	m := newPickerModel(PickArgs{
		Project: "demo",
		Files:   []string{"a.go"},
		Preview: worker,
	})
	require.Equal(t, uint64(1), m.previewSeq)

	// The returned model must carry the bumped sequence, or every result
	// would be dropped as stale.
	updated, _ := m.toggleCurrent()
	m = updated.(pickerModel)
	assert.Equal(t, uint64(2), m.previewSeq)
}

func TestPickerModel_SelectAllAndNone(t *testing.T) {
	m := newTestPicker()

	updated, _ := m.setAll(true)
	m = updated.(pickerModel)
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, m.selection())

	updated, _ = m.setAll(false)
	m = updated.(pickerModel)
	assert.Empty(t, m.selection())
}

func TestPickerModel_EnterConfirms(t *testing.T) {
	m := newTestPicker()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(pickerModel)

	assert.True(t, m.confirmed)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPickerModel_QuitWithoutConfirm(t *testing.T) {
	m := newTestPicker()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(pickerModel)

	assert.False(t, m.confirmed)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPickerModel_StalePreviewIgnored(t *testing.T) {
	m := newTestPicker()
	m.previewSeq = 3
	m.previewText = "current"

	updated, _ := m.Update(previewMsg{seq: 2, text: "stale"})
	m = updated.(pickerModel)
	assert.Equal(t, "current", m.previewText)

	updated, _ = m.Update(previewMsg{seq: 3, text: "fresh"})
	m = updated.(pickerModel)
	assert.Equal(t, "fresh", m.previewText)
}

func TestTruncateToWidth(t *testing.T) {
	assert.Equal(t, "short", truncateToWidth("short", 10))
	assert.Equal(t, "abc…", truncateToWidth("abcdefgh", 4))
	assert.Equal(t, "", truncateToWidth("anything", 0))
}
