package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	"github.com/nodeset-analytics/dashgrid/internal/config"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

type recorder struct{ names []string }

func (r *recorder) Track(name string, _ map[string]any) { r.names = append(r.names, name) }

func testSnapshot() dataset.Snapshot {
	return dataset.Snapshot{
		Config: config.DatasetConfig{
			Name:       "ops",
			Title:      "Operators",
			Key:        "name",
			PageSize:   2,
			Selectable: true,
			Searchable: true,
			Exportable: true,
		},
		Columns: []grid.Column{
			{Key: "name", Label: "Name", Sortable: true, Filterable: true},
			{Key: "validators", Label: "Validators", Sortable: true},
		},
		Rows: []grid.Row{
			{"name": "alpha", "validators": 12.0},
			{"name": "bravo", "validators": 40.0},
			{"name": "charlie", "validators": 7.0},
		},
		Loaded: true,
	}
}

func newLoadedModel(t *testing.T, events grid.EventSink) *Model {
	t.Helper()
	m := New(context.Background(), Config{
		Dataset:   "ops",
		Load:      func(context.Context) (dataset.Snapshot, error) { return testSnapshot(), nil },
		Events:    events,
		ExportDir: t.TempDir(),
		Styles:    output.NewStyles(plainRenderer()),
		Now:       func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
	})
	msg := m.loadCmd()()
	m.Update(msg)
	require.NotNil(t, m.Table())
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func pageNames(m *Model) []string {
	var names []string
	for _, r := range m.Table().View().Rows {
		names = append(names, r["name"].(string))
	}
	return names
}

func TestModel_InitialLoad(t *testing.T) {
	m := New(context.Background(), Config{Dataset: "ops"})
	assert.Contains(t, m.View(), output.LoadingText)

	m = newLoadedModel(t, nil)
	assert.Equal(t, []string{"alpha", "bravo"}, pageNames(m))
	view := m.View()
	assert.Contains(t, view, "Operators")
	assert.Contains(t, view, "Page 1 of 2")
}

func TestModel_LoadError(t *testing.T) {
	m := New(context.Background(), Config{Dataset: "ops"})
	m.Update(loadErrMsg{errors.New("boom")})
	assert.Contains(t, m.View(), "Failed to load: boom")
}

func TestModel_SortAndPage(t *testing.T) {
	m := newLoadedModel(t, nil)

	// focus Validators, sort ascending then descending
	press(m, "right", "s")
	assert.Equal(t, []string{"charlie", "alpha"}, pageNames(m))
	press(m, "s")
	assert.Equal(t, []string{"bravo", "alpha"}, pageNames(m))
	press(m, "s")
	assert.False(t, m.Table().Sort().Active())

	press(m, "n")
	assert.Equal(t, 2, m.Table().Page())
	press(m, "n")
	assert.Equal(t, 2, m.Table().Page(), "next page stops at the last page")
	press(m, "p", "p")
	assert.Equal(t, 1, m.Table().Page())
}

func TestModel_SearchClampsPage(t *testing.T) {
	m := newLoadedModel(t, nil)
	press(m, "n")
	require.Equal(t, 2, m.Table().Page())

	press(m, "/", "a", "l", "enter")
	assert.Equal(t, "al", m.Table().Search())
	assert.Equal(t, 1, m.Table().Page())
	assert.Equal(t, []string{"alpha"}, pageNames(m))
	assert.Contains(t, m.View(), `search "al"`)
}

func TestModel_FilterFocusedColumn(t *testing.T) {
	m := newLoadedModel(t, nil)

	press(m, "f", "r", "a", "v", "enter")
	assert.Equal(t, map[string]string{"name": "rav"}, m.Table().Filters())
	assert.Equal(t, []string{"bravo"}, pageNames(m))

	// Validators is not filterable
	press(m, "right", "f")
	assert.Equal(t, modeNormal, m.mode)
	assert.Contains(t, m.status, "not filterable")
}

func TestModel_InputEscapeCancels(t *testing.T) {
	m := newLoadedModel(t, nil)
	press(m, "/", "x", "esc")
	assert.Empty(t, m.Table().Search())
	assert.Equal(t, modeNormal, m.mode)
}

func TestModel_SelectionAndClick(t *testing.T) {
	rec := &recorder{}
	m := newLoadedModel(t, rec)

	press(m, "down", "space")
	assert.Equal(t, []string{"bravo"}, m.Table().SelectedKeys())
	assert.Equal(t, "1 selected", m.status)

	press(m, "a")
	assert.Len(t, m.Table().SelectedKeys(), 3)
	press(m, "a")
	assert.Empty(t, m.Table().SelectedKeys())

	press(m, "enter")
	assert.Contains(t, m.detail, "Name: bravo")
	assert.Contains(t, m.View(), "Name: bravo")

	assert.Contains(t, rec.names, "table.select")
	assert.Contains(t, rec.names, "table.row_click")
}

func TestModel_Export(t *testing.T) {
	m := newLoadedModel(t, nil)
	press(m, "e")

	path := filepath.Join(m.cfg.ExportDir, "ops_2026-10-19.csv")
	assert.Equal(t, "Exported 3 rows to "+path, m.status)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Validators\nalpha,12\nbravo,40\ncharlie,7", string(data))

	press(m, "/", "z", "z", "enter", "e")
	assert.Equal(t, "Nothing to export", m.status)
}

func TestModel_ReloadKeepsState(t *testing.T) {
	m := newLoadedModel(t, nil)
	press(m, "right", "s")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	assert.True(t, m.Table().View().Loading)
	assert.Contains(t, m.View(), output.LoadingText)

	m.Update(m.loadCmd()())
	assert.False(t, m.Table().View().Loading)
	assert.Equal(t, "validators", m.Table().Sort().Key)
	assert.Equal(t, "Reloaded 3 rows", m.status)
}

func TestModel_Quit(t *testing.T) {
	m := newLoadedModel(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
