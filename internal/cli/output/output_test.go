package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testTable(opts grid.Options) *grid.Table {
	cols := []grid.Column{
		{Key: "name", Label: "Name", Sortable: true, Filterable: true},
		{Key: "validators", Label: "Validators", Sortable: true},
		{Key: "note", Label: "Note"},
	}
	rows := []grid.Row{
		{"name": "alpha", "validators": 12, "note": "a|b"},
		{"name": "bravo", "validators": 3, "note": ""},
		{"name": "charlie", "validators": 7, "note": "multi\nline"},
	}
	return grid.NewTable(rows, cols, opts)
}

func newTestRenderer(mode Mode) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewRenderer(&out, &errOut, mode), &out, &errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeAuto},
		{"TEXT", ModeText},
		{"md", ModeMarkdown},
		{" json ", ModeJSON},
		{"csv", ModeCSV},
		{"yaml", ModeYAML},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMode("xml")
	assert.ErrorContains(t, err, "invalid output mode")
}

func TestEffectiveMode_NonTTY(t *testing.T) {
	r, _, _ := newTestRenderer(ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeJSON)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestView_Text(t *testing.T) {
	tbl := testTable(grid.Options{Selectable: true, PageSize: 2})
	require.NoError(t, tbl.SetSort(grid.SortState{Key: "validators", Direction: grid.Descending}))
	require.NoError(t, tbl.ToggleRow(0))

	r, out, _ := newTestRenderer(ModeText)
	require.NoError(t, r.View(tbl.View(), ViewOptions{Title: "operators", Selectable: true}))

	s := out.String()
	assert.Contains(t, s, "operators")
	assert.Contains(t, s, "Validators ▼")
	assert.Contains(t, s, "Name ↕")
	assert.Contains(t, s, "[x]")
	assert.Contains(t, s, "alpha")
	assert.Contains(t, s, "charlie")
	assert.NotContains(t, s, "bravo")
	assert.Contains(t, s, "Page 1 of 2 · 3 rows · 1 selected")
	assert.Contains(t, s, "┌")
}

func TestView_TextPlaceholders(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText)
	tbl := testTable(grid.Options{Loading: true})
	require.NoError(t, r.View(tbl.View(), ViewOptions{}))
	assert.Contains(t, out.String(), LoadingText)
	assert.NotContains(t, out.String(), "alpha")
	assert.NotContains(t, out.String(), "Page")

	out.Reset()
	tbl = testTable(grid.Options{Searchable: true})
	require.NoError(t, tbl.SetSearch("zzz"))
	require.NoError(t, r.View(tbl.View(), ViewOptions{}))
	assert.Contains(t, out.String(), NoDataText)
	assert.Contains(t, out.String(), "Page 1 of 1 · 0 rows")
}

func TestView_Markdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeAuto)
	tbl := testTable(grid.Options{PageSize: 10})
	require.NoError(t, r.View(tbl.View(), ViewOptions{Title: "operators"}))

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "## operators\n\n"))
	assert.Contains(t, s, "| Name ↕ | Validators ↕ | Note |")
	assert.Contains(t, s, "| --- | --- | --- |")
	assert.Contains(t, s, `a\|b`)
	assert.Contains(t, s, "multi<br>line")
	assert.Contains(t, s, "_Page 1 of 1 · 3 rows_")
}

func TestView_JSON(t *testing.T) {
	tbl := testTable(grid.Options{PageSize: 2, Searchable: true})
	require.NoError(t, tbl.SetSearch("a"))
	require.NoError(t, tbl.SetSort(grid.SortState{Key: "name"}))

	r, out, _ := newTestRenderer(ModeJSON)
	require.NoError(t, r.View(tbl.View(), ViewOptions{Title: "operators"}))

	var doc ViewDoc
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "operators", doc.Dataset)
	assert.Equal(t, 3, doc.Total)
	assert.Equal(t, 2, doc.TotalPages)
	assert.Equal(t, "a", doc.Search)
	require.NotNil(t, doc.Sort)
	assert.Equal(t, "asc", doc.Sort.Direction)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "alpha", doc.Rows[0]["name"])
	assert.InDelta(t, 12, doc.Rows[0]["validators"], 0)
}

func TestView_YAML(t *testing.T) {
	r, out, _ := newTestRenderer(ModeYAML)
	require.NoError(t, r.View(testTable(grid.Options{}).View(), ViewOptions{}))

	var doc ViewDoc
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, []string{"name", "validators", "note"}, doc.Columns)
	assert.Len(t, doc.Rows, 3)
	assert.Nil(t, doc.Sort)
}

func TestView_CSV(t *testing.T) {
	r, out, _ := newTestRenderer(ModeCSV)
	require.NoError(t, r.View(testTable(grid.Options{PageSize: 1}).View(), ViewOptions{}))
	assert.Equal(t, "Name,Validators,Note\nalpha,12,a|b\n", out.String())
}

func TestTable_Modes(t *testing.T) {
	header := []string{"Name", "Rows"}
	rows := [][]string{{"operators", "4"}}

	r, out, _ := newTestRenderer(ModeMarkdown)
	require.NoError(t, r.Table(header, rows))
	assert.Equal(t, "| Name | Rows |\n| --- | --- |\n| operators | 4 |\n", out.String())

	r, out, _ = newTestRenderer(ModeJSON)
	require.NoError(t, r.Table(header, rows))
	assert.JSONEq(t, `[{"Name":"operators","Rows":"4"}]`, out.String())

	r, out, _ = newTestRenderer(ModeText)
	require.NoError(t, r.Table(header, rows))
	assert.Contains(t, out.String(), "operators")
	assert.Contains(t, out.String(), "│")
}

func TestSpinner_NonTTY(t *testing.T) {
	r, _, errOut := newTestRenderer(ModeText)
	s := r.NewSpinner("Loading...")
	s.Start()
	s.Success("Loaded 4 rows")
	assert.Equal(t, "✓ Loaded 4 rows\n", errOut.String())

	errOut.Reset()
	s.Fail("boom")
	assert.Equal(t, "✗ boom\n", errOut.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Title", FormatHeader(2, "Title"))
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "- **Rows:** 4", FormatKeyValue("Rows", "4"))
}

func TestNewRendererWithTTY(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, true, ModeAuto)
	assert.True(t, r.IsTTY())
	assert.Equal(t, ModeText, r.EffectiveMode())
}
