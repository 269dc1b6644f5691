package grid

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_RoundTripWithoutSpecialCharacters(t *testing.T) {
	cols := []Column{
		{Key: "operator", Label: "Operator"},
		{Key: "client", Label: "Client"},
		{Key: "validators", Label: "Validators"},
	}
	rows := []Row{
		{"operator": "alpha", "client": "teku", "validators": 12},
		{"operator": "beta", "client": "nimbus", "validators": 0.5},
	}

	var buf bytes.Buffer
	n, err := WriteCSV(&buf, cols, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"Operator", "Client", "Validators"}, strings.Split(lines[0], ","))
	assert.Equal(t, []string{"alpha", "teku", "12"}, strings.Split(lines[1], ","))
	assert.Equal(t, []string{"beta", "nimbus", "0.5"}, strings.Split(lines[2], ","))
}

func TestWriteCSV_Quoting(t *testing.T) {
	cols := []Column{{Key: "v", Label: "a,b"}}
	rows := []Row{
		{"v": "plain"},
		{"v": "x,y"},
		{"v": `say "hi"`},
		{"v": "two\nlines"},
		{"v": nil},
	}

	var buf bytes.Buffer
	_, err := WriteCSV(&buf, cols, rows)
	require.NoError(t, err)

	want := "\"a,b\"\nplain\n\"x,y\"\n\"say \"\"hi\"\"\"\n\"two\nlines\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_EmptyIsNoop(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, []Column{{Key: "a", Label: "A"}}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriteError(t *testing.T) {
	_, err := WriteCSV(failingWriter{}, []Column{{Key: "a"}}, []Row{{"a": 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, "operators_2024-03-10.csv", ExportFilename("operators", at))
}

func TestTable_ExportUsesAllPagesAndIgnoresRenderers(t *testing.T) {
	cols := []Column{
		{Key: "name", Label: "Name", Render: RenderFunc(func(v any, _ Row) string { return "<" + Stringify(v) + ">" })},
	}
	rows := []Row{{"name": "a"}, {"name": "b"}, {"name": "c"}}
	tbl := NewTable(rows, cols, Options{Exportable: true, PageSize: 1})

	var buf bytes.Buffer
	n, err := tbl.ExportCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "Name\na\nb\nc", buf.String())
	assert.Equal(t, "<a>", cols[0].Display(rows[0]))
}

func TestTable_ExportEmptyWritesNothing(t *testing.T) {
	tbl := NewTable([]Row{{"name": "a"}}, []Column{{Key: "name"}}, Options{Exportable: true, Searchable: true})
	require.NoError(t, tbl.SetSearch("zzz"))

	var buf bytes.Buffer
	n, err := tbl.ExportCSV(&buf)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, buf.Len())
}
